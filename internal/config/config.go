// Package config resolves the application configuration from defaults, the
// config file under ~/.stockcut, STOCKCUT_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"strings"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/piwi3910/StockCut/internal/project"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. STOCKCUT_DEFAULT_PARENT_WIDTH.
const EnvPrefix = "STOCKCUT"

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"algorithm":           "default_algorithm",
	"max-iterations":      "default_max_iterations",
	"stop-on-convergence": "default_stop_on_convergence",
	"skip-non-improving":  "default_skip_non_improving",
	"time-budget":         "default_time_budget",
	"usage-cap":           "default_usage_cap",
	"objective":           "default_direct_objective",
	"time-limit":          "default_solver_time_limit",
	"node-limit":          "default_node_limit",
	"width":               "default_parent_width",
	"stock":               "default_stock_preset",
	"report":              "report_file",
}

// Load resolves the configuration. An empty path searches DefaultConfigDir
// for a file named config with any extension viper reads; a missing file is
// not an error there. An explicit path must exist. flags may be nil; only
// flags the user set override lower layers.
func Load(path string, flags *pflag.FlagSet) (model.AppConfig, error) {
	v := viper.New()
	setDefaults(v, model.DefaultAppConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return model.AppConfig{}, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(project.DefaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return model.AppConfig{}, errors.Wrap(err, "read config")
			}
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return model.AppConfig{}, errors.Wrapf(err, "bind flag %s", name)
				}
			}
		}
	}

	var cfg model.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return model.AppConfig{}, errors.Wrap(err, "decode config")
	}
	if cfg.RecentJobs == nil {
		cfg.RecentJobs = []string{}
	}
	return cfg, nil
}

// Settings returns the optimizer settings a new job starts from.
func Settings(cfg model.AppConfig) model.CutSettings {
	s := model.DefaultSettings()
	cfg.ApplyToSettings(&s)
	return s
}

func setDefaults(v *viper.Viper, d model.AppConfig) {
	v.SetDefault("default_algorithm", string(d.DefaultAlgorithm))
	v.SetDefault("default_max_iterations", d.DefaultMaxIterations)
	v.SetDefault("default_stop_on_convergence", d.DefaultStopOnConvergence)
	v.SetDefault("default_skip_non_improving", d.DefaultSkipNonImproving)
	v.SetDefault("default_time_budget", d.DefaultTimeBudget)
	v.SetDefault("default_usage_cap", d.DefaultUsageCap)
	v.SetDefault("default_direct_objective", string(d.DefaultDirectObjective))
	v.SetDefault("default_solver_time_limit", d.DefaultSolverTimeLimit)
	v.SetDefault("default_node_limit", d.DefaultNodeLimit)
	v.SetDefault("default_parent_width", d.DefaultParentWidth)
	v.SetDefault("default_stock_preset", d.DefaultStockPreset)
	v.SetDefault("report_file", d.ReportFile)
	v.SetDefault("recent_jobs", d.RecentJobs)
}
