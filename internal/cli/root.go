// Package cli implements the stockcut command line: solving cutting plans,
// comparing strategies and estimating stock before a solve.
package cli

import (
	goflag "flag"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/piwi3910/StockCut/internal/config"
	"github.com/piwi3910/StockCut/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// options are the flags shared by every command that reads a demand list.
type options struct {
	configPath string

	demands string
	file    string
	job     string
	parents []string
}

// NewRootCommand builds the stockcut command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "stockcut",
		Short: "One-dimensional cutting stock optimizer",
		Long: "stockcut cuts demanded lengths from parent rolls, bars or boards of one\n" +
			"width while using as few parents as possible.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog reads its flags from the Go flag set.
			return goflag.CommandLine.Parse(nil)
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ~/.stockcut/config.*)")
	pf.AddGoFlagSet(goflag.CommandLine)

	root.AddCommand(
		newSolveCommand(opts),
		newCompareCommand(opts),
		newBoundsCommand(opts),
		newVersionCommand(),
	)
	return root
}

// addInputFlags registers the demand and parent stock flags.
func addInputFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.demands, "demands", "d", "", `demands as QTYxLENGTH items, e.g. "10x30,5x50"`)
	fs.StringVarP(&opts.file, "file", "f", "", "read demands from a .csv, .xlsx or .dxf file")
	fs.StringVar(&opts.job, "job", "", "read demands and parent stock from a saved job")
	fs.StringSliceVar(&opts.parents, "parent", nil, "parent stock as QTYxWIDTH; the first entry's width is used")

	d := model.DefaultAppConfig()
	fs.Float64P("width", "w", d.DefaultParentWidth, "parent width when no --parent is given")
	fs.String("stock", d.DefaultStockPreset, "inventory preset name to use as parent stock")
}

// addSolverFlags registers the optimizer flags. Their names are the keys of
// config.FlagKeys so that set flags override the config file.
func addSolverFlags(fs *pflag.FlagSet) {
	d := model.DefaultAppConfig()
	fs.String("algorithm", string(d.DefaultAlgorithm), "solve strategy: direct or column-generation")
	fs.Int("max-iterations", d.DefaultMaxIterations, "column generation pricing rounds")
	fs.Bool("stop-on-convergence", d.DefaultStopOnConvergence, "stop pricing once no pattern improves the master")
	fs.Bool("skip-non-improving", d.DefaultSkipNonImproving, "only add patterns with negative reduced cost")
	fs.Float64("time-budget", d.DefaultTimeBudget, "seconds for the pricing loop, 0 = none")
	fs.Int("usage-cap", d.DefaultUsageCap, "upper bound on rolls cut with one pattern")
	fs.String("objective", string(d.DefaultDirectObjective), "direct model objective: weighted or count")
	fs.Float64("time-limit", d.DefaultSolverTimeLimit, "seconds per solver call, 0 = none")
	fs.Int("node-limit", d.DefaultNodeLimit, "branch-and-bound nodes per solver call, 0 = none")
}

// loadConfig resolves configuration for cmd, logging where it came from.
func loadConfig(cmd *cobra.Command, opts *options) (model.AppConfig, error) {
	cfg, err := config.Load(opts.configPath, cmd.Flags())
	if err != nil {
		return model.AppConfig{}, err
	}
	glog.V(1).Infof("config: algorithm=%s width=%g stock=%q", cfg.DefaultAlgorithm, cfg.DefaultParentWidth, cfg.DefaultStockPreset)
	return cfg, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stockcut version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stockcut %s\n", Version)
		},
	}
}
