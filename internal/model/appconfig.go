package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default optimizer settings applied to new jobs
	DefaultAlgorithm         Strategy        `json:"default_algorithm" mapstructure:"default_algorithm"`
	DefaultMaxIterations     int             `json:"default_max_iterations" mapstructure:"default_max_iterations"`
	DefaultStopOnConvergence bool            `json:"default_stop_on_convergence" mapstructure:"default_stop_on_convergence"`
	DefaultSkipNonImproving  bool            `json:"default_skip_non_improving" mapstructure:"default_skip_non_improving"`
	DefaultTimeBudget        float64         `json:"default_time_budget" mapstructure:"default_time_budget"`
	DefaultUsageCap          int             `json:"default_usage_cap" mapstructure:"default_usage_cap"`
	DefaultDirectObjective   DirectObjective `json:"default_direct_objective" mapstructure:"default_direct_objective"`
	DefaultSolverTimeLimit   float64         `json:"default_solver_time_limit" mapstructure:"default_solver_time_limit"`
	DefaultNodeLimit         int             `json:"default_node_limit" mapstructure:"default_node_limit"`

	// Default parent stock
	DefaultParentWidth float64 `json:"default_parent_width" mapstructure:"default_parent_width"`
	DefaultStockPreset string  `json:"default_stock_preset" mapstructure:"default_stock_preset"` // inventory preset name, overrides width

	// Application preferences
	ReportFile string   `json:"report_file" mapstructure:"report_file"` // text report appended after each solve, "" = disabled
	RecentJobs []string `json:"recent_jobs" mapstructure:"recent_jobs"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultAlgorithm:         defaults.Algorithm,
		DefaultMaxIterations:     defaults.MaxIterations,
		DefaultStopOnConvergence: defaults.StopOnConvergence,
		DefaultSkipNonImproving:  defaults.SkipNonImproving,
		DefaultTimeBudget:        defaults.TimeBudget,
		DefaultUsageCap:          defaults.UsageCap,
		DefaultDirectObjective:   defaults.DirectObjective,
		DefaultSolverTimeLimit:   defaults.SolverTimeLimit,
		DefaultNodeLimit:         defaults.NodeLimit,
		DefaultParentWidth:       6000,
		ReportFile:               "",
		RecentJobs:               []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a CutSettings struct.
// This is used when creating a new job so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *CutSettings) {
	s.Algorithm = c.DefaultAlgorithm
	s.MaxIterations = c.DefaultMaxIterations
	s.StopOnConvergence = c.DefaultStopOnConvergence
	s.SkipNonImproving = c.DefaultSkipNonImproving
	s.TimeBudget = c.DefaultTimeBudget
	s.UsageCap = c.DefaultUsageCap
	s.DirectObjective = c.DefaultDirectObjective
	s.SolverTimeLimit = c.DefaultSolverTimeLimit
	s.NodeLimit = c.DefaultNodeLimit
}

// AddRecentJob records path as the most recent job, keeping at most ten entries.
func (c *AppConfig) AddRecentJob(path string) {
	recent := []string{path}
	for _, p := range c.RecentJobs {
		if p != path && len(recent) < 10 {
			recent = append(recent, p)
		}
	}
	c.RecentJobs = recent
}
