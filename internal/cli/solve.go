package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/piwi3910/StockCut/internal/config"
	"github.com/piwi3910/StockCut/internal/engine"
	"github.com/piwi3910/StockCut/internal/export"
	"github.com/piwi3910/StockCut/internal/model"
	"github.com/piwi3910/StockCut/internal/project"
	"github.com/spf13/cobra"
)

type solveOptions struct {
	timeout time.Duration
	json    bool

	pdf         string
	labels      string
	xlsx        string
	saveJob     string
	saveOffcuts bool
	minOffcut   float64
}

func newSolveCommand(opts *options) *cobra.Command {
	so := &solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find a cutting plan for a demand list",
		Example: `  stockcut solve -d "10x30" -w 100
  stockcut solve -f cuts.csv --stock "Steel bar 6000mm" --pdf plan.pdf
  stockcut solve -d "5x50,5x50" --parent 10x100 --algorithm direct --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, opts, so)
		},
	}
	fs := cmd.Flags()
	addInputFlags(fs, opts)
	addSolverFlags(fs)
	fs.String("report", "", "append a text report to this file")
	fs.DurationVar(&so.timeout, "timeout", 0, "abort the whole solve after this long, 0 = none")
	fs.BoolVar(&so.json, "json", false, "print the result as JSON")
	fs.StringVar(&so.pdf, "pdf", "", "write the cut plan as PDF")
	fs.StringVar(&so.labels, "labels", "", "write QR piece labels as PDF")
	fs.StringVar(&so.xlsx, "xlsx", "", "write the cut plan as an Excel workbook")
	fs.StringVar(&so.saveJob, "save-job", "", "save demands, stock, settings and result as a job file")
	fs.BoolVar(&so.saveOffcuts, "save-offcuts", false, "remember reusable trim in ~/.stockcut/offcuts.json")
	fs.Float64Var(&so.minOffcut, "min-offcut", model.MinOffcutLength, "shortest trim worth keeping as an offcut")
	return cmd
}

func runSolve(cmd *cobra.Command, opts *options, so *solveOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	req, err := loadRequest(opts, cfg)
	if err != nil {
		return err
	}
	settings := config.Settings(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if so.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, so.timeout)
		defer cancel()
	}

	result, err := engine.New(settings).Optimize(ctx, req.demands, req.parents)
	if err != nil {
		return err
	}
	parent := req.parents[0]
	out := cmd.OutOrStdout()

	if so.json {
		if err := export.WriteJSON(out, result); err != nil {
			return err
		}
	} else if err := printResult(out, parent.Width, req.demands, result); err != nil {
		return err
	}

	if len(result.Solutions) == 0 {
		glog.Warningf("solve: status %s, no plan to export", result.StatusName)
		return nil
	}
	return writeOutputs(cfg, so, req, parent, settings, result)
}

// printResult writes the status summary followed by the per-roll patterns.
func printResult(w io.Writer, width float64, demands []model.Demand, result model.Result) error {
	fmt.Fprintf(w, "Parent rolls used: %d\n", result.NumRollsUsed)
	fmt.Fprintf(w, "Status: %s\n", result.StatusName)
	fmt.Fprintf(w, "Solutions found: %s\n", result.NumSolutions)
	fmt.Fprintf(w, "Unique solutions: %s\n", result.NumUniqueSolutions)
	if len(result.Solutions) > 0 {
		fmt.Fprintf(w, "Trim: %.2f mm, efficiency %.1f%%\n", result.TotalTrim(), result.Efficiency())
	}
	if result.Approximate {
		fmt.Fprintln(w, "Note: some trim values were corrected for solver rounding")
	}
	fmt.Fprintln(w)
	return export.WriteTextReport(w, width, demands, result)
}

func writeOutputs(cfg model.AppConfig, so *solveOptions, req request, parent model.ParentStock, settings model.CutSettings, result model.Result) error {
	if cfg.ReportFile != "" {
		if err := export.AppendTextReport(cfg.ReportFile, parent.Width, req.demands, result); err != nil {
			return err
		}
	}
	if so.pdf != "" {
		if err := export.ExportPDF(so.pdf, result, parent); err != nil {
			return err
		}
	}
	if so.labels != "" {
		if err := export.ExportLabels(so.labels, result, parent.Label); err != nil {
			return err
		}
	}
	if so.xlsx != "" {
		if err := export.ExportExcel(so.xlsx, result, parent); err != nil {
			return err
		}
	}
	if so.saveJob != "" {
		job := model.NewJob()
		job.Name = parent.Label
		job.Demands = req.demands
		job.Parent = parent
		job.Settings = settings
		job.Result = &result
		path, err := project.SaveJob(so.saveJob, job)
		if err != nil {
			return err
		}
		rememberJob(path)
	}
	if so.saveOffcuts {
		offcuts := model.DetectOffcuts(result, parent, req.price, so.minOffcut)
		if _, err := project.AddOffcuts(project.DefaultOffcutsPath(), offcuts); err != nil {
			return err
		}
		glog.V(1).Infof("offcuts: saved %d totalling %.1f mm", len(offcuts), model.TotalOffcutLength(offcuts))
	}
	return nil
}

// rememberJob records path in the saved config's recent jobs. Flags and
// environment overrides of this run are not written back.
func rememberJob(path string) {
	saved, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		glog.Warningf("recent jobs: %v", err)
		return
	}
	saved.AddRecentJob(path)
	if err := project.SaveAppConfig(project.DefaultConfigPath(), saved); err != nil {
		glog.Warningf("recent jobs: %v", err)
	}
}
