package engine

import (
	"context"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/piwi3910/StockCut/internal/lp"
	"github.com/piwi3910/StockCut/internal/model"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidDemand rejects a request before any solve: a length longer
	// than the parent width, a non-positive length, a negative quantity or an
	// empty demand list.
	ErrInvalidDemand = errors.New("invalid demand")
	// ErrInvalidStock rejects a missing or non-positive parent width.
	ErrInvalidStock = errors.New("invalid parent stock")
)

// ValidateDemands checks every demand against width.
func ValidateDemands(demands []model.Demand, width float64) error {
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return errors.Wrapf(ErrInvalidStock, "parent width %g", width)
	}
	if len(demands) == 0 {
		return errors.Wrap(ErrInvalidDemand, "no demands")
	}
	for i, d := range demands {
		switch {
		case d.Length <= 0 || math.IsNaN(d.Length):
			return errors.Wrapf(ErrInvalidDemand, "demand %d (%s): length %g is not positive", i, d.Label, d.Length)
		case d.Length > width:
			return errors.Wrapf(ErrInvalidDemand, "demand %d (%s): length %g exceeds parent width %g", i, d.Label, d.Length, width)
		case d.Quantity < 0:
			return errors.Wrapf(ErrInvalidDemand, "demand %d (%s): quantity %d is negative", i, d.Label, d.Quantity)
		}
	}
	return nil
}

// Optimizer validates a request and dispatches it to the configured strategy.
type Optimizer struct {
	Settings model.CutSettings
}

func New(settings model.CutSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// Optimize cuts demands from the first parent stock entry. An invalid request
// returns an empty Result and an error wrapping ErrInvalidDemand or
// ErrInvalidStock. Solver outcomes are never errors: they are reported in
// Result.StatusName, with no rolls unless the status carries a solution.
func (o *Optimizer) Optimize(ctx context.Context, demands []model.Demand, parents []model.ParentStock) (model.Result, error) {
	if len(parents) == 0 {
		return model.Result{}, errors.Wrap(ErrInvalidStock, "no parent stock")
	}
	width := parents[0].Width
	if err := ValidateDemands(demands, width); err != nil {
		glog.Warningf("engine: request rejected: %v", err)
		return model.Result{}, err
	}

	switch o.Settings.Algorithm {
	case model.StrategyDirect:
		return o.optimizeDirect(ctx, demands, width)
	case model.StrategyColumnGeneration, "":
		return o.optimizeColumns(ctx, demands, width)
	default:
		return model.Result{}, errors.Errorf("unknown algorithm %q", o.Settings.Algorithm)
	}
}

func (o *Optimizer) optimizeDirect(ctx context.Context, demands []model.Demand, width float64) (model.Result, error) {
	sol, err := SolveDirect(ctx, demands, width, DirectOptionsFromSettings(o.Settings))
	if err != nil {
		return model.Result{}, err
	}
	res := newResult(sol.Status, sol.Rolls, width, sol.WallTime)
	res.Strategy = model.StrategyDirect
	res.Approximate = sol.Approximate
	return res, nil
}

// optimizeColumns merges demands of equal length first: duplicate rows only
// add degenerate duals to the master. Patterns in the result are indexed by
// PatternLengths.
func (o *Optimizer) optimizeColumns(ctx context.Context, demands []model.Demand, width float64) (model.Result, error) {
	merged := model.MergeDemands(demands)
	sol, err := SolveColumnGeneration(ctx, merged, width, ColumnOptionsFromSettings(o.Settings))
	if err != nil {
		return model.Result{}, err
	}
	res := newResult(sol.Status, sol.Rolls, width, sol.WallTime)
	res.Strategy = model.StrategyColumnGeneration
	if sol.Status.HasSolution() {
		res.Patterns = sol.Patterns.Rows()
		res.PatternLengths = model.Lengths(merged)
		res.Usage = sol.Usage
	}
	return res, nil
}

func newResult(status lp.Status, rolls []model.RollAssignment, width float64, wall time.Duration) model.Result {
	if !status.HasSolution() || rolls == nil {
		rolls = []model.RollAssignment{}
	}
	return model.Result{
		StatusName:         status.String(),
		NumSolutions:       "1",
		NumUniqueSolutions: "1",
		NumRollsUsed:       len(rolls),
		Solutions:          rolls,
		ParentWidth:        width,
		WallTime:           wall.Seconds(),
	}
}

// DirectOptionsFromSettings maps settings onto the direct model options.
func DirectOptionsFromSettings(s model.CutSettings) DirectOptions {
	return DirectOptions{
		Objective: s.DirectObjective,
		Solver:    solverOptions(s),
	}
}

// ColumnOptionsFromSettings maps settings onto column generation options.
func ColumnOptionsFromSettings(s model.CutSettings) ColumnOptions {
	opts := DefaultColumnOptions()
	opts.Stop = StopPolicy{
		MaxIterations:     s.MaxIterations,
		StopOnConvergence: s.StopOnConvergence,
		TimeBudget:        seconds(s.TimeBudget),
	}
	opts.SkipNonImproving = s.SkipNonImproving
	if s.UsageCap > 0 {
		opts.UsageCap = s.UsageCap
	}
	opts.Solver = solverOptions(s)
	return opts
}

func solverOptions(s model.CutSettings) lp.Options {
	opts := lp.DefaultOptions()
	opts.TimeLimit = seconds(s.SolverTimeLimit)
	opts.NodeLimit = s.NodeLimit
	return opts
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
