package engine

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/piwi3910/StockCut/internal/lp"
	"github.com/piwi3910/StockCut/internal/model"
)

// StopPolicy ends the pricing loop. The first criterion met wins.
type StopPolicy struct {
	// MaxIterations caps the number of master/pricing rounds. Zero means no cap,
	// in which case StopOnConvergence or TimeBudget must be set.
	MaxIterations int
	// StopOnConvergence ends the loop once pricing finds no column with
	// negative reduced cost.
	StopOnConvergence bool
	// TimeBudget bounds the wall-clock time of the loop. Zero means none.
	TimeBudget time.Duration
}

// ColumnOptions tunes SolveColumnGeneration.
type ColumnOptions struct {
	Stop StopPolicy
	// SkipNonImproving appends a priced pattern only when its reduced cost is
	// negative beyond Tolerance.
	SkipNonImproving bool
	// UsageCap bounds the rolls cut with any one pattern.
	UsageCap  int
	Tolerance float64
	Solver    lp.Options
}

// DefaultColumnOptions stops after 20 rounds or on convergence, whichever
// comes first, and only keeps improving patterns.
func DefaultColumnOptions() ColumnOptions {
	return ColumnOptions{
		Stop:             StopPolicy{MaxIterations: 20, StopOnConvergence: true},
		SkipNonImproving: true,
		UsageCap:         1000,
		Tolerance:        1e-9,
	}
}

// LegacyColumnOptions runs exactly 20 rounds and appends every priced
// pattern, improving or not.
func LegacyColumnOptions() ColumnOptions {
	return ColumnOptions{
		Stop:      StopPolicy{MaxIterations: 20},
		UsageCap:  1000,
		Tolerance: 1e-9,
	}
}

// ColumnSolution is the outcome of column generation.
type ColumnSolution struct {
	Status     lp.Status // status of the final integer master
	Patterns   *PatternSet
	Usage      []int
	Rolls      []model.RollAssignment
	Iterations int
	Converged  bool    // pricing found no improving pattern before the loop ended
	LowerBound float64 // objective of the last master LP
	WallTime   time.Duration
}

// SolveColumnGeneration seeds an identity pattern set, alternates the master
// LP and the pricing knapsack until the stop policy fires, then solves the
// master once more with integer usage and expands it into rolls.
//
// A master or pricing failure inside the loop ends the loop early; the final
// integer master still runs over the patterns found so far.
func SolveColumnGeneration(ctx context.Context, demands []model.Demand, width float64, opts ColumnOptions) (ColumnSolution, error) {
	if err := ValidateDemands(demands, width); err != nil {
		return ColumnSolution{Status: lp.NotSolved}, err
	}
	if opts.UsageCap <= 0 {
		opts.UsageCap = DefaultColumnOptions().UsageCap
	}
	if opts.Stop.MaxIterations <= 0 && !opts.Stop.StopOnConvergence && opts.Stop.TimeBudget <= 0 {
		opts.Stop.MaxIterations = DefaultColumnOptions().Stop.MaxIterations
	}

	start := time.Now()
	quantities := model.Quantities(demands)
	lengths := model.Lengths(demands)
	ps := NewIdentityPatternSet(len(demands))
	sol := ColumnSolution{Patterns: ps}

	for opts.Stop.MaxIterations <= 0 || sol.Iterations < opts.Stop.MaxIterations {
		if ctx.Err() != nil {
			break
		}
		if opts.Stop.TimeBudget > 0 && time.Since(start) >= opts.Stop.TimeBudget {
			glog.V(2).Infof("engine: time budget %s spent after %d rounds", opts.Stop.TimeBudget, sol.Iterations)
			break
		}

		master := solveMaster(ctx, ps, quantities, false, opts.UsageCap, opts.Solver)
		sol.Iterations++
		if !master.Status.HasSolution() {
			glog.Warningf("engine: master LP %s in round %d", master.Status, sol.Iterations)
			break
		}
		sol.LowerBound = master.Objective

		priced := solvePricing(ctx, master.Duals, lengths, width, opts.Solver)
		if !priced.Status.HasSolution() {
			glog.Warningf("engine: pricing %s in round %d", priced.Status, sol.Iterations)
			break
		}
		rc := reducedCost(master.Duals, priced.Pattern)
		improving := rc < -opts.Tolerance
		glog.V(2).Infof("engine: round %d master %.6g, pattern %v, reduced cost %.6g",
			sol.Iterations, master.Objective, priced.Pattern, rc)

		if improving || !opts.SkipNonImproving {
			ps.Append(priced.Pattern)
		}
		if !improving {
			sol.Converged = true
			if opts.Stop.StopOnConvergence {
				break
			}
		}
	}

	final := solveMaster(ctx, ps, quantities, true, opts.UsageCap, opts.Solver)
	sol.Status = final.Status
	sol.WallTime = time.Since(start)
	if !final.Status.HasSolution() {
		glog.V(1).Infof("engine: column generation %s after %d rounds, %d patterns", final.Status, sol.Iterations, ps.Len())
		return sol, nil
	}
	sol.Usage = final.Usage
	sol.Rolls = RollsFromPatterns(ps, sol.Usage, demands, width)

	glog.V(1).Infof("engine: column generation %s, %d rolls from %d patterns in %d rounds (%s)",
		sol.Status, len(sol.Rolls), ps.Len(), sol.Iterations, sol.WallTime)
	return sol, nil
}
