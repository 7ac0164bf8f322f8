package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/piwi3910/StockCut/internal/lp"
)

// masterSolution is the master problem's answer. Duals stay inside the
// engine; they only feed pricing.
type masterSolution struct {
	Status    lp.Status
	Usage     []int     // rolls cut per pattern, ceil of the solved value
	Duals     []float64 // per demand row, zero in integer mode
	Objective float64
}

// solveMaster chooses how many rolls to cut with each pattern:
//
//	minimize Σ_j y[j]  s.t.  Σ_j patterns[i][j]·y[j] >= quantities[i],  0 <= y[j] <= usageCap
//
// In integer mode y is integral and no duals are returned. A status without
// a solution is returned as-is.
func solveMaster(ctx context.Context, ps *PatternSet, quantities []int, integer bool, usageCap int, opts lp.Options) masterSolution {
	kind := lp.Continuous
	if integer {
		kind = lp.MixedInteger
	}
	m := lp.NewModel("cutting stock master", kind)
	defer m.Release()

	y := make([]*lp.Var, ps.Len())
	for j := range y {
		y[j] = m.NewIntVar(0, float64(usageCap), fmt.Sprintf("y_%d", j))
	}
	m.Minimize(lp.Sum(y...))

	rows := make([]*lp.Constraint, ps.Demands())
	for i := range rows {
		var cover lp.Expr
		for j := range y {
			if a := ps.At(i, j); a != 0 {
				cover = cover.Add(float64(a), y[j])
			}
		}
		rows[i] = m.AddNamedConstraint(fmt.Sprintf("demand_%d", i), cover, lp.GE, float64(quantities[i]))
	}

	sol := masterSolution{
		Status: m.Solve(ctx, opts),
		Usage:  make([]int, len(y)),
		Duals:  make([]float64, len(rows)),
	}
	if !sol.Status.HasSolution() {
		return sol
	}
	for j, v := range m.Values(y) {
		sol.Usage[j] = int(math.Ceil(v - 1e-9))
	}
	if !integer {
		sol.Duals = m.Duals(rows)
	}
	sol.Objective = m.ObjectiveValue()
	return sol
}
