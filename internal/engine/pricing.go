package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/piwi3910/StockCut/internal/lp"
	"github.com/piwi3910/StockCut/internal/model"
)

// pricingSolution is a candidate pattern and its dual value Σ duals[i]·p[i].
type pricingSolution struct {
	Status  lp.Status
	Pattern Pattern
	Value   float64
}

// solvePricing solves the bounded knapsack
//
//	maximize Σ duals[i]·p[i]  s.t.  Σ lengths[i]·p[i] <= W,  p[i] in [0, floor(W/lengths[i])] integer
//
// and returns the best pattern. Each count is bounded by how many pieces of
// its length fit on an empty roll; the capacity row does the rest.
func solvePricing(ctx context.Context, duals, lengths []float64, width float64, opts lp.Options) pricingSolution {
	m := lp.NewModel("cutting stock pricing", lp.MixedInteger)
	defer m.Release()

	p := make([]*lp.Var, len(duals))
	for i := range p {
		p[i] = m.NewIntVar(0, math.Floor((width+model.WidthTolerance)/lengths[i]), fmt.Sprintf("p_%d", i))
	}
	m.Maximize(lp.Dot(duals, p))
	m.AddNamedConstraint("capacity", lp.Dot(lengths, p), lp.LE, width)

	sol := pricingSolution{Status: m.Solve(ctx, opts)}
	if !sol.Status.HasSolution() {
		return sol
	}
	sol.Pattern = make(Pattern, len(p))
	for i, v := range m.Values(p) {
		sol.Pattern[i] = int(v)
	}
	sol.Value = m.ObjectiveValue()
	return sol
}

// reducedCost is the master objective change per roll cut with pattern p
// under the given duals: 1 − Σ duals[i]·p[i]. Negative means improving.
func reducedCost(duals []float64, p Pattern) float64 {
	rc := 1.0
	for i, n := range p {
		rc -= duals[i] * float64(n)
	}
	return rc
}
