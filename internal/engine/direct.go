package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/piwi3910/StockCut/internal/lp"
	"github.com/piwi3910/StockCut/internal/model"
)

// DirectOptions tunes SolveDirect.
type DirectOptions struct {
	Objective model.DirectObjective
	Solver    lp.Options
}

// DirectSolution is the outcome of the direct integer model.
type DirectSolution struct {
	Status     lp.Status
	RollsUsed  int                    // value of nb
	Rolls      []model.RollAssignment // one per used roll with at least one cut
	Unused     []float64              // solved trim per candidate roll
	Assignment [][]int                // x[i][j], units of demand i on candidate roll j
	Used       []bool                 // y[j]
	Bounds     Bounds
	WallTime   time.Duration
	// Approximate is set when a trim value had to be corrected for solver noise.
	Approximate bool
}

// SolveDirect formulates the whole problem as one integer program over
// Bounds.Upper candidate rolls:
//
//	x[i][j] in [0, MaxRepeat[i]]  units of demand i on roll j
//	y[j]    in {0, 1}            roll j is cut
//	unused[j] in [0, W]          trim on roll j
//	nb      in [L, Upper]        rolls used, L the larger of Lower and PackingLowerBound
//
// with demand coverage, capacity, trim accounting, nb == Σ y and the
// symmetry-breaking rows Σ_i x[i][j] >= Σ_i x[i][j+1]. A greedy packing is
// the solver's starting incumbent; when it already uses L rolls it is
// optimal for either objective and is returned without a search. Variable
// count grows with Upper × len(demands); callers keep instances small.
func SolveDirect(ctx context.Context, demands []model.Demand, width float64, opts DirectOptions) (DirectSolution, error) {
	if err := ValidateDemands(demands, width); err != nil {
		return DirectSolution{Status: lp.NotSolved}, err
	}

	start := time.Now()
	bounds := EstimateBounds(demands, width)
	k := bounds.Upper
	n := len(demands)
	if ctx.Err() != nil {
		return DirectSolution{Status: lp.NotSolved, Bounds: bounds}, nil
	}

	plan := newGreedyAssignment(greedyPlan(demands, width, k), demands, width, k)
	lower := max(bounds.Lower, PackingLowerBound(demands, width))
	lower = min(lower, plan.rolls, k)
	if plan.rolls == lower {
		sol := DirectSolution{
			Status:     lp.Optimal,
			RollsUsed:  plan.rolls,
			Unused:     plan.unused,
			Assignment: plan.x,
			Used:       plan.used,
			Bounds:     bounds,
		}
		sol.Rolls, sol.Approximate = RollsFromAssignment(sol.Assignment, sol.Used, sol.Unused, demands, width)
		sol.WallTime = time.Since(start)
		glog.V(1).Infof("engine: direct model closed by the greedy packing, %d rolls", plan.rolls)
		return sol, nil
	}

	m := lp.NewModel("cutting stock direct", lp.MixedInteger)
	defer m.Release()

	y := make([]*lp.Var, k)
	for j := range y {
		y[j] = m.NewBoolVar(fmt.Sprintf("y_%d", j))
	}
	x := make([][]*lp.Var, n)
	for i := range x {
		x[i] = make([]*lp.Var, k)
		for j := range x[i] {
			x[i][j] = m.NewIntVar(0, float64(bounds.MaxRepeat[i]), fmt.Sprintf("x_%d_%d", i, j))
		}
	}
	unused := make([]*lp.Var, k)
	for j := range unused {
		unused[j] = m.NewNumVar(0, width, fmt.Sprintf("w_%d", j))
	}
	nb := m.NewIntVar(float64(lower), float64(bounds.Upper), "nb")

	for i, d := range demands {
		m.AddNamedConstraint(fmt.Sprintf("demand_%d", i), lp.Sum(x[i]...), lp.GE, float64(d.Quantity))
	}
	for j := 0; j < k; j++ {
		var used lp.Expr
		for i, d := range demands {
			used = used.Add(d.Length, x[i][j])
		}
		m.AddNamedConstraint(fmt.Sprintf("capacity_%d", j),
			used.Plus(lp.Expr{}.Add(-width, y[j])), lp.LE, 0)
		m.AddNamedConstraint(fmt.Sprintf("trim_%d", j),
			lp.Expr{}.Add(width, y[j]).Plus(used.Scale(-1)).Add(-1, unused[j]), lp.EQ, 0)

		if j < k-1 {
			var order lp.Expr
			for i := range demands {
				order = order.Add(1, x[i][j]).Add(-1, x[i][j+1])
			}
			m.AddNamedConstraint(fmt.Sprintf("order_%d", j), order, lp.GE, 0)
		}
	}
	m.AddNamedConstraint("rolls", lp.Sum(y...).Add(-1, nb), lp.EQ, 0)

	var cost lp.Expr
	for j := range y {
		w := float64(j + 1)
		if opts.Objective == model.ObjectiveCount {
			w = 1
		}
		cost = cost.Add(w, y[j])
	}
	m.Minimize(cost)

	for j := 0; j < k; j++ {
		for i := range demands {
			m.SetHint(x[i][j], float64(plan.x[i][j]))
		}
		if plan.used[j] {
			m.SetHint(y[j], 1)
		} else {
			m.SetHint(y[j], 0)
		}
		m.SetHint(unused[j], plan.unused[j])
	}
	m.SetHint(nb, float64(plan.rolls))

	status := m.Solve(ctx, opts.Solver)
	sol := DirectSolution{
		Status:   status,
		Bounds:   bounds,
		WallTime: time.Since(start),
	}
	if !status.HasSolution() {
		glog.V(1).Infof("engine: direct model %s after %s (%d candidate rolls)", status, sol.WallTime, k)
		return sol, nil
	}

	sol.RollsUsed = int(m.Value(nb))
	sol.Unused = m.Values(unused)
	sol.Used = make([]bool, k)
	for j := range y {
		sol.Used[j] = m.Value(y[j]) > 0.5
	}
	sol.Assignment = make([][]int, n)
	for i := range x {
		sol.Assignment[i] = make([]int, k)
		for j, v := range m.Values(x[i]) {
			sol.Assignment[i][j] = int(v)
		}
	}
	sol.Rolls, sol.Approximate = RollsFromAssignment(sol.Assignment, sol.Used, sol.Unused, demands, width)

	glog.V(1).Infof("engine: direct model %s, %d rolls (bounds %d..%d, greedy %d) in %s, %d nodes",
		status, sol.RollsUsed, lower, bounds.Upper, plan.rolls, sol.WallTime, m.Nodes())
	return sol, nil
}

// greedyAssignment is a greedy packing laid out as direct model values.
type greedyAssignment struct {
	rolls  int
	x      [][]int
	used   []bool
	unused []float64
}

func newGreedyAssignment(plan [][]int, demands []model.Demand, width float64, k int) greedyAssignment {
	g := greedyAssignment{
		rolls:  len(plan),
		x:      make([][]int, len(demands)),
		used:   make([]bool, k),
		unused: make([]float64, k),
	}
	for i := range g.x {
		g.x[i] = make([]int, k)
	}
	for j, roll := range plan {
		if j >= k {
			break
		}
		var length float64
		for i, u := range roll {
			g.x[i][j] = u
			length += demands[i].Length * float64(u)
		}
		g.used[j] = true
		g.unused[j] = math.Max(0, width-length)
	}
	return g
}
