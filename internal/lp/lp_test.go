package lp

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_ContinuousMaximize(t *testing.T) {
	m := NewModel("production", Continuous)
	defer m.Release()
	x := m.NewNumVar(0, math.Inf(1), "x")
	y := m.NewNumVar(0, math.Inf(1), "y")
	c1 := m.AddConstraint(Sum(x, y), LE, 4)
	c2 := m.AddConstraint(Expr{}.Add(1, x).Add(3, y), LE, 7)
	c3 := m.AddConstraint(Sum(x), LE, 3)
	m.Maximize(Expr{}.Add(3, x).Add(2, y))

	status := m.Solve(context.Background(), DefaultOptions())

	require.Equal(t, Optimal, status)
	assert.InDelta(t, 3, m.Value(x), 1e-6)
	assert.InDelta(t, 1, m.Value(y), 1e-6)
	assert.InDelta(t, 11, m.ObjectiveValue(), 1e-6)
	assert.InDelta(t, 2, m.Dual(c1), 1e-6)
	assert.InDelta(t, 0, m.Dual(c2), 1e-6)
	assert.InDelta(t, 1, m.Dual(c3), 1e-6)
}

func TestSolve_ContinuousMinimizeDuals(t *testing.T) {
	m := NewModel("diet", Continuous)
	defer m.Release()
	x := m.NewNumVar(0, math.Inf(1), "x")
	y := m.NewNumVar(0, math.Inf(1), "y")
	cons := []*Constraint{
		m.AddConstraint(Dot([]float64{1, 2}, []*Var{x, y}), GE, 4),
		m.AddConstraint(Dot([]float64{3, 1}, []*Var{x, y}), GE, 6),
	}
	m.Minimize(Sum(x, y))

	require.Equal(t, Optimal, m.Solve(context.Background(), Options{}))

	vals := m.Values([]*Var{x, y})
	assert.InDelta(t, 1.6, vals[0], 1e-6)
	assert.InDelta(t, 1.2, vals[1], 1e-6)
	duals := m.Duals(cons)
	assert.InDelta(t, 0.4, duals[0], 1e-6)
	assert.InDelta(t, 0.2, duals[1], 1e-6)
}

func TestSolve_EqualityAndBounds(t *testing.T) {
	m := NewModel("split", Continuous)
	x := m.NewNumVar(0, 10, "x")
	y := m.NewNumVar(0.5, 1, "y")
	m.AddConstraint(Sum(x, y), EQ, 3)
	m.Minimize(Sum(x))

	require.Equal(t, Optimal, m.Solve(context.Background(), Options{}))
	assert.InDelta(t, 2, m.Value(x), 1e-6)
	assert.InDelta(t, 1, m.Value(y), 1e-6)
}

func TestSolve_Infeasible(t *testing.T) {
	m := NewModel("infeasible", Continuous)
	x := m.NewNumVar(0, 10, "x")
	m.AddConstraint(Sum(x), GE, 5)
	m.AddConstraint(Sum(x), LE, 3)
	m.Minimize(Sum(x))

	assert.Equal(t, Infeasible, m.Solve(context.Background(), Options{}))
	assert.Equal(t, 0.0, m.Value(x), "no values without a solution")
}

func TestSolve_InfeasibleBounds(t *testing.T) {
	m := NewModel("bounds", MixedInteger)
	x := m.NewIntVar(0.2, 0.8, "x")
	m.AddConstraint(Sum(x), GE, 0)
	m.Minimize(Sum(x))

	assert.Equal(t, Infeasible, m.Solve(context.Background(), Options{}))
}

func TestSolve_Unbounded(t *testing.T) {
	m := NewModel("unbounded", Continuous)
	x := m.NewNumVar(0, math.Inf(1), "x")
	m.AddConstraint(Sum(x), GE, 1)
	m.Maximize(Sum(x))

	assert.Equal(t, Unbounded, m.Solve(context.Background(), Options{}))
}

func TestSolve_IntegerKnapsack(t *testing.T) {
	m := NewModel("knapsack", MixedInteger)
	x := m.NewIntVar(0, 10, "x")
	y := m.NewIntVar(0, 10, "y")
	m.AddConstraint(Dot([]float64{5, 4}, []*Var{x, y}), LE, 12)
	m.Maximize(Dot([]float64{10, 6}, []*Var{x, y}))

	require.Equal(t, Optimal, m.Solve(context.Background(), Options{}))
	assert.Equal(t, 2.0, m.Value(x))
	assert.Equal(t, 0.0, m.Value(y))
	assert.InDelta(t, 20, m.ObjectiveValue(), 1e-6)
	assert.Greater(t, m.Nodes(), 1, "fractional root needs branching")
}

func TestSolve_IntegerDualsAreZero(t *testing.T) {
	m := NewModel("cover", MixedInteger)
	x := m.NewIntVar(0, 1000, "x")
	c := m.AddConstraint(Expr{}.Add(3, x), GE, 10)
	m.Minimize(Sum(x))

	require.Equal(t, Optimal, m.Solve(context.Background(), Options{}))
	assert.Equal(t, 4.0, m.Value(x))
	assert.Equal(t, 0.0, m.Dual(c))
}

func TestSolve_ContinuousIgnoresIntegrality(t *testing.T) {
	m := NewModel("relaxed", Continuous)
	x := m.NewIntVar(0, 1000, "x")
	m.AddConstraint(Expr{}.Add(3, x), GE, 10)
	m.Minimize(Sum(x))

	require.Equal(t, Optimal, m.Solve(context.Background(), Options{}))
	assert.InDelta(t, 10.0/3.0, m.Value(x), 1e-6)
}

func TestSolve_CancelledContext(t *testing.T) {
	m := NewModel("cancelled", MixedInteger)
	x := m.NewIntVar(0, 10, "x")
	m.AddConstraint(Sum(x), GE, 1)
	m.Minimize(Sum(x))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, NotSolved, m.Solve(ctx, Options{}))
}

func TestSolve_NodeLimit(t *testing.T) {
	m := NewModel("limited", MixedInteger)
	x := m.NewIntVar(0, 10, "x")
	y := m.NewIntVar(0, 10, "y")
	m.AddConstraint(Dot([]float64{5, 4}, []*Var{x, y}), LE, 12)
	m.Maximize(Dot([]float64{10, 6}, []*Var{x, y}))

	status := m.Solve(context.Background(), Options{NodeLimit: 1})

	assert.Equal(t, NotSolved, status, "root is fractional so no incumbent exists after one node")
	assert.Equal(t, 1, m.Nodes())
}

func TestSolve_FixedVariablesAreConstants(t *testing.T) {
	m := NewModel("fixed", Continuous)
	x := m.NewNumVar(2, 2, "x")
	y := m.NewNumVar(0, math.Inf(1), "y")
	m.AddConstraint(Sum(x, y), GE, 5)
	m.AddConstraint(Expr{}.Add(3, x), LE, 6)
	m.Minimize(Sum(y))

	require.Equal(t, Optimal, m.Solve(context.Background(), Options{}))
	assert.InDelta(t, 2, m.Value(x), 1e-9)
	assert.InDelta(t, 3, m.Value(y), 1e-6)
}

func TestSolve_FixedVariableViolatesRow(t *testing.T) {
	m := NewModel("fixed infeasible", Continuous)
	x := m.NewNumVar(4, 4, "x")
	m.AddConstraint(Sum(x), LE, 3)
	m.Minimize(Sum(x))

	assert.Equal(t, Infeasible, m.Solve(context.Background(), Options{}))
}

func knapsack() (*Model, *Var, *Var) {
	m := NewModel("hinted", MixedInteger)
	a := m.NewIntVar(0, 10, "a")
	b := m.NewIntVar(0, 10, "b")
	m.AddConstraint(Dot([]float64{6, 4}, []*Var{a, b}), LE, 24)
	m.AddConstraint(Dot([]float64{1, 2}, []*Var{a, b}), LE, 6)
	m.Maximize(Dot([]float64{5, 4}, []*Var{a, b}))
	return m, a, b
}

func TestSolve_HintIsFirstIncumbent(t *testing.T) {
	m, a, b := knapsack()
	defer m.Release()
	m.SetHint(a, 2)
	m.SetHint(b, 1)

	status := m.Solve(context.Background(), Options{TimeLimit: time.Nanosecond})

	require.Equal(t, Feasible, status, "the limit stops the search before any node")
	assert.Equal(t, 2.0, m.Value(a))
	assert.Equal(t, 1.0, m.Value(b))
	assert.InDelta(t, 14, m.ObjectiveValue(), 1e-9)
}

func TestSolve_HintDoesNotStopSearch(t *testing.T) {
	m, a, b := knapsack()
	defer m.Release()
	m.SetHint(a, 2)
	m.SetHint(b, 1)

	require.Equal(t, Optimal, m.Solve(context.Background(), Options{}))
	assert.InDelta(t, 20, m.ObjectiveValue(), 1e-6)
	assert.Equal(t, 4.0, m.Value(a))
	assert.Equal(t, 0.0, m.Value(b))
}

func TestSolve_UnusableHintsAreIgnored(t *testing.T) {
	hints := map[string][2]float64{
		"violates a row":   {5, 5},
		"outside a domain": {-1, 0},
		"not integral":     {1.5, 0},
	}
	for name, h := range hints {
		m, a, b := knapsack()
		m.SetHint(a, h[0])
		m.SetHint(b, h[1])
		assert.Equal(t, NotSolved, m.Solve(context.Background(), Options{TimeLimit: time.Nanosecond}), name)
		m.Release()
	}

	m, a, _ := knapsack()
	defer m.Release()
	m.SetHint(a, 0)
	assert.Equal(t, NotSolved, m.Solve(context.Background(), Options{TimeLimit: time.Nanosecond}), "partial hint")
}

func TestSolve_MixedIntegerRedundantEqualities(t *testing.T) {
	// The two equal rows make every basis singular, so the search has to
	// split domains until the rows can be checked directly.
	m := NewModel("redundant", MixedInteger)
	defer m.Release()
	x := m.NewIntVar(0, 3, "x")
	y := m.NewIntVar(0, 3, "y")
	m.AddConstraint(Sum(x, y), EQ, 2)
	m.AddConstraint(Sum(x, y), EQ, 2)
	m.Minimize(Expr{}.Add(1, x).Add(2, y))

	require.Equal(t, Optimal, m.Solve(context.Background(), Options{}))
	assert.Equal(t, 2.0, m.Value(x))
	assert.Equal(t, 0.0, m.Value(y))
	assert.InDelta(t, 2, m.ObjectiveValue(), 1e-9)
}

func TestWidestDomain(t *testing.T) {
	vars := []*Var{
		{index: 0, integer: true},
		{index: 1, integer: false},
		{index: 2, integer: true},
		{index: 3, integer: true},
	}
	lb := []float64{0, 0, 1, 0}
	ub := []float64{2, 50, 6, math.Inf(1)}

	assert.Equal(t, 2, widestDomain(vars, lb, ub))
	assert.Equal(t, -1, widestDomain(vars, []float64{2, 0, 6, 0}, []float64{2, 50, 6, math.Inf(1)}))
}

func TestSolve_FreshModelPerSolve(t *testing.T) {
	build := func() *Model {
		m := NewModel("repeat", MixedInteger)
		x := m.NewIntVar(0, 10, "x")
		m.AddConstraint(Expr{}.Add(7, x), GE, 20)
		m.Minimize(Sum(x))
		return m
	}
	a, b := build(), build()
	require.Equal(t, Optimal, a.Solve(context.Background(), Options{}))
	require.Equal(t, Optimal, b.Solve(context.Background(), Options{}))
	assert.Equal(t, a.ObjectiveValue(), b.ObjectiveValue())
	a.Release()
	b.Release()
}

func TestStatus_Names(t *testing.T) {
	names := map[Status]string{
		Optimal:    "OPTIMAL",
		Feasible:   "FEASIBLE",
		Infeasible: "INFEASIBLE",
		Unbounded:  "UNBOUNDED",
		Abnormal:   "ABNORMAL",
		NotSolved:  "NOT_SOLVED",
	}
	for status, name := range names {
		assert.Equal(t, name, status.String())
		assert.Equal(t, status, ParseStatus(name))
	}
	assert.Equal(t, NotSolved, ParseStatus("bogus"))
	assert.True(t, Feasible.HasSolution())
	assert.False(t, Infeasible.HasSolution())
}
