package engine

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsFor(strategy model.Strategy) model.CutSettings {
	s := model.DefaultSettings()
	s.Algorithm = strategy
	return s
}

func parent(width float64) []model.ParentStock {
	return []model.ParentStock{model.NewParentStock("Parent", width, 10)}
}

func TestValidateDemands(t *testing.T) {
	assert.NoError(t, ValidateDemands(demandsOf([2]float64{1, 100}), 100))
	assert.NoError(t, ValidateDemands(demandsOf([2]float64{0, 10}), 100))

	bad := map[string][]model.Demand{
		"too long":      demandsOf([2]float64{1, 150}),
		"second long":   demandsOf([2]float64{1, 20}, [2]float64{1, 200}),
		"zero length":   demandsOf([2]float64{1, 0}),
		"negative qty":  demandsOf([2]float64{-1, 10}),
		"empty request": nil,
	}
	for name, demands := range bad {
		err := ValidateDemands(demands, 100)
		assert.True(t, errors.Is(err, ErrInvalidDemand), name)
	}

	assert.True(t, errors.Is(ValidateDemands(demandsOf([2]float64{1, 10}), -5), ErrInvalidStock))
}

func TestOptimize_RejectsLongDemandWithEmptyResult(t *testing.T) {
	for _, strategy := range []model.Strategy{model.StrategyDirect, model.StrategyColumnGeneration} {
		opt := New(settingsFor(strategy))

		res, err := opt.Optimize(context.Background(), demandsOf([2]float64{1, 150}), parent(100))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidDemand))
		assert.Equal(t, model.Result{}, res)

		res, err = opt.Optimize(context.Background(), demandsOf([2]float64{1, 20}, [2]float64{1, 200}), parent(100))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "demand 1")
		assert.Equal(t, model.Result{}, res)
	}
}

func TestOptimize_RejectsMissingParent(t *testing.T) {
	res, err := New(model.DefaultSettings()).Optimize(context.Background(), demandsOf([2]float64{1, 20}), nil)

	assert.True(t, errors.Is(err, ErrInvalidStock))
	assert.Equal(t, model.Result{}, res)
}

func TestOptimize_UnknownAlgorithm(t *testing.T) {
	_, err := New(settingsFor("simulated-annealing")).Optimize(context.Background(), demandsOf([2]float64{1, 20}), parent(100))
	assert.Error(t, err)
}

func TestOptimize_SingleLengthBothStrategies(t *testing.T) {
	demands := demandsOf([2]float64{10, 30})
	for _, strategy := range []model.Strategy{model.StrategyDirect, model.StrategyColumnGeneration} {
		res, err := New(settingsFor(strategy)).Optimize(context.Background(), demands, parent(100))

		require.NoError(t, err)
		assert.Equal(t, "OPTIMAL", res.StatusName, strategy)
		assert.Equal(t, "1", res.NumSolutions)
		assert.Equal(t, "1", res.NumUniqueSolutions)
		assert.Equal(t, 4, res.NumRollsUsed, strategy)
		assert.Equal(t, strategy, res.Strategy)
		assert.Equal(t, 100.0, res.ParentWidth)
		assertValidPlan(t, res.Solutions, demands, 100)
	}
}

func TestOptimize_DuplicateLengthsBothStrategies(t *testing.T) {
	demands := demandsOf([2]float64{5, 50}, [2]float64{5, 50})
	for _, strategy := range []model.Strategy{model.StrategyDirect, model.StrategyColumnGeneration} {
		res, err := New(settingsFor(strategy)).Optimize(context.Background(), demands, parent(100))

		require.NoError(t, err)
		assert.Equal(t, "OPTIMAL", res.StatusName, strategy)
		require.Equal(t, 5, res.NumRollsUsed, strategy)
		for _, roll := range res.Solutions {
			assert.Equal(t, []float64{50, 50}, roll.Cuts, strategy)
			assert.InDelta(t, 0, roll.Unused, 1e-6, strategy)
		}
		assertValidPlan(t, res.Solutions, demands, 100)
		assert.InDelta(t, 100.0, res.Efficiency(), 1e-6)
	}
}

func TestOptimize_ColumnGenerationReportsPatterns(t *testing.T) {
	demands := demandsOf([2]float64{4, 20}, [2]float64{3, 50}, [2]float64{2, 20})

	res, err := New(settingsFor(model.StrategyColumnGeneration)).Optimize(context.Background(), demands, parent(100))

	require.NoError(t, err)
	require.Equal(t, "OPTIMAL", res.StatusName)
	assert.Equal(t, []float64{20, 50}, res.PatternLengths, "equal lengths are merged")
	require.Len(t, res.Patterns, 2)
	assert.Len(t, res.Usage, len(res.Patterns[0]))

	rolls := 0
	for _, u := range res.Usage {
		rolls += u
	}
	assert.Equal(t, res.NumRollsUsed, rolls)
	assertValidPlan(t, res.Solutions, demands, 100)
}

func TestOptimize_FirstParentWidthIsUsed(t *testing.T) {
	parents := []model.ParentStock{
		model.NewParentStock("Short", 60, 1),
		model.NewParentStock("Long", 1000, 1),
	}

	_, err := New(model.DefaultSettings()).Optimize(context.Background(), demandsOf([2]float64{1, 100}), parents)

	assert.True(t, errors.Is(err, ErrInvalidDemand))
}

func TestOptimize_SameRollCountTwice(t *testing.T) {
	demands := demandsOf([2]float64{3, 45}, [2]float64{2, 30})
	opt := New(settingsFor(model.StrategyDirect))

	first, err := opt.Optimize(context.Background(), demands, parent(100))
	require.NoError(t, err)
	second, err := opt.Optimize(context.Background(), demands, parent(100))
	require.NoError(t, err)

	assert.Equal(t, first.NumRollsUsed, second.NumRollsUsed)
}

func TestOptimize_SolverStatusIsData(t *testing.T) {
	s := settingsFor(model.StrategyDirect)
	s.NodeLimit = 1

	res, err := New(s).Optimize(context.Background(), demandsOf([2]float64{10, 30}), parent(100))

	require.NoError(t, err)
	assert.Contains(t, []string{"NOT_SOLVED", "FEASIBLE", "OPTIMAL"}, res.StatusName)
	if res.StatusName == "NOT_SOLVED" {
		assert.Zero(t, res.NumRollsUsed)
		assert.NotNil(t, res.Solutions)
	}
}

func TestOptimize_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(model.DefaultSettings()).Optimize(ctx, demandsOf([2]float64{10, 30}), parent(100))

	require.NoError(t, err)
	assert.Equal(t, "NOT_SOLVED", res.StatusName)
	assert.Zero(t, res.NumRollsUsed)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"solutions":[]`)
}

func TestColumnOptionsFromSettings(t *testing.T) {
	s := model.DefaultSettings()
	s.MaxIterations = 7
	s.StopOnConvergence = false
	s.SkipNonImproving = false
	s.TimeBudget = 1.5
	s.UsageCap = 0
	s.SolverTimeLimit = 2
	s.NodeLimit = 50

	opts := ColumnOptionsFromSettings(s)

	assert.Equal(t, 7, opts.Stop.MaxIterations)
	assert.False(t, opts.Stop.StopOnConvergence)
	assert.False(t, opts.SkipNonImproving)
	assert.Equal(t, "1.5s", opts.Stop.TimeBudget.String())
	assert.Equal(t, 1000, opts.UsageCap)
	assert.Equal(t, "2s", opts.Solver.TimeLimit.String())
	assert.Equal(t, 50, opts.Solver.NodeLimit)

	d := DirectOptionsFromSettings(s)
	assert.Equal(t, model.ObjectiveWeighted, d.Objective)
	assert.Equal(t, 50, d.Solver.NodeLimit)
}

// randomDemands draws one to four demands with lengths in [10, 90] and at
// most twelve pieces in total.
func randomDemands(rng *rand.Rand) []model.Demand {
	var demands []model.Demand
	pieces := 0
	for n := 1 + rng.Intn(4); n > 0 && pieces < 12; n-- {
		q := min(1+rng.Intn(4), 12-pieces)
		demands = append(demands, model.NewDemand("", float64(10+rng.Intn(81)), q))
		pieces += q
	}
	return demands
}

func TestOptimize_RandomInstancesBothStrategies(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for c := 0; c < 10; c++ {
		demands := randomDemands(rng)
		floor := PackingLowerBound(demands, 100)
		for _, strategy := range []model.Strategy{model.StrategyDirect, model.StrategyColumnGeneration} {
			s := settingsFor(strategy)
			s.SolverTimeLimit = 3

			res, err := New(s).Optimize(context.Background(), demands, parent(100))

			require.NoError(t, err)
			require.Contains(t, []string{"OPTIMAL", "FEASIBLE"}, res.StatusName, "case %d %s %v", c, strategy, demands)
			assert.GreaterOrEqual(t, res.NumRollsUsed, floor, "case %d %s", c, strategy)
			assertValidPlan(t, res.Solutions, demands, 100)
		}
	}
}
