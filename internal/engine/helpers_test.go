package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/stretchr/testify/assert"
)

// demandsOf builds demands from (quantity, length) pairs.
func demandsOf(pairs ...[2]float64) []model.Demand {
	out := make([]model.Demand, len(pairs))
	for i, p := range pairs {
		out[i] = model.NewDemand("", p[1], int(p[0]))
	}
	return out
}

// assertValidPlan checks that every roll fills the parent width exactly with
// its trim and that each length is cut at least as often as all demands of
// that length ask for together.
func assertValidPlan(t *testing.T, rolls []model.RollAssignment, demands []model.Demand, width float64) {
	t.Helper()
	for k, roll := range rolls {
		assert.InDelta(t, width, roll.Used()+roll.Unused, 1e-6, "roll %d", k)
		assert.GreaterOrEqual(t, roll.Unused, 0.0, "roll %d", k)
		assert.LessOrEqual(t, roll.Used(), width+1e-6, "roll %d", k)
	}
	assert.Empty(t, shortLengths(rolls, demands), "lengths cut too few times")
}

// shortLengths returns the lengths cut fewer times than all demands of that
// length ask for together.
func shortLengths(rolls []model.RollAssignment, demands []model.Demand) []float64 {
	merged := model.MergeDemands(demands)
	covered := model.Result{Solutions: rolls}.CoveredQuantities(merged)
	var short []float64
	for i, d := range merged {
		if covered[i] < d.Quantity {
			short = append(short, d.Length)
		}
	}
	return short
}

func TestShortLengths_SharedLengthCountsTogether(t *testing.T) {
	rolls := []model.RollAssignment{{Cuts: []float64{50, 30}, Unused: 20}}

	assert.Empty(t, shortLengths(rolls, demandsOf([2]float64{1, 50}, [2]float64{1, 30})))
	assert.Equal(t, []float64{50}, shortLengths(rolls, demandsOf([2]float64{1, 50}, [2]float64{1, 50})))
}

func trims(rolls []model.RollAssignment) []float64 {
	out := make([]float64, len(rolls))
	for i, r := range rolls {
		out[i] = math.Round(r.Unused*1e6) / 1e6
	}
	return out
}

func lengthsOf(demands []model.Demand) []float64 {
	return model.Lengths(demands)
}
