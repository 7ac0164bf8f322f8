package engine

import (
	"math"

	"github.com/golang/glog"
	"github.com/piwi3910/StockCut/internal/model"
)

// trimNoise is the largest trim correction not reported as approximate.
const trimNoise = 1e-9

// RollsFromPatterns expands usage counts into one RollAssignment per consumed
// roll: usage[j] copies of pattern j, cuts in demand order, trim = W − Σ cuts.
func RollsFromPatterns(ps *PatternSet, usage []int, demands []model.Demand, width float64) []model.RollAssignment {
	var rolls []model.RollAssignment
	for j := 0; j < ps.Len() && j < len(usage); j++ {
		if usage[j] <= 0 {
			continue
		}
		var cuts []float64
		for i, d := range demands {
			for u := 0; u < ps.At(i, j); u++ {
				cuts = append(cuts, d.Length)
			}
		}
		for c := 0; c < usage[j]; c++ {
			roll := model.RollAssignment{Cuts: append([]float64(nil), cuts...)}
			roll.Unused = width - roll.Used()
			rolls = append(rolls, roll)
		}
	}
	return rolls
}

// RollsFromAssignment turns the direct model's x[i][j] and y[j] into roll
// assignments. Trim is the solved unused[j], with its sign dropped. A trim
// that disagrees with W − Σ cuts beyond model.WidthTolerance is replaced by
// the computed value. Rolls without cuts are skipped. The second result
// reports whether any trim was corrected.
func RollsFromAssignment(x [][]int, used []bool, unused []float64, demands []model.Demand, width float64) ([]model.RollAssignment, bool) {
	var rolls []model.RollAssignment
	approximate := false
	for j := range used {
		if !used[j] {
			continue
		}
		var cuts []float64
		for i, d := range demands {
			for u := 0; u < x[i][j]; u++ {
				cuts = append(cuts, d.Length)
			}
		}
		if len(cuts) == 0 {
			continue
		}

		roll := model.RollAssignment{Cuts: cuts}
		trim := unused[j]
		if trim < -trimNoise {
			glog.Warningf("engine: roll %d has negative trim %g, using its magnitude", j, trim)
			approximate = true
		}
		trim = math.Abs(trim)
		if exact := width - roll.Used(); math.Abs(trim-exact) > model.WidthTolerance {
			glog.Warningf("engine: roll %d trim %g disagrees with cuts, using %g", j, trim, exact)
			trim = exact
			approximate = true
		}
		roll.Unused = trim
		rolls = append(rolls, roll)
	}
	return rolls, approximate
}
