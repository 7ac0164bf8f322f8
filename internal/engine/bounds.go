package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/StockCut/internal/model"
)

// Bounds sizes the direct model: the range of parent rolls worth trying and
// how many units of each demand one roll may carry.
type Bounds struct {
	Lower     int   // ceil(total demanded length / parent width)
	Upper     int   // rolls used by a greedy first-fit pass
	MaxRepeat []int // per demand, min(quantity, round(W / length))
}

// EstimateBounds packs demand units greedily, in demand order, into a running
// roll and opens a new roll whenever the next unit does not fit. Demands
// that can never fit are ignored here; ValidateDemands rejects them.
func EstimateBounds(demands []model.Demand, width float64) Bounds {
	b := Bounds{Upper: 1, MaxRepeat: make([]int, len(demands))}

	var current, total float64
	for i, d := range demands {
		if d.Length <= 0 || d.Length > width+model.WidthTolerance {
			continue
		}
		b.MaxRepeat[i] = d.Quantity
		if r := int(math.Floor(width/d.Length + 0.5)); r < d.Quantity {
			b.MaxRepeat[i] = r
		}

		for q := d.Quantity; q > 0; {
			if current+d.Length <= width+model.WidthTolerance {
				current += d.Length
				total += d.Length
				q--
				continue
			}
			b.Upper++
			current = 0
		}
	}

	b.Lower = int(math.Ceil(total/width - 1e-9))
	if b.Lower > b.Upper {
		b.Lower = b.Upper
	}
	return b
}

// PackingLowerBound is the Martello-Toth L2 bound on the rolls needed. For a
// threshold a, pieces longer than W-a cannot share a roll with any piece of
// at least a, pieces longer than W/2 cannot share with each other, and the
// pieces in [a, W/2] must fit in what those rolls leave free or in new rolls.
// The result is never below the continuous bound ceil(total/W).
func PackingLowerBound(demands []model.Demand, width float64) int {
	capacity := width + model.WidthTolerance
	half := capacity / 2

	thresholds := []float64{0}
	var total float64
	for _, d := range demands {
		if d.Quantity <= 0 || d.Length <= 0 {
			continue
		}
		total += d.Length * float64(d.Quantity)
		if d.Length <= half {
			thresholds = append(thresholds, d.Length)
		}
	}

	best := int(math.Ceil(total/capacity - 1e-9))
	for _, a := range thresholds {
		var long, middle int
		var middleLen, smallLen float64
		for _, d := range demands {
			if d.Quantity <= 0 || d.Length <= 0 {
				continue
			}
			q := float64(d.Quantity)
			switch {
			case d.Length > capacity-a:
				long += d.Quantity
			case d.Length > half:
				middle += d.Quantity
				middleLen += d.Length * q
			case d.Length >= a:
				smallLen += d.Length * q
			}
		}
		lb := long + middle
		if spill := smallLen - (float64(middle)*capacity - middleLen); spill > 0 {
			lb += int(math.Ceil(spill/capacity - 1e-9))
		}
		if lb > best {
			best = lb
		}
	}
	return best
}

// packUnits places demand units into rolls, visiting demands in order. With
// firstFit every open roll is tried, otherwise only the newest one as in
// EstimateBounds. Each returned roll holds the units of every demand.
func packUnits(demands []model.Demand, width float64, order []int, firstFit bool) [][]int {
	var rolls [][]int
	var used []float64
	for _, i := range order {
		d := demands[i]
		if d.Length <= 0 || d.Length > width+model.WidthTolerance {
			continue
		}
		for q := 0; q < d.Quantity; q++ {
			r := -1
			from := len(rolls) - 1
			if firstFit {
				from = 0
			}
			for k := max(from, 0); k < len(rolls); k++ {
				if used[k]+d.Length <= width+model.WidthTolerance {
					r = k
					break
				}
			}
			if r < 0 {
				rolls = append(rolls, make([]int, len(demands)))
				used = append(used, 0)
				r = len(rolls) - 1
			}
			rolls[r][i]++
			used[r] += d.Length
		}
	}
	return rolls
}

// greedyPlan is a feasible packing of at most limit rolls: first fit with
// the longest demands first, or the EstimateBounds packing when that needs
// more rolls. Rolls are ordered by unit count, most first.
func greedyPlan(demands []model.Demand, width float64, limit int) [][]int {
	order := make([]int, len(demands))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return demands[order[a]].Length > demands[order[b]].Length
	})
	plan := packUnits(demands, width, order, true)
	if len(plan) > limit {
		sort.Ints(order)
		plan = packUnits(demands, width, order, false)
	}

	units := func(roll []int) int {
		n := 0
		for _, u := range roll {
			n += u
		}
		return n
	}
	sort.SliceStable(plan, func(a, b int) bool { return units(plan[a]) > units(plan[b]) })
	return plan
}
