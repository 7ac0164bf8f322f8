package model

import "math"

// PurchaseEstimate holds the results of a stock purchasing calculation.
type PurchaseEstimate struct {
	TotalLength      float64 `json:"total_length"`       // Σ quantity·length of all demands (mm)
	TotalMeters      float64 `json:"total_meters"`       // Same in meters
	ParentWidth      float64 `json:"parent_width"`       // Width of one parent roll (mm)
	RollsNeededExact float64 `json:"rolls_needed_exact"` // Exact fractional number of rolls
	RollsNeededMin   int     `json:"rolls_needed_min"`   // Minimum rolls (ceiling of exact)
	RollsWithWaste   int     `json:"rolls_with_waste"`   // Recommended rolls including waste factor
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g., 10 for 10%)
	EstimatedCost    float64 `json:"estimated_cost"`     // Total cost if pricing available
	PricePerRoll     float64 `json:"price_per_roll"`     // Price used for estimation
}

// CalculatePurchaseEstimate computes how many parent rolls to buy for a demand list
// before any optimization, adding wastePercent on top of the pure material length.
func CalculatePurchaseEstimate(demands []Demand, parentWidth, wastePercent, pricePerRoll float64) PurchaseEstimate {
	total := TotalLength(demands)

	if parentWidth <= 0 {
		return PurchaseEstimate{
			TotalLength:  total,
			TotalMeters:  total / 1000.0,
			WastePercent: wastePercent,
		}
	}

	exact := total / parentWidth
	minRolls := int(math.Ceil(exact - 1e-9))

	// Apply waste factor
	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact*wasteFactor - 1e-9))
	if withWaste < minRolls {
		withWaste = minRolls
	}

	return PurchaseEstimate{
		TotalLength:      total,
		TotalMeters:      total / 1000.0,
		ParentWidth:      parentWidth,
		RollsNeededExact: exact,
		RollsNeededMin:   minRolls,
		RollsWithWaste:   withWaste,
		WastePercent:     wastePercent,
		EstimatedCost:    float64(withWaste) * pricePerRoll,
		PricePerRoll:     pricePerRoll,
	}
}
