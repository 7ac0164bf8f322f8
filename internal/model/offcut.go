package model

import (
	"sort"

	"github.com/google/uuid"
)

// Offcut is a reusable remnant left on a parent roll after cutting.
type Offcut struct {
	ID           string  `json:"id"`
	StockLabel   string  `json:"stock_label"`    // Which parent stock it came from
	RollIndex    int     `json:"roll_index"`     // Index of the source roll in the result
	Length       float64 `json:"length"`         // Usable length (mm)
	PricePerRoll float64 `json:"price_per_roll"` // Price proportional to length (0 if not set)
}

// ToParentStock converts an offcut into parent stock for reuse in a later job.
func (o Offcut) ToParentStock() ParentStock {
	return NewParentStock("Offcut "+o.StockLabel, o.Length, 1)
}

// MinOffcutLength is the minimum length (in mm) for a trim to count as a
// usable offcut. Shorter trims are waste.
const MinOffcutLength = 50.0

// DetectOffcuts returns the trims of result that are at least minLength long,
// longest first. parent supplies the label and price carried by each offcut.
func DetectOffcuts(result Result, parent ParentStock, pricePerRoll, minLength float64) []Offcut {
	var offcuts []Offcut
	for i, roll := range result.Solutions {
		if roll.Unused+WidthTolerance < minLength {
			continue
		}
		o := Offcut{
			ID:         uuid.New().String()[:8],
			StockLabel: parent.Label,
			RollIndex:  i,
			Length:     roll.Unused,
		}
		if pricePerRoll > 0 && result.ParentWidth > 0 {
			o.PricePerRoll = roll.Unused / result.ParentWidth * pricePerRoll
		}
		offcuts = append(offcuts, o)
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Length > offcuts[j].Length
	})
	return offcuts
}

// TotalOffcutLength returns the total length of all offcuts in mm.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
