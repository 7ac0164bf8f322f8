package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePurchaseEstimateBasic(t *testing.T) {
	demands := []Demand{
		NewDemand("Rail", 1500, 4),
		NewDemand("Post", 900, 5),
	}
	est := CalculatePurchaseEstimate(demands, 6000, 10.0, 25.0)

	assert.InDelta(t, 10500.0, est.TotalLength, 1e-9)
	assert.InDelta(t, 10.5, est.TotalMeters, 1e-9)
	assert.InDelta(t, 1.75, est.RollsNeededExact, 1e-9)
	assert.Equal(t, 2, est.RollsNeededMin)
	assert.Equal(t, 2, est.RollsWithWaste) // 1.75 * 1.1 = 1.925
	assert.InDelta(t, 50.0, est.EstimatedCost, 1e-9)
}

func TestCalculatePurchaseEstimateWastePushesUp(t *testing.T) {
	demands := []Demand{NewDemand("A", 1000, 6)}
	est := CalculatePurchaseEstimate(demands, 6000, 15.0, 0)

	assert.Equal(t, 1, est.RollsNeededMin)
	assert.Equal(t, 2, est.RollsWithWaste)
	assert.Zero(t, est.EstimatedCost)
}

func TestCalculatePurchaseEstimateZeroWidth(t *testing.T) {
	est := CalculatePurchaseEstimate([]Demand{NewDemand("A", 100, 2)}, 0, 10, 5)

	assert.InDelta(t, 200.0, est.TotalLength, 1e-9)
	assert.Zero(t, est.RollsNeededMin)
	assert.Zero(t, est.EstimatedCost)
}
