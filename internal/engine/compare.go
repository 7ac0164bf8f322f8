package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/StockCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.CutSettings
}

// ComparisonResult holds the optimization result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Result       model.Result
	RollsUsed    int
	TotalCuts    int
	TotalTrim    float64
	WastePercent float64
}

// CompareScenarios runs optimization for each scenario and returns the results
// in scenario order. The first invalid request aborts the comparison.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, demands []model.Demand, parents []model.ParentStock) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings)
		result, err := opt.Optimize(ctx, demands, parents)
		if err != nil {
			return nil, err
		}

		wastePercent := 0.0
		if len(result.Solutions) > 0 {
			wastePercent = 100.0 - result.Efficiency()
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Result:       result,
			RollsUsed:    result.NumRollsUsed,
			TotalCuts:    result.TotalCuts(),
			TotalTrim:    result.TotalTrim(),
			WastePercent: wastePercent,
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.CutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: Try the other strategy
	alt := baseSettings
	if baseSettings.Algorithm == model.StrategyDirect {
		alt.Algorithm = model.StrategyColumnGeneration
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Column Generation",
			Settings: alt,
		})
	} else {
		alt.Algorithm = model.StrategyDirect
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Direct Model",
			Settings: alt,
		})
	}

	// Scenario: fixed rounds, every priced pattern kept
	legacy := baseSettings
	legacy.Algorithm = model.StrategyColumnGeneration
	legacy.MaxIterations = 20
	legacy.StopOnConvergence = false
	legacy.SkipNonImproving = false
	if legacy != baseSettings {
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Column Generation (%d fixed rounds)", legacy.MaxIterations),
			Settings: legacy,
		})
	}

	// Scenario: roll count objective for the direct model
	if baseSettings.Algorithm == model.StrategyDirect && baseSettings.DirectObjective != model.ObjectiveCount {
		count := baseSettings
		count.DirectObjective = model.ObjectiveCount
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Direct Model (roll count objective)",
			Settings: count,
		})
	}

	return scenarios
}
