package model

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// WidthTolerance is the slack allowed when comparing widths computed by the solver.
const WidthTolerance = 1e-6

// Demand is one child-roll type: a length needed in a given quantity.
// Its position in a demand list is its identity for the whole solve.
type Demand struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Length   float64 `json:"length"`   // mm, must not exceed the parent width
	Quantity int     `json:"quantity"` // pieces required
}

func NewDemand(label string, length float64, qty int) Demand {
	return Demand{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Quantity: qty,
	}
}

// Lengths returns the lengths of demands in order.
func Lengths(demands []Demand) []float64 {
	out := make([]float64, len(demands))
	for i, d := range demands {
		out[i] = d.Length
	}
	return out
}

// Quantities returns the quantities of demands in order.
func Quantities(demands []Demand) []int {
	out := make([]int, len(demands))
	for i, d := range demands {
		out[i] = d.Quantity
	}
	return out
}

// TotalLength returns Σ quantity·length over all demands.
func TotalLength(demands []Demand) float64 {
	var total float64
	for _, d := range demands {
		total += float64(d.Quantity) * d.Length
	}
	return total
}

// MergeDemands combines demands with the same length (within WidthTolerance)
// into one entry, summing quantities. Order of first appearance is kept.
func MergeDemands(demands []Demand) []Demand {
	var out []Demand
	for _, d := range demands {
		merged := false
		for i := range out {
			if math.Abs(out[i].Length-d.Length) <= WidthTolerance {
				out[i].Quantity += d.Quantity
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, d)
		}
	}
	return out
}

// ParentStock is the stock material every roll is cut from.
type ParentStock struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Width    float64 `json:"width"`    // mm, usable width of one parent roll
	Quantity int     `json:"quantity"` // rolls on hand, informational
}

func NewParentStock(label string, width float64, qty int) ParentStock {
	return ParentStock{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    width,
		Quantity: qty,
	}
}

// Strategy selects the solve method.
type Strategy string

const (
	StrategyDirect           Strategy = "direct"            // One integer program, small instances
	StrategyColumnGeneration Strategy = "column-generation" // Pattern pricing, scales further
)

// DirectObjective selects the objective of the direct model.
type DirectObjective string

const (
	ObjectiveWeighted DirectObjective = "weighted" // Σ (j+1)·used[j], also orders rolls
	ObjectiveCount    DirectObjective = "count"    // Σ used[j]
)

// CutSettings holds optimizer configuration.
type CutSettings struct {
	Algorithm Strategy `json:"algorithm"`

	// Column generation
	MaxIterations     int     `json:"max_iterations"`      // Pricing rounds
	StopOnConvergence bool    `json:"stop_on_convergence"` // Stop once no column improves the master
	SkipNonImproving  bool    `json:"skip_non_improving"`  // Only append columns with negative reduced cost
	TimeBudget        float64 `json:"time_budget"`         // Seconds for the pricing loop, 0 = none
	UsageCap          int     `json:"usage_cap"`           // Upper bound on rolls cut with one pattern

	// Direct model
	DirectObjective DirectObjective `json:"direct_objective"`

	// Solver limits, 0 = none
	SolverTimeLimit float64 `json:"solver_time_limit"` // Seconds per solver call
	NodeLimit       int     `json:"node_limit"`        // Branch-and-bound nodes per solver call
}

func DefaultSettings() CutSettings {
	return CutSettings{
		Algorithm:         StrategyColumnGeneration,
		MaxIterations:     20,
		StopOnConvergence: true,
		SkipNonImproving:  true,
		TimeBudget:        0,
		UsageCap:          1000,
		DirectObjective:   ObjectiveWeighted,
		SolverTimeLimit:   0,
		NodeLimit:         0,
	}
}

// RollAssignment is one consumed parent roll: the lengths cut from it and the
// width left over.
type RollAssignment struct {
	Unused float64   `json:"unused"`
	Cuts   []float64 `json:"cuts"`
}

// Used returns Σ cuts.
func (r RollAssignment) Used() float64 {
	var total float64
	for _, c := range r.Cuts {
		total += c
	}
	return total
}

// MarshalJSON encodes a roll as the pair [unused, [cuts...]].
func (r RollAssignment) MarshalJSON() ([]byte, error) {
	cuts := r.Cuts
	if cuts == nil {
		cuts = []float64{}
	}
	return json.Marshal([]interface{}{r.Unused, cuts})
}

// UnmarshalJSON decodes the pair form written by MarshalJSON.
func (r *RollAssignment) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return errors.Errorf("roll assignment: want [unused, cuts], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Unused); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &r.Cuts)
}

// Result is the structured outcome of one solve. It is what the CLI, the
// exporters and the job files depend on.
type Result struct {
	StatusName         string           `json:"statusName"`
	NumSolutions       string           `json:"numSolutions"`
	NumUniqueSolutions string           `json:"numUniqueSolutions"`
	NumRollsUsed       int              `json:"numRollsUsed"`
	Solutions          []RollAssignment `json:"solutions"`

	Strategy       Strategy  `json:"strategy,omitempty"`
	ParentWidth    float64   `json:"parentWidth,omitempty"`
	WallTime       float64   `json:"wallTime,omitempty"`       // seconds
	Approximate    bool      `json:"approximate,omitempty"`    // a trim value was corrected for solver noise
	Patterns       [][]int   `json:"patterns,omitempty"`       // column generation: patterns[i][j]
	PatternLengths []float64 `json:"patternLengths,omitempty"` // length of pattern row i
	Usage          []int     `json:"usage,omitempty"`          // column generation: rolls per pattern
}

// TotalTrim returns the unused width over all rolls.
func (r Result) TotalTrim() float64 {
	var total float64
	for _, s := range r.Solutions {
		total += s.Unused
	}
	return total
}

// TotalCuts returns the number of pieces cut.
func (r Result) TotalCuts() int {
	n := 0
	for _, s := range r.Solutions {
		n += len(s.Cuts)
	}
	return n
}

// Efficiency returns the used share of all consumed parent width in percent.
func (r Result) Efficiency() float64 {
	total := r.ParentWidth * float64(len(r.Solutions))
	if total == 0 {
		return 0
	}
	return (total - r.TotalTrim()) / total * 100.0
}

// CoveredQuantities counts, per demand, how many pieces of its length the
// result contains. Demands sharing a length see the same count.
func (r Result) CoveredQuantities(demands []Demand) []int {
	counts := make([]int, len(demands))
	for i, d := range demands {
		for _, roll := range r.Solutions {
			for _, c := range roll.Cuts {
				if math.Abs(c-d.Length) <= WidthTolerance {
					counts[i]++
				}
			}
		}
	}
	return counts
}

// Job ties a demand list, its parent stock, settings and result together for save/load.
type Job struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Demands  []Demand    `json:"demands"`
	Parent   ParentStock `json:"parent"`
	Settings CutSettings `json:"settings"`
	Result   *Result     `json:"result,omitempty"`
}

func NewJob() Job {
	return Job{
		ID:       uuid.New().String()[:8],
		Name:     "Untitled",
		Demands:  []Demand{},
		Settings: DefaultSettings(),
	}
}
