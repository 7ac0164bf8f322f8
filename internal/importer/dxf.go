package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// dxfPrecision is the grid, in mm, that measured lengths are rounded to
// before equal pieces are counted together.
const dxfPrecision = 0.01

// ImportDXF imports demands from a DXF drawing in which every LINE, ARC or
// open LWPOLYLINE is one piece to cut. Its measured length is the demanded
// length; pieces of equal length become one demand with their count as
// quantity. Closed shapes are skipped.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var lengths []float64
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			lengths = append(lengths, distance(e.Start[0], e.Start[1], e.End[0], e.End[1]))

		case *entity.Arc:
			lengths = append(lengths, arcLength(e))

		case *entity.LwPolyline:
			if e.Closed {
				result.Warnings = append(result.Warnings, "Skipped closed LWPOLYLINE")
				continue
			}
			if len(e.Vertices) < 2 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 2 vertices")
				continue
			}
			lengths = append(lengths, polylineLength(e))

		case *entity.Circle:
			result.Warnings = append(result.Warnings, "Skipped CIRCLE")

		default:
			// Unsupported entity types are silently skipped
		}
	}

	counts := make(map[float64]int)
	for _, l := range lengths {
		rounded := math.Round(l/dxfPrecision) * dxfPrecision
		if rounded < dxfPrecision {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped degenerate piece (%.4f mm)", l))
			continue
		}
		counts[rounded]++
	}

	if len(counts) == 0 {
		result.Errors = append(result.Errors, "No pieces found in DXF file")
		return result
	}

	// Longest pieces first for consistent ordering
	unique := make([]float64, 0, len(counts))
	for l := range counts {
		unique = append(unique, l)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(unique)))

	for _, l := range unique {
		result.Demands = append(result.Demands,
			model.NewDemand(fmt.Sprintf("DXF %.2f", l), l, counts[l]))
	}
	return result
}

func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// arcLength returns r·sweep for a DXF ARC whose angles are in degrees,
// counter-clockwise from start to end.
func arcLength(a *entity.Arc) float64 {
	sweep := a.Angle[1] - a.Angle[0]
	if sweep <= 0 {
		sweep += 360
	}
	return a.Circle.Radius * sweep * math.Pi / 180
}

// polylineLength sums the segments of an open LWPOLYLINE. A vertex with a
// bulge starts an arc segment; the bulge is tan(θ/4) of the included angle θ.
func polylineLength(lw *entity.LwPolyline) float64 {
	var total float64
	for i := 0; i+1 < len(lw.Vertices); i++ {
		p, q := lw.Vertices[i], lw.Vertices[i+1]
		chord := distance(p[0], p[1], q[0], q[1])

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		total += bulgeSegmentLength(chord, bulge)
	}
	return total
}

func bulgeSegmentLength(chord, bulge float64) float64 {
	if math.Abs(bulge) < 1e-9 || chord < 1e-9 {
		return chord
	}
	theta := 4 * math.Atan(math.Abs(bulge))
	radius := chord / (2 * math.Sin(theta/2))
	return radius * theta
}
