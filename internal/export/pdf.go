// Package export writes cut plans to PDF, Excel, JSON and text, and prints
// QR-coded roll labels.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StockCut/internal/model"
	"github.com/pkg/errors"
)

// pieceColor represents an RGB color for one cut length.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	barHeight    = 9.0
	barGap       = 5.0
	barLabelW    = 28.0
	barTrimW     = 30.0
	barsPerPage  = 11 // (pageHeight - drawAreaTop - marginBottom) / (barHeight + barGap)
)

// RollGroup is a run of identical rolls in a cut plan.
type RollGroup struct {
	Roll  model.RollAssignment
	Count int
	First int // index of the first roll in the plan, 0-based
}

// GroupRolls merges consecutive rolls with the same cuts into one group.
func GroupRolls(result model.Result) []RollGroup {
	var groups []RollGroup
	for i, roll := range result.Solutions {
		if n := len(groups); n > 0 && sameCuts(groups[n-1].Roll, roll) {
			groups[n-1].Count++
			continue
		}
		groups = append(groups, RollGroup{Roll: roll, Count: 1, First: i})
	}
	return groups
}

func sameCuts(a, b model.RollAssignment) bool {
	if len(a.Cuts) != len(b.Cuts) {
		return false
	}
	for i := range a.Cuts {
		if math.Abs(a.Cuts[i]-b.Cuts[i]) > model.WidthTolerance {
			return false
		}
	}
	return true
}

// ExportPDF writes the cut plan as one bar diagram per group of identical
// rolls, followed by a summary page.
func ExportPDF(path string, result model.Result, parent model.ParentStock) error {
	if len(result.Solutions) == 0 {
		return errors.New("no rolls to export")
	}
	width := result.ParentWidth
	if width <= 0 {
		width = parent.Width
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	colors := lengthColors(result)
	groups := GroupRolls(result)
	for start := 0; start < len(groups); start += barsPerPage {
		end := start + barsPerPage
		if end > len(groups) {
			end = len(groups)
		}
		pdf.AddPage()
		renderPlanPage(pdf, groups[start:end], result, parent, width, colors, start/barsPerPage+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, parent, groups)

	return pdf.OutputFileAndClose(path)
}

// lengthColors assigns colors to cut lengths in order of first appearance.
func lengthColors(result model.Result) map[float64]pieceColor {
	colors := make(map[float64]pieceColor)
	for _, roll := range result.Solutions {
		for _, c := range roll.Cuts {
			if _, ok := colors[c]; !ok {
				colors[c] = pieceColors[len(colors)%len(pieceColors)]
			}
		}
	}
	return colors
}

func renderPlanPage(pdf *fpdf.Fpdf, groups []RollGroup, result model.Result, parent model.ParentStock, width float64, colors map[float64]pieceColor, pageNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cut Plan: %s (%.0f mm) - page %d", parent.Label, width, pageNum)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Status: %s | Rolls: %d | Pieces: %d | Trim: %.1f mm | Efficiency: %.1f%%",
		result.StatusName, result.NumRollsUsed, result.TotalCuts(), result.TotalTrim(), result.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	barW := pageWidth - marginLeft - marginRight - barLabelW - barTrimW
	scale := barW / width
	y := drawAreaTop

	for _, g := range groups {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(marginLeft, y)
		label := fmt.Sprintf("#%d", g.First+1)
		if g.Count > 1 {
			label = fmt.Sprintf("#%d-%d (x%d)", g.First+1, g.First+g.Count, g.Count)
		}
		pdf.CellFormat(barLabelW, barHeight, label, "", 0, "L", false, 0, "")

		x := marginLeft + barLabelW

		// Parent roll background
		pdf.SetFillColor(210, 210, 210)
		pdf.SetDrawColor(100, 100, 100)
		pdf.SetLineWidth(0.3)
		pdf.Rect(x, y, barW, barHeight, "FD")

		for _, c := range g.Roll.Cuts {
			w := c * scale
			col := colors[c]
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.Rect(x, y, w, barHeight, "FD")

			text := fmt.Sprintf("%g", c)
			pdf.SetFont("Helvetica", "", 7)
			if tw := pdf.GetStringWidth(text); tw < w-1 {
				pdf.SetXY(x+(w-tw)/2, y+(barHeight-4)/2)
				pdf.CellFormat(tw, 4, text, "", 0, "C", false, 0, "")
			}
			x += w
		}

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(80, 80, 80)
		pdf.SetXY(pageWidth-marginRight-barTrimW+2, y)
		pdf.CellFormat(barTrimW-2, barHeight, fmt.Sprintf("trim %.1f", g.Roll.Unused), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		y += barHeight + barGap
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, result model.Result, parent model.ParentStock, groups []RollGroup) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Parent Stock", fmt.Sprintf("%s (%.0f mm)", parent.Label, result.ParentWidth)},
		{"Strategy", string(result.Strategy)},
		{"Solver Status", result.StatusName},
		{"Rolls Used", fmt.Sprintf("%d", result.NumRollsUsed)},
		{"Distinct Patterns", fmt.Sprintf("%d", len(groups))},
		{"Pieces Cut", fmt.Sprintf("%d", result.TotalCuts())},
		{"Total Trim", fmt.Sprintf("%.1f mm", result.TotalTrim())},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", result.Efficiency())},
		{"Solve Time", fmt.Sprintf("%.3f s", result.WallTime)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if result.Approximate {
		y += 3
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(200, 5, "Some trim values were corrected for solver rounding.", "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StockCut - 1D Cutting Stock Optimizer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
