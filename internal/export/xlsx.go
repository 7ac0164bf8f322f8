package export

import (
	"fmt"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	planSheet    = "Cut Plan"
	summarySheet = "Summary"
)

// ExportExcel writes the cut plan as a workbook with one row per roll and a
// summary sheet. Cuts are spread across columns after the trim column.
func ExportExcel(path string, result model.Result, parent model.ParentStock) error {
	if len(result.Solutions) == 0 {
		return errors.New("no rolls to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", planSheet); err != nil {
		return errors.Wrap(err, "failed to rename sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create style")
	}

	maxCuts := 0
	for _, roll := range result.Solutions {
		if len(roll.Cuts) > maxCuts {
			maxCuts = len(roll.Cuts)
		}
	}

	header := []interface{}{"Roll", "Used (mm)", "Trim (mm)"}
	for i := 1; i <= maxCuts; i++ {
		header = append(header, fmt.Sprintf("Cut %d", i))
	}
	if err := f.SetSheetRow(planSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(planSheet, "A1", last, bold); err != nil {
		return errors.Wrap(err, "failed to style header")
	}

	for i, roll := range result.Solutions {
		row := []interface{}{i + 1, roll.Used(), roll.Unused}
		for _, c := range roll.Cuts {
			row = append(row, c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(planSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write roll %d", i+1)
		}
	}
	if err := f.SetColWidth(planSheet, "B", "C", 12); err != nil {
		return errors.Wrap(err, "failed to size columns")
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.Wrap(err, "failed to add summary sheet")
	}
	summary := [][]interface{}{
		{"Parent Stock", parent.Label},
		{"Parent Width (mm)", result.ParentWidth},
		{"Strategy", string(result.Strategy)},
		{"Solver Status", result.StatusName},
		{"Rolls Used", result.NumRollsUsed},
		{"Pieces Cut", result.TotalCuts()},
		{"Total Trim (mm)", result.TotalTrim()},
		{"Efficiency (%)", result.Efficiency()},
		{"Solve Time (s)", result.WallTime},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return errors.Wrap(err, "failed to write summary")
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return errors.Wrap(err, "failed to style summary")
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return errors.Wrap(err, "failed to size columns")
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save workbook")
	}
	return nil
}
