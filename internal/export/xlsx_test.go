package export

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestExportExcel_WritesPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.xlsx")

	if err := ExportExcel(path, buildTestResult(), buildTestParent()); err != nil {
		t.Fatalf("ExportExcel returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(planSheet)
	if err != nil {
		t.Fatalf("failed to read plan sheet: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header plus 4 rolls, got %d rows", len(rows))
	}
	if rows[0][0] != "Roll" || rows[0][len(rows[0])-1] != "Cut 4" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][2] != "10" || rows[1][3] != "30" {
		t.Errorf("unexpected first roll row: %v", rows[1])
	}
	if len(rows[2]) != 7 {
		t.Errorf("second roll should have 4 cuts, got row %v", rows[2])
	}

	summary, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("failed to read summary sheet: %v", err)
	}
	if summary[0][1] != "Paper roll" {
		t.Errorf("expected parent label in summary, got %v", summary[0])
	}
	if summary[4][1] != "4" {
		t.Errorf("expected 4 rolls in summary, got %v", summary[4])
	}
}

func TestExportExcel_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	if err := ExportExcel(filepath.Join(dir, "empty.xlsx"), model.Result{}, buildTestParent()); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportExcel_NoRolls(t *testing.T) {
	err := ExportExcel(filepath.Join(t.TempDir(), "empty.xlsx"), model.Result{}, buildTestParent())
	if err == nil {
		t.Fatal("expected an error for a result without rolls")
	}
}

func TestExportExcel_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "plan.xlsx")

	err := ExportExcel(path, buildTestResult(), buildTestParent())
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
	if !strings.HasPrefix(err.Error(), "failed to save workbook: ") {
		t.Errorf("expected the save error to be wrapped, got %q", err.Error())
	}
}
