package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StockCut/internal/model"
)

func TestDefaultInventoryPath(t *testing.T) {
	path, err := DefaultInventoryPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "inventory.json" {
		t.Errorf("expected filename inventory.json, got %s", filepath.Base(path))
	}
	dir := filepath.Base(filepath.Dir(path))
	if dir != ".stockcut" {
		t.Errorf("expected parent dir .stockcut, got %s", dir)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test_inventory.json")

	inv := model.Inventory{
		Stocks: []model.StockPreset{
			model.NewStockPresetWithPrice("Test Bar", 6000, "Steel", 42.5),
		},
	}

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}

	if len(loaded.Stocks) != 1 {
		t.Fatalf("expected 1 stock, got %d", len(loaded.Stocks))
	}
	if loaded.Stocks[0].Name != "Test Bar" {
		t.Errorf("expected stock name 'Test Bar', got %q", loaded.Stocks[0].Name)
	}
	if loaded.Stocks[0].Width != 6000 {
		t.Errorf("expected width 6000, got %f", loaded.Stocks[0].Width)
	}
	if loaded.Stocks[0].PricePerRoll != 42.5 {
		t.Errorf("expected price 42.5, got %f", loaded.Stocks[0].PricePerRoll)
	}
}

func TestLoadInventoryCreatesDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nonexistent", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}

	if len(inv.Stocks) == 0 {
		t.Error("expected default stocks, got none")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("expected default inventory file to be created")
	}
}

func TestLoadInventoryInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("[[["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportInventory(t *testing.T) {
	tmpDir := t.TempDir()

	existing := model.Inventory{
		Stocks: []model.StockPreset{
			{ID: "stock-001", Name: "Existing Bar", Width: 6000, Material: "Steel"},
		},
	}

	imported := model.Inventory{
		Stocks: []model.StockPreset{
			{ID: "stock-001", Name: "Duplicate Bar", Width: 6000, Material: "Steel"}, // same ID, skipped
			{ID: "stock-002", Name: "New Roll", Width: 1000, Material: "Paper"},      // new, added
		},
	}

	importPath := filepath.Join(tmpDir, "import.json")
	data, _ := json.MarshalIndent(imported, "", "  ")
	if err := os.WriteFile(importPath, data, 0644); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	merged, err := ImportInventory(importPath, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}

	if len(merged.Stocks) != 2 {
		t.Fatalf("expected 2 stocks after merge, got %d", len(merged.Stocks))
	}
	if merged.Stocks[0].Name != "Existing Bar" {
		t.Errorf("expected first stock to be 'Existing Bar', got %q", merged.Stocks[0].Name)
	}
	if merged.Stocks[1].Name != "New Roll" {
		t.Errorf("expected second stock to be 'New Roll', got %q", merged.Stocks[1].Name)
	}
	if len(existing.Stocks) != 1 {
		t.Errorf("existing inventory should not be modified, got %d stocks", len(existing.Stocks))
	}
}

func TestImportInventorySkipsSameName(t *testing.T) {
	tmpDir := t.TempDir()
	existing := model.Inventory{Stocks: []model.StockPreset{{ID: "a", Name: "Timber 2400mm", Width: 2400}}}

	importPath := filepath.Join(tmpDir, "import.json")
	if err := SaveInventory(importPath, model.Inventory{Stocks: []model.StockPreset{
		{ID: "b", Name: "timber 2400MM", Width: 2400},
	}}); err != nil {
		t.Fatal(err)
	}

	merged, err := ImportInventory(importPath, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(merged.Stocks) != 1 {
		t.Errorf("expected name match to be skipped, got %d stocks", len(merged.Stocks))
	}
}

func TestImportInventoryMissingFile(t *testing.T) {
	existing := model.DefaultInventory()
	merged, err := ImportInventory(filepath.Join(t.TempDir(), "nope.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(merged.Stocks) != len(existing.Stocks) {
		t.Error("existing inventory should be returned unchanged on error")
	}
}
