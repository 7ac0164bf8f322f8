package model

import "github.com/google/uuid"

// StockPreset is a reusable parent stock definition.
type StockPreset struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Width        float64 `json:"width"` // mm
	Material     string  `json:"material"`
	PricePerRoll float64 `json:"price_per_roll"`
}

// NewStockPreset creates a new StockPreset with a generated ID.
func NewStockPreset(name string, width float64, material string) StockPreset {
	return StockPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Width:    width,
		Material: material,
	}
}

// NewStockPresetWithPrice creates a StockPreset carrying a price per parent roll.
func NewStockPresetWithPrice(name string, width float64, material string, price float64) StockPreset {
	sp := NewStockPreset(name, width, material)
	sp.PricePerRoll = price
	return sp
}

// ToParentStock converts a StockPreset into a ParentStock with the given quantity.
func (sp StockPreset) ToParentStock(qty int) ParentStock {
	return NewParentStock(sp.Name, sp.Width, qty)
}

// Inventory holds the user's saved parent stock presets.
type Inventory struct {
	Stocks []StockPreset `json:"stocks"`
}

// DefaultInventory returns an inventory populated with common defaults.
func DefaultInventory() Inventory {
	return Inventory{
		Stocks: []StockPreset{
			NewStockPreset("Steel bar 6000mm", 6000, "Steel"),
			NewStockPreset("Aluminium profile 6500mm", 6500, "Aluminium"),
			NewStockPreset("Timber 4800mm", 4800, "Timber"),
			NewStockPreset("Timber 2400mm", 2400, "Timber"),
			NewStockPreset("PVC pipe 3000mm", 3000, "PVC"),
			NewStockPreset("Paper roll 100", 100, "Paper"),
		},
	}
}

// FindStockByID returns a pointer to the stock preset with the given ID, or nil.
func (inv *Inventory) FindStockByID(id string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// StockNames returns the stock preset names in order.
func (inv *Inventory) StockNames() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}

// FindStockByName returns a pointer to the first stock preset with the given name, or nil.
func (inv *Inventory) FindStockByName(name string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].Name == name {
			return &inv.Stocks[i]
		}
	}
	return nil
}
