package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/pkg/errors"
)

// DefaultInventoryPath returns ~/.stockcut/inventory.json.
func DefaultInventoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locate home directory")
	}
	return filepath.Join(home, ".stockcut", "inventory.json"), nil
}

// SaveInventory writes the stock presets to path.
func SaveInventory(path string, inv model.Inventory) error {
	return errors.Wrapf(writeJSON(path, inv), "save inventory %s", path)
}

// LoadInventory reads stock presets from path. A missing file is seeded with
// DefaultInventory, which is written back and returned.
func LoadInventory(path string) (model.Inventory, error) {
	inv, err := readInventory(path)
	if os.IsNotExist(errors.Cause(err)) {
		inv = model.DefaultInventory()
		return inv, SaveInventory(path, inv)
	}
	return inv, err
}

// LoadOrCreateInventory is LoadInventory at DefaultInventoryPath.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path, err := DefaultInventoryPath()
	if err != nil {
		return model.DefaultInventory(), "", err
	}
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory merges the presets stored at path into existing. Presets
// whose ID or name (case-insensitive) is already present are skipped. On
// error existing is returned unchanged.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	imported, err := readInventory(path)
	if err != nil {
		return existing, err
	}

	known := make(map[string]bool, 2*len(existing.Stocks))
	for _, s := range existing.Stocks {
		known["id:"+s.ID] = true
		known["name:"+strings.ToLower(s.Name)] = true
	}
	merged := model.Inventory{Stocks: append([]model.StockPreset(nil), existing.Stocks...)}
	for _, s := range imported.Stocks {
		id, name := "id:"+s.ID, "name:"+strings.ToLower(s.Name)
		if known[id] || known[name] {
			continue
		}
		merged.Stocks = append(merged.Stocks, s)
		known[id], known[name] = true, true
	}
	return merged, nil
}

func readInventory(path string) (model.Inventory, error) {
	var inv model.Inventory
	data, err := os.ReadFile(path)
	if err != nil {
		return inv, errors.WithStack(err)
	}
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, errors.Wrapf(err, "parse inventory %s", path)
	}
	return inv, nil
}
