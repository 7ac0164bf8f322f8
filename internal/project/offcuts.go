package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/StockCut/internal/model"
)

// DefaultOffcutsPath returns ~/.stockcut/offcuts.json.
func DefaultOffcutsPath() string {
	return filepath.Join(DefaultConfigDir(), "offcuts.json")
}

// LoadOffcuts reads saved offcuts. A missing file yields an empty list.
func LoadOffcuts(path string) ([]model.Offcut, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Offcut{}, nil
		}
		return nil, err
	}
	var offcuts []model.Offcut
	if err := json.Unmarshal(data, &offcuts); err != nil {
		return nil, err
	}
	if offcuts == nil {
		offcuts = []model.Offcut{}
	}
	return offcuts, nil
}

// SaveOffcuts overwrites the offcut file.
func SaveOffcuts(path string, offcuts []model.Offcut) error {
	return writeJSON(path, offcuts)
}

// AddOffcuts appends offcuts to the file at path, skipping IDs already
// stored, and returns the full list.
func AddOffcuts(path string, added []model.Offcut) ([]model.Offcut, error) {
	offcuts, err := LoadOffcuts(path)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(offcuts))
	for _, o := range offcuts {
		seen[o.ID] = true
	}
	for _, o := range added {
		if !seen[o.ID] {
			offcuts = append(offcuts, o)
			seen[o.ID] = true
		}
	}
	return offcuts, SaveOffcuts(path, offcuts)
}
