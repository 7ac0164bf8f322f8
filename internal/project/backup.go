package project

import (
	"encoding/json"
	"os"
	"time"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/pkg/errors"
)

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	Inventory model.Inventory `json:"inventory"`
	Offcuts   []model.Offcut  `json:"offcuts"`
}

// ExportAllData exports the config, stock inventory and saved offcuts to a
// single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, inv model.Inventory, offcuts []model.Offcut) error {
	if offcuts == nil {
		offcuts = []model.Offcut{}
	}
	backup := BackupData{
		Version:   "1.0.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Inventory: inv,
		Offcuts:   offcuts,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return errors.Wrap(err, "failed to write backup file")
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, errors.Wrap(err, "failed to read backup file")
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, errors.Wrap(err, "failed to parse backup file")
	}
	if backup.Version == "" {
		return BackupData{}, errors.New("invalid backup file: missing version field")
	}
	if backup.Config.RecentJobs == nil {
		backup.Config.RecentJobs = []string{}
	}
	if backup.Offcuts == nil {
		backup.Offcuts = []model.Offcut{}
	}
	return backup, nil
}
