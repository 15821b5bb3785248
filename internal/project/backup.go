package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// BackupVersion is written into every settings bundle.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all user
// settings: the app config and the saved scale presets.
type BackupData struct {
	Version   string              `json:"version" yaml:"version"`
	CreatedAt string              `json:"created_at" yaml:"created_at"`
	Config    model.AppConfig     `json:"config" yaml:"config"`
	Presets   []model.ScalePreset `json:"presets" yaml:"presets"`
}

// ExportAllData writes config and presets to a single JSON or YAML file at
// the specified path.
func ExportAllData(exportPath string, config model.AppConfig, presets []model.ScalePreset) error {
	if presets == nil {
		presets = []model.ScalePreset{}
	}
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Presets:   presets,
	}
	data, err := marshalFor(exportPath, backup)
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a settings bundle and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	backup := BackupData{Config: model.DefaultAppConfig()}
	if err := unmarshalFor(importPath, data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	for _, p := range backup.Presets {
		if err := p.Validate(); err != nil {
			return BackupData{}, fmt.Errorf("invalid backup file: %w", err)
		}
	}
	// Ensure slices are never nil
	if backup.Config.RecentOutputs == nil {
		backup.Config.RecentOutputs = []string{}
	}
	if backup.Presets == nil {
		backup.Presets = []model.ScalePreset{}
	}
	return backup, nil
}
