package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// DefaultPresetsPath returns the default file path for saved scale presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.yaml")
}

// SavePresets saves presets to a YAML or JSON file.
func SavePresets(path string, presets []model.ScalePreset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := marshalFor(path, presets)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPresets loads saved presets from a YAML or JSON file.
// Returns an empty slice if the file does not exist.
func LoadPresets(path string) ([]model.ScalePreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.ScalePreset{}, nil
		}
		return nil, err
	}

	var presets []model.ScalePreset
	if err := unmarshalFor(path, data, &presets); err != nil {
		return nil, err
	}
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if presets == nil {
		presets = []model.ScalePreset{}
	}
	return presets, nil
}

// AllPresets returns the built-in presets followed by those saved at path.
// A saved preset replaces a built-in one with the same name.
func AllPresets(path string) ([]model.ScalePreset, error) {
	saved, err := LoadPresets(path)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int)
	var all []model.ScalePreset
	for _, p := range append(model.BuiltInPresets(), saved...) {
		if i, ok := byName[p.Name]; ok {
			all[i] = p
			continue
		}
		byName[p.Name] = len(all)
		all = append(all, p)
	}
	return all, nil
}

// FindPreset looks up a preset by name among AllPresets(path).
func FindPreset(path, name string) (model.ScalePreset, error) {
	presets, err := AllPresets(path)
	if err != nil {
		return model.ScalePreset{}, err
	}
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return model.ScalePreset{}, fmt.Errorf("unknown preset %q", name)
}
