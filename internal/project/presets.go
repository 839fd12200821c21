package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/AtlasGrid/internal/model"
)

// DefaultPresetsPath returns the default file path for custom page presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SaveCustomPresets saves custom page presets to a JSON file.
func SaveCustomPresets(path string, presets []model.PagePreset) error {
	for _, p := range presets {
		if err := validatePreset(p); err != nil {
			return err
		}
	}
	return writeJSON(path, presets)
}

// LoadCustomPresets loads custom page presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomPresets(path string) ([]model.PagePreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.PagePreset{}, nil
		}
		return nil, err
	}

	var presets []model.PagePreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}

	// Ensure loaded presets are not marked as built-in
	for i := range presets {
		presets[i].IsBuiltIn = false
	}
	return presets, nil
}

// AddCustomPreset appends p to the presets stored at path, replacing a
// custom preset of the same name. Built-in names cannot be shadowed.
func AddCustomPreset(path string, p model.PagePreset) ([]model.PagePreset, error) {
	if err := validatePreset(p); err != nil {
		return nil, err
	}
	for _, b := range model.PagePresets {
		if b.Name == p.Name {
			return nil, fmt.Errorf("preset %q is built in", p.Name)
		}
	}
	presets, err := LoadCustomPresets(path)
	if err != nil {
		return nil, err
	}
	p.IsBuiltIn = false
	replaced := false
	for i := range presets {
		if presets[i].Name == p.Name {
			presets[i] = p
			replaced = true
		}
	}
	if !replaced {
		presets = append(presets, p)
	}
	if err := SaveCustomPresets(path, presets); err != nil {
		return nil, err
	}
	return presets, nil
}

func validatePreset(p model.PagePreset) error {
	if p.Name == "" {
		return errors.New("preset has no name")
	}
	if p.Size.Width <= 0 || p.Size.Height <= 0 {
		return fmt.Errorf("preset %q: sheet size must be positive", p.Name)
	}
	if _, _, err := p.Size.Meters(); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return nil
}
