// Package presets loads named cleaning-option presets from a YAML file,
// falling back to a built-in set when no file is deployed.
package presets

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dataclean-pro/gateway/internal/models"
)

// Preset is a named, ready-made options snapshot offered in the UI.
type Preset struct {
	Name        string                   `yaml:"name" json:"name"`
	Description string                   `yaml:"description" json:"description"`
	Options     models.ProcessingOptions `yaml:"options" json:"options"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Defaults returns the built-in presets used when no YAML file exists.
func Defaults() []Preset {
	return []Preset{
		{
			Name:        "Full Clean",
			Description: "Run every cleaning step",
			Options:     models.DefaultOptions(),
		},
		{
			Name:        "Deduplicate Only",
			Description: "Remove duplicate rows and nothing else",
			Options:     models.ProcessingOptions{RemoveDuplicates: true},
		},
		{
			Name:        "Conservative",
			Description: "Deduplicate and fill missing values, keep outliers",
			Options: models.ProcessingOptions{
				RemoveDuplicates: true,
				HandleMissing:    true,
			},
		},
	}
}

// Load parses a YAML presets file.
func Load(filePath string) ([]Preset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader parses presets from an io.Reader.
func LoadFromReader(r io.Reader) ([]Preset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return f.Presets, nil
}

// LoadOrDefaults loads presets from filePath when it exists, otherwise
// returns the built-in set.
func LoadOrDefaults(filePath string) []Preset {
	presets, err := Load(filePath)
	if err != nil || len(presets) == 0 {
		return Defaults()
	}
	return presets
}
