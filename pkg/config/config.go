// Package config loads behavior defaults for the enhance runtime.
//
// The runtime works with zero configuration; a documentation or preview
// environment can override interaction defaults through an optional
// enhance.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "300ms" or "2s".
type Duration time.Duration

// UnmarshalYAML decodes a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Defaults contains the configurable behavior defaults.
type Defaults struct {
	// Disclosure configures disclosure groups.
	Disclosure DisclosureDefaults `yaml:"disclosure"`
	// Tooltip configures floating tooltips.
	Tooltip TooltipDefaults `yaml:"tooltip"`
	// Combobox configures searchable dropdowns.
	Combobox ComboboxDefaults `yaml:"combobox"`
	// Counter configures bounded counters.
	Counter CounterDefaults `yaml:"counter"`
}

// DisclosureDefaults configures disclosure groups.
type DisclosureDefaults struct {
	// SingleSelect makes every disclosure group collapse siblings when a
	// panel opens. The shipped default is multi-select; single-select is
	// opt-in to preserve plain disclosure semantics for existing markup.
	// Do not flip this default.
	SingleSelect bool `yaml:"single_select"`
}

// TooltipDefaults configures floating tooltips.
type TooltipDefaults struct {
	// OpenDelay is how long a pointer must hover before the tooltip
	// opens.
	OpenDelay Duration `yaml:"open_delay"`
}

// ComboboxDefaults configures searchable dropdowns.
type ComboboxDefaults struct {
	// FilterDelay debounces filtering while the user types.
	FilterDelay Duration `yaml:"filter_delay"`
}

// CounterDefaults configures bounded counters.
type CounterDefaults struct {
	// Limit is the character limit used when a host does not declare its
	// own data-limit.
	Limit int `yaml:"limit"`
}

// Standard returns the shipped defaults.
func Standard() Defaults {
	return Defaults{
		Tooltip:  TooltipDefaults{OpenDelay: Duration(300 * time.Millisecond)},
		Combobox: ComboboxDefaults{FilterDelay: Duration(100 * time.Millisecond)},
		Counter:  CounterDefaults{Limit: 200},
	}
}

// Parse decodes YAML configuration over the shipped defaults.
func Parse(data []byte) (Defaults, error) {
	d := Standard()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Standard(), fmt.Errorf("failed to parse enhance config: %w", err)
	}
	return d, nil
}

// LoadOptional reads enhance.yaml from dir if present; a missing file
// returns the shipped defaults.
func LoadOptional(dir string) (Defaults, error) {
	path := filepath.Join(dir, "enhance.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Standard(), nil
		}
		return Standard(), fmt.Errorf("failed to read enhance.yaml: %w", err)
	}
	return Parse(data)
}
