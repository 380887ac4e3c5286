// Package prefs holds the user preferences the inference core reads.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects whether new datum constraints drive the geometry or only
// report a measured value.
type Mode int

const (
	Driving Mode = iota
	Reference
)

func (m Mode) String() string {
	if m == Reference {
		return "reference"
	}
	return "driving"
}

// ParseMode converts "driving" or "reference" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "driving":
		return Driving, nil
	case "reference":
		return Reference, nil
	}
	return Driving, fmt.Errorf("invalid mode %q, expected driving or reference", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Mode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseMode(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*m = mode
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m Mode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// Preferences are read-only for the core.
type Preferences struct {
	PreferRadius    bool    `yaml:"prefer_radius"`
	PreferDiameter  bool    `yaml:"prefer_diameter"`
	ShowDatumDialog bool    `yaml:"show_datum_dialog"`
	ContinuousMode  bool    `yaml:"continuous_mode"`
	Mode            Mode    `yaml:"mode"`
	LabelBaseAngle  float64 `yaml:"label_base_angle"` // degrees
	LabelRandomness float64 `yaml:"label_randomness"` // degrees either side of the base angle
}

// Default returns the preferences used when no file is given.
func Default() Preferences {
	return Preferences{
		PreferRadius:    true,
		PreferDiameter:  true,
		ShowDatumDialog: false,
		ContinuousMode:  true,
		Mode:            Driving,
		LabelBaseAngle:  45,
		LabelRandomness: 15,
	}
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Preferences, error) {
	p := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Preferences{}, fmt.Errorf("failed to parse preferences: %w", err)
	}
	if p.LabelRandomness < 0 {
		return Preferences{}, fmt.Errorf("invalid preferences: label_randomness %.4g is negative", p.LabelRandomness)
	}
	return p, nil
}

// Load reads preferences from a YAML file.
func Load(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to read preferences file: %w", err)
	}
	return Parse(data)
}
