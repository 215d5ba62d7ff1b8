package layout

import (
	"fmt"
	"os"
	"strings"

	evdev "github.com/holoplot/go-evdev"
	"gopkg.in/yaml.v3"
)

// modelFile is the on-disk YAML shape of a custom keypad model.
//
//	name: my-pad
//	top_offset: 0.1
//	toggle_box: {min_x: 0.95, min_y: 0.0, max_x: 1.0, max_y: 0.09}
//	rows:
//	  - [KP7, KP8, KP9, KPSLASH]
//	  - [KP4, KP5, KP6, KPASTERISK]
//	  - [KP1, KP2, KP3, KPMINUS]
//	  - [KP0, KPDOT, KPENTER, "LEFTSHIFT+5"]
//
// Cells name evdev keys with or without the KEY_ prefix; "+" joins the
// codes of a composite key; an empty cell or "-" is dead.
type modelFile struct {
	Name      string     `yaml:"name"`
	TopOffset float64    `yaml:"top_offset"`
	ToggleBox rectFile   `yaml:"toggle_box"`
	Rows      [][]string `yaml:"rows"`
}

type rectFile struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// LoadModel reads a custom keypad model from a YAML file.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Model{}, fmt.Errorf("read layout file: %w", err)
	}
	return parseModel(data)
}

func parseModel(data []byte) (Model, error) {
	var mf modelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return Model{}, fmt.Errorf("decode layout YAML: %w", err)
	}
	if mf.Name == "" {
		return Model{}, fmt.Errorf("layout file missing name")
	}

	m := Model{
		Name:      mf.Name,
		TopOffset: mf.TopOffset,
		Toggle: Rect{
			MinX: mf.ToggleBox.MinX,
			MinY: mf.ToggleBox.MinY,
			MaxX: mf.ToggleBox.MaxX,
			MaxY: mf.ToggleBox.MaxY,
		},
	}
	for i, row := range mf.Rows {
		keys := make([]Key, 0, len(row))
		for j, cell := range row {
			key, err := parseCell(cell)
			if err != nil {
				return Model{}, fmt.Errorf("layout %q row %d cell %d: %w", mf.Name, i, j, err)
			}
			keys = append(keys, key)
		}
		m.Rows = append(m.Rows, keys)
	}
	if err := m.validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func parseCell(cell string) (Key, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "-" {
		return Key{}, nil
	}
	parts := strings.Split(cell, "+")
	key := Key{Label: cell, Codes: make([]evdev.EvCode, 0, len(parts))}
	for _, part := range parts {
		code, err := resolveKeyName(strings.TrimSpace(part))
		if err != nil {
			return Key{}, err
		}
		key.Codes = append(key.Codes, code)
	}
	return key, nil
}

// resolveKeyName maps "KP7" or "KEY_KP7" to its evdev code.
func resolveKeyName(name string) (evdev.EvCode, error) {
	full := strings.ToUpper(name)
	if !strings.HasPrefix(full, "KEY_") {
		full = "KEY_" + full
	}
	if code, ok := evdev.KEYFromString[full]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key name %q", name)
}
