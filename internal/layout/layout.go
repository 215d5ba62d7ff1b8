// Package layout maps touchpad surface coordinates to keypad keys.
//
// A Model describes a keypad in fractional units of the touch surface: a
// grid of key cells below a top offset, plus the toggle box in the top
// right corner whose long press flips keypad mode. A Layout is a Model
// scaled to a concrete device's absolute axis ranges and answers the
// point queries the tap state machine needs.
package layout

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

// Key is a logical keypad key. Simple keys carry one code; composite
// keys (glyphs with no dedicated evdev code, e.g. "%") carry the full
// ordered chord that must be pressed and released together.
type Key struct {
	Label string
	Codes []evdev.EvCode
}

// Composite reports whether the key must be emitted as a multi-code
// chord.
func (k Key) Composite() bool {
	return len(k.Codes) > 1
}

// IsZero reports whether the key is a dead grid cell.
func (k Key) IsZero() bool {
	return len(k.Codes) == 0
}

func (k Key) String() string {
	return k.Label
}

// Rect is an axis-aligned box, min-inclusive and max-exclusive on both
// axes.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// Model is a device-independent keypad description in fractions of the
// touch surface.
type Model struct {
	Name string

	// Rows is the key grid, top row first. All rows must have equal
	// length; a zero Key marks a dead cell.
	Rows [][]Key

	// TopOffset is the fraction of surface height above the key grid,
	// left for the toggle corner and the printed mode glyphs.
	TopOffset float64

	// Toggle is the toggle box in surface fractions. It must not
	// intersect any key cell; KeyAt enforces this by refusing to
	// resolve keys inside it.
	Toggle Rect
}

func (m Model) validate() error {
	if len(m.Rows) == 0 {
		return fmt.Errorf("model %q has no key rows", m.Name)
	}
	width := len(m.Rows[0])
	for i, row := range m.Rows {
		if len(row) != width {
			return fmt.Errorf("model %q row %d has %d cells, want %d", m.Name, i, len(row), width)
		}
	}
	if width == 0 {
		return fmt.Errorf("model %q has empty rows", m.Name)
	}
	if m.TopOffset < 0 || m.TopOffset >= 1 {
		return fmt.Errorf("model %q top offset %v out of range", m.Name, m.TopOffset)
	}
	return nil
}

// Layout is a Model scaled to a device's absolute X/Y ranges.
type Layout struct {
	model   Model
	surface Rect
	grid    Rect
	cellW   float64
	cellH   float64
	toggle  Rect
}

// New scales a model to the device coordinate space reported by the
// touchpad's absolute axis info.
func New(m Model, minX, maxX, minY, maxY float64) (*Layout, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if maxX <= minX || maxY <= minY {
		return nil, fmt.Errorf("degenerate surface %v..%v x %v..%v", minX, maxX, minY, maxY)
	}
	w := maxX - minX
	h := maxY - minY
	grid := Rect{
		MinX: minX,
		MinY: minY + h*m.TopOffset,
		MaxX: maxX,
		MaxY: maxY,
	}
	return &Layout{
		model:   m,
		surface: Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY},
		grid:    grid,
		cellW:   w / float64(len(m.Rows[0])),
		cellH:   (grid.MaxY - grid.MinY) / float64(len(m.Rows)),
		toggle: Rect{
			MinX: minX + w*m.Toggle.MinX,
			MinY: minY + h*m.Toggle.MinY,
			MaxX: minX + w*m.Toggle.MaxX,
			MaxY: minY + h*m.Toggle.MaxY,
		},
	}, nil
}

// Name returns the model name.
func (l *Layout) Name() string {
	return l.model.Name
}

// InToggleBox reports whether the point lies in the toggle corner.
func (l *Layout) InToggleBox(x, y float64) bool {
	return l.toggle.Contains(x, y)
}

// KeyAt resolves the key under the point. Points inside the toggle box
// or over dead cells resolve to nothing, so a touch that can toggle can
// never also type.
func (l *Layout) KeyAt(x, y float64) (Key, bool) {
	if l.toggle.Contains(x, y) {
		return Key{}, false
	}
	if !l.grid.Contains(x, y) {
		return Key{}, false
	}
	col := int((x - l.grid.MinX) / l.cellW)
	row := int((y - l.grid.MinY) / l.cellH)
	if row < 0 || row >= len(l.model.Rows) || col < 0 || col >= len(l.model.Rows[0]) {
		return Key{}, false
	}
	key := l.model.Rows[row][col]
	if key.IsZero() {
		return Key{}, false
	}
	return key, true
}

// Keys returns the distinct evdev codes used by the layout, for
// declaring the virtual keyboard's capabilities.
func (l *Layout) Keys() []evdev.EvCode {
	seen := make(map[evdev.EvCode]bool)
	var codes []evdev.EvCode
	for _, row := range l.model.Rows {
		for _, key := range row {
			for _, code := range key.Codes {
				if !seen[code] {
					seen[code] = true
					codes = append(codes, code)
				}
			}
		}
	}
	return codes
}
