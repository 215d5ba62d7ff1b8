package layout

import (
	"sort"

	evdev "github.com/holoplot/go-evdev"
)

func simple(label string, code evdev.EvCode) Key {
	return Key{Label: label, Codes: []evdev.EvCode{code}}
}

func chord(label string, codes ...evdev.EvCode) Key {
	return Key{Label: label, Codes: codes}
}

// toggleCorner is the top-right region shared by the known models: the
// rightmost 5% of the surface width over the top 9% of its height.
var toggleCorner = Rect{MinX: 0.95, MinY: 0.0, MaxX: 1.0, MaxY: 0.09}

// builtins holds the per-model keypad tables. The grids mirror the
// glyphs printed on each touchpad; "%" has no evdev code of its own and
// is typed as shift+5.
var builtins = map[string]Model{
	"m433ia": {
		Name:      "m433ia",
		TopOffset: 0.1,
		Toggle:    toggleCorner,
		Rows: [][]Key{
			{simple("7", evdev.KEY_KP7), simple("8", evdev.KEY_KP8), simple("9", evdev.KEY_KP9), simple("/", evdev.KEY_KPSLASH), simple("bksp", evdev.KEY_BACKSPACE)},
			{simple("4", evdev.KEY_KP4), simple("5", evdev.KEY_KP5), simple("6", evdev.KEY_KP6), simple("*", evdev.KEY_KPASTERISK), simple("bksp", evdev.KEY_BACKSPACE)},
			{simple("1", evdev.KEY_KP1), simple("2", evdev.KEY_KP2), simple("3", evdev.KEY_KP3), simple("-", evdev.KEY_KPMINUS), chord("%", evdev.KEY_LEFTSHIFT, evdev.KEY_5)},
			{simple("0", evdev.KEY_KP0), simple(".", evdev.KEY_KPDOT), simple("enter", evdev.KEY_KPENTER), simple("+", evdev.KEY_KPPLUS), simple("=", evdev.KEY_EQUAL)},
		},
	},
	"ux433fa": {
		Name:      "ux433fa",
		TopOffset: 0.1,
		Toggle:    toggleCorner,
		Rows: [][]Key{
			{simple("7", evdev.KEY_KP7), simple("8", evdev.KEY_KP8), simple("9", evdev.KEY_KP9), simple("/", evdev.KEY_KPSLASH)},
			{simple("4", evdev.KEY_KP4), simple("5", evdev.KEY_KP5), simple("6", evdev.KEY_KP6), simple("*", evdev.KEY_KPASTERISK)},
			{simple("1", evdev.KEY_KP1), simple("2", evdev.KEY_KP2), simple("3", evdev.KEY_KP3), simple("-", evdev.KEY_KPMINUS)},
			{simple("0", evdev.KEY_KP0), simple(".", evdev.KEY_KPDOT), simple("enter", evdev.KEY_KPENTER), simple("+", evdev.KEY_KPPLUS)},
		},
	},
}

// Lookup returns the built-in model with the given name.
func Lookup(name string) (Model, bool) {
	m, ok := builtins[name]
	return m, ok
}

// Names lists the built-in model names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
