package device

import (
	"syscall"
	"testing"

	evdev "github.com/holoplot/go-evdev"

	"numpadd/internal/tap"
)

func raw(typ evdev.EvType, code evdev.EvCode, value int32) *evdev.InputEvent {
	return &evdev.InputEvent{
		Time:  syscall.Timeval{Sec: 42, Usec: 500000},
		Type:  typ,
		Code:  code,
		Value: value,
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   *evdev.InputEvent
		want tap.Kind
		ok   bool
	}{
		{"mt x", raw(evdev.EV_ABS, evdev.ABS_MT_POSITION_X, 512), tap.KindPosX, true},
		{"mt y", raw(evdev.EV_ABS, evdev.ABS_MT_POSITION_Y, 300), tap.KindPosY, true},
		{"finger down", raw(evdev.EV_KEY, evdev.BTN_TOOL_FINGER, 1), tap.KindContact, true},
		{"finger up", raw(evdev.EV_KEY, evdev.BTN_TOOL_FINGER, 0), tap.KindContact, true},
		{"timestamp", raw(evdev.EV_MSC, evdev.MSC_TIMESTAMP, 123456), tap.KindTick, true},
		{"single-touch x dropped", raw(evdev.EV_ABS, evdev.ABS_X, 512), 0, false},
		{"two-finger tool dropped", raw(evdev.EV_KEY, evdev.BTN_TOOL_DOUBLETAP, 1), 0, false},
		{"syn dropped", raw(evdev.EV_SYN, evdev.SYN_REPORT, 0), 0, false},
	}

	for _, tt := range tests {
		got, ok := translate(tt.in)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if got.Kind != tt.want {
			t.Errorf("%s: kind = %v, want %v", tt.name, got.Kind, tt.want)
		}
		if got.Value != tt.in.Value {
			t.Errorf("%s: value = %d, want %d", tt.name, got.Value, tt.in.Value)
		}
		if got.Time.Sec != 42 || got.Time.Usec != 500000 {
			t.Errorf("%s: time = %+v", tt.name, got.Time)
		}
	}
}
