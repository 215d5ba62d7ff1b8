package device

import (
	evdev "github.com/holoplot/go-evdev"

	"numpadd/internal/tap"
)

// translate maps a raw touchpad event to the reduced vocabulary the
// state machine consumes. Events the machine does not care about map
// to ok=false and are dropped at the read loop.
func translate(ev *evdev.InputEvent) (tap.Event, bool) {
	out := tap.Event{
		Time: tap.Timestamp{
			Sec:  int64(ev.Time.Sec),
			Usec: int64(ev.Time.Usec),
		},
		Value: ev.Value,
	}

	switch ev.Type {
	case evdev.EV_ABS:
		switch ev.Code {
		case evdev.ABS_MT_POSITION_X:
			out.Kind = tap.KindPosX
			return out, true
		case evdev.ABS_MT_POSITION_Y:
			out.Kind = tap.KindPosY
			return out, true
		}
	case evdev.EV_KEY:
		if ev.Code == evdev.BTN_TOOL_FINGER {
			out.Kind = tap.KindContact
			return out, true
		}
	case evdev.EV_MSC:
		if ev.Code == evdev.MSC_TIMESTAMP {
			out.Kind = tap.KindTick
			return out, true
		}
	}
	return tap.Event{}, false
}
