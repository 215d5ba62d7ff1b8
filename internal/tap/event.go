// Package tap implements the finger/tap interpretation state machine at
// the heart of numpadd.
//
// The machine consumes an ordered stream of touch samples and decides
// when a long stationary press in the toggle corner flips keypad mode,
// which keypad key (if any) a touch resolves to, and when key-down and
// key-up must be emitted. It owns all interpretation state and is pure:
// every Step returns the commands its transition produced, and the
// daemon executes them against the real hardware. That split keeps the
// whole temporal logic testable without a touchpad.
package tap

// Kind discriminates the event kinds the machine consumes. The upstream
// device stream carries many more evdev event types; the translator
// drops everything the machine has no transition for.
type Kind int

const (
	// KindPosX carries a new absolute X coordinate.
	KindPosX Kind = iota
	// KindPosY carries a new absolute Y coordinate.
	KindPosY
	// KindContact carries finger contact state: Value 1 on touch
	// begin, 0 on touch end.
	KindContact
	// KindTick is a timestamp-only sample used to drive the hold-to-
	// toggle duration check. The touchpad emits one per touch frame
	// (MSC_TIMESTAMP), which is the regularity the hold detection
	// depends on: while a finger rests on the surface, ticks keep
	// arriving even though position and contact do not change.
	KindTick
)

func (k Kind) String() string {
	switch k {
	case KindPosX:
		return "pos-x"
	case KindPosY:
		return "pos-y"
	case KindContact:
		return "contact"
	case KindTick:
		return "tick"
	default:
		return "unknown"
	}
}

// Event is one sample of the touch stream, already ordered by time.
type Event struct {
	Time  Timestamp
	Kind  Kind
	Value int32
}
