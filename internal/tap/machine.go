package tap

import (
	"time"

	"numpadd/internal/backlight"
	"numpadd/internal/layout"
)

// Oracle answers the two point queries the machine needs from the
// keypad layout. Implementations must keep the toggle box disjoint from
// key cells: KeyAt never resolves a key inside the box.
type Oracle interface {
	KeyAt(x, y float64) (layout.Key, bool)
	InToggleBox(x, y float64) bool
}

// Phase is the touch-tracking phase of the machine. It makes the
// original enum-plus-suppression-flag encoding explicit: each phase
// names one distinct behavior of the current physical touch.
type Phase int

const (
	// PhaseIdle: no contact.
	PhaseIdle Phase = iota
	// PhaseAwaitingKey: contact began outside the toggle box; in
	// keypad mode the next step may resolve it to a key.
	PhaseAwaitingKey
	// PhasePendingToggle: contact began inside the toggle box and the
	// hold timer is running.
	PhasePendingToggle
	// PhaseSuppressed: the touch can neither toggle nor type anymore
	// (the toggle fired, or the finger left the box mid-hold); inert
	// until lift.
	PhaseSuppressed
	// PhaseKeyHeld: a key was resolved and its key-down emitted; the
	// matching key-up is owed on lift.
	PhaseKeyHeld
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingKey:
		return "awaiting-key"
	case PhasePendingToggle:
		return "pending-toggle"
	case PhaseSuppressed:
		return "suppressed"
	case PhaseKeyHeld:
		return "key-held"
	default:
		return "invalid"
	}
}

// CommandKind discriminates the side effects a transition requests.
type CommandKind int

const (
	CmdKeyDown CommandKind = iota
	CmdKeyUp
	CmdSetBacklight
	CmdGrab
	CmdUngrab
)

// Command is one side effect for the daemon to execute, in order.
type Command struct {
	Kind  CommandKind
	Key   layout.Key
	Level backlight.Level
}

// Machine is the tap interpretation state machine. It is not safe for
// concurrent use; exactly one goroutine owns it for the process
// lifetime.
type Machine struct {
	oracle Oracle
	hold   Timestamp
	level  backlight.Level

	phase    Phase
	x, y     float64
	keypadOn bool
	tapStart Timestamp
	heldKey  layout.Key
}

// NewMachine creates a machine in pointing mode with no contact. hold
// is the minimum stationary press inside the toggle box that flips
// keypad mode; level is the backlight level restored on enable.
func NewMachine(oracle Oracle, hold time.Duration, level backlight.Level) *Machine {
	return &Machine{
		oracle: oracle,
		hold:   FromDuration(hold),
		level:  level,
		phase:  PhaseIdle,
	}
}

// Phase returns the current touch phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// KeypadOn reports whether keypad mode is active.
func (m *Machine) KeypadOn() bool {
	return m.keypadOn
}

// Level returns the configured on-level for the backlight.
func (m *Machine) Level() backlight.Level {
	return m.level
}

// Step processes one event and returns the commands the transition
// produced. Events must arrive in time order; the machine never blocks
// and never touches hardware.
func (m *Machine) Step(ev Event) []Command {
	var cmds []Command

	switch ev.Kind {
	case KindPosX:
		m.x = float64(ev.Value)

	case KindPosY:
		m.y = float64(ev.Value)

	case KindContact:
		if ev.Value != 0 {
			cmds = m.contactBegin(ev.Time, cmds)
		} else {
			cmds = m.contactEnd(cmds)
		}

	case KindTick:
		cmds = m.tick(ev.Time, cmds)
	}

	// Key resolution runs after every event so a touch commits to a
	// key as soon as keypad mode and position line up. It fires at
	// most once per physical touch: the phase leaves AwaitingKey the
	// moment a key resolves.
	if m.keypadOn && m.phase == PhaseAwaitingKey {
		if key, ok := m.oracle.KeyAt(m.x, m.y); ok {
			m.phase = PhaseKeyHeld
			m.heldKey = key
			cmds = append(cmds, Command{Kind: CmdKeyDown, Key: key})
		}
	}

	return cmds
}

// contactBegin starts tracking a new touch. A begin while a touch is
// already tracked carries no new information and is ignored.
func (m *Machine) contactBegin(t Timestamp, cmds []Command) []Command {
	if m.phase != PhaseIdle {
		return cmds
	}
	m.tapStart = t
	if m.oracle.InToggleBox(m.x, m.y) {
		m.phase = PhasePendingToggle
	} else {
		m.phase = PhaseAwaitingKey
	}
	return cmds
}

// contactEnd ends the touch. The held key, if any, is released exactly
// once here; this is the only place a key-up is emitted.
func (m *Machine) contactEnd(cmds []Command) []Command {
	if m.phase == PhaseKeyHeld {
		cmds = append(cmds, Command{Kind: CmdKeyUp, Key: m.heldKey})
		m.heldKey = layout.Key{}
	}
	m.phase = PhaseIdle
	return cmds
}

// tick evaluates the hold-to-toggle timer. Only a touch still pending a
// toggle cares about ticks; leaving the box cancels the candidacy for
// the rest of the touch, and a fired toggle suppresses itself the same
// way so holding through the threshold flips the mode exactly once.
func (m *Machine) tick(t Timestamp, cmds []Command) []Command {
	if m.phase != PhasePendingToggle {
		return cmds
	}
	if !m.oracle.InToggleBox(m.x, m.y) {
		m.phase = PhaseSuppressed
		return cmds
	}
	if t.Elapsed(m.tapStart).Less(m.hold) {
		return cmds
	}
	m.phase = PhaseSuppressed
	return m.toggle(cmds)
}

// toggle flips keypad mode. Enabling lights the keypad and grabs the
// raw device so native pointer reporting stops; disabling reverses
// both. Long presses in the toggle box work in both modes because the
// box never resolves to a key.
func (m *Machine) toggle(cmds []Command) []Command {
	m.keypadOn = !m.keypadOn
	if m.keypadOn {
		return append(cmds,
			Command{Kind: CmdSetBacklight, Level: m.level},
			Command{Kind: CmdGrab},
		)
	}
	return append(cmds,
		Command{Kind: CmdSetBacklight, Level: backlight.Off},
		Command{Kind: CmdUngrab},
	)
}

// ForceMode sets keypad mode directly, for the control socket. It
// reuses the toggle path so the backlight and grab stay consistent
// with the mode flag. A no-op request returns no commands.
func (m *Machine) ForceMode(on bool) []Command {
	if m.keypadOn == on {
		return nil
	}
	return m.toggle(nil)
}

// SetLevel changes the configured on-level. While keypad mode is
// active the new level is applied immediately.
func (m *Machine) SetLevel(l backlight.Level) []Command {
	m.level = l
	if !m.keypadOn {
		return nil
	}
	return []Command{{Kind: CmdSetBacklight, Level: l}}
}
