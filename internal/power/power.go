// Package power watches logind for suspend and resume transitions.
//
// The touchpad's backlight controller loses its state across suspend,
// and the firmware re-enables the pad's pointer function. The daemon
// subscribes here so it can drop keypad mode before sleep and restore
// it after resume.
package power

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	logindService   = "org.freedesktop.login1"
	logindPath      = "/org/freedesktop/login1"
	logindInterface = "org.freedesktop.login1.Manager"
	sleepSignal     = logindInterface + ".PrepareForSleep"
)

// Monitor delivers PrepareForSleep transitions: true when the machine
// is about to suspend, false after it resumes.
type Monitor struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	out     chan bool
}

// NewMonitor connects to the system bus and subscribes to logind's
// sleep signal. Running without a system bus (containers, tests) is
// not an error worth dying for, so callers may treat failure as a
// degraded mode.
func NewMonitor() (*Monitor, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(logindPath),
		dbus.WithMatchInterface(logindInterface),
		dbus.WithMatchMember("PrepareForSleep"),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe to sleep signal: %w", err)
	}

	m := &Monitor{
		conn:    conn,
		signals: make(chan *dbus.Signal, 8),
		out:     make(chan bool, 2),
	}
	conn.Signal(m.signals)
	return m, nil
}

// Events returns the transition channel.
func (m *Monitor) Events() <-chan bool { return m.out }

// Run pumps bus signals into the transition channel until ctx ends or
// the bus connection drops.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		select {
		case sig, ok := <-m.signals:
			if !ok {
				return fmt.Errorf("system bus connection lost")
			}
			if sig.Name != sleepSignal || len(sig.Body) != 1 {
				continue
			}
			sleeping, ok := sig.Body[0].(bool)
			if !ok {
				continue
			}
			select {
			case m.out <- sleeping:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close tears down the bus connection.
func (m *Monitor) Close() error {
	m.conn.RemoveSignal(m.signals)
	return m.conn.Close()
}
