// Package daemon wires the touchpad, the tap state machine, and the
// output devices into the run loop.
//
// The loop is the sole owner of the state machine: touch events,
// control requests, and power transitions are all funneled through one
// select so no mutation ever races another.
package daemon

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"numpadd/internal/backlight"
	"numpadd/internal/ipc"
	"numpadd/internal/logging"
	"numpadd/internal/tap"
)

// KeySink receives resolved key presses. Satisfied by vkbd.Keyboard.
type KeySink interface {
	KeyDownMulti(codes []evdev.EvCode) error
	KeyUpMulti(codes []evdev.EvCode) error
}

// Light controls the keypad illumination. Satisfied by
// backlight.Controller.
type Light interface {
	SetLevel(l backlight.Level) error
}

// Grabber holds or releases the exclusive touchpad grab. Satisfied by
// device.Touchpad.
type Grabber interface {
	Grab() error
	Ungrab() error
}

// controlOp is a request from the control socket, executed on the run
// loop so the state machine stays single-owner.
type controlOp struct {
	mode     string          // "on", "off", "toggle", or "" for no mode change
	level    backlight.Level // used when setLevel is true
	setLevel bool
	reply    chan controlResult
}

type controlResult struct {
	keypadOn bool
	level    backlight.Level
	err      error
}

// Daemon runs the event loop.
type Daemon struct {
	log     *logging.Logger
	machine *tap.Machine

	keys  KeySink
	light Light
	pad   Grabber

	events  <-chan tap.Event
	fatal   <-chan error
	power   <-chan bool
	control chan controlOp

	// wakeRestore remembers that the keypad was on when the machine
	// went to sleep, so resume can bring it back.
	wakeRestore bool

	startedAt  time.Time
	layoutName string
	deviceName string
	i2cBus     int
	version    string

	taps       atomic.Uint64
	toggles    atomic.Uint64
	keyPresses atomic.Uint64
}

// Options carries everything the loop needs.
type Options struct {
	Log     *logging.Logger
	Machine *tap.Machine
	Keys    KeySink
	Light   Light
	Pad     Grabber

	Events <-chan tap.Event
	Fatal  <-chan error // device stream failures
	Power  <-chan bool  // logind sleep transitions, may be nil

	LayoutName string
	DeviceName string
	I2CBus     int
	Version    string
}

// New assembles a daemon around an already-wired machine and devices.
func New(opts Options) *Daemon {
	return &Daemon{
		log:        opts.Log,
		machine:    opts.Machine,
		keys:       opts.Keys,
		light:      opts.Light,
		pad:        opts.Pad,
		events:     opts.Events,
		fatal:      opts.Fatal,
		power:      opts.Power,
		control:    make(chan controlOp),
		startedAt:  time.Now(),
		layoutName: opts.LayoutName,
		deviceName: opts.DeviceName,
		i2cBus:     opts.I2CBus,
		version:    opts.Version,
	}
}

// Run processes events until ctx is cancelled or a device fails. On
// the way out it drops keypad mode so the touchpad is never left
// grabbed with the backlight burning.
func (d *Daemon) Run(ctx context.Context) error {
	d.log.Info("daemon running",
		"device", d.deviceName,
		"layout", d.layoutName,
		"i2c_bus", d.i2cBus)

	defer d.restorePointing()

	for {
		select {
		case ev, ok := <-d.events:
			if !ok {
				return fmt.Errorf("touchpad event stream closed")
			}
			if ev.Kind == tap.KindContact && ev.Value != 0 {
				d.taps.Add(1)
			}
			if err := d.execute(d.machine.Step(ev)); err != nil {
				return err
			}

		case op := <-d.control:
			d.handleControl(op)

		case err := <-d.fatal:
			return err

		case sleeping := <-d.power:
			if err := d.handlePower(sleeping); err != nil {
				return err
			}

		case <-ctx.Done():
			d.log.Info("daemon stopping")
			return nil
		}
	}
}

// execute applies the machine's commands in order. Any device write
// failure is fatal: a half-applied toggle or a stuck key is worse than
// a restart.
func (d *Daemon) execute(cmds []tap.Command) error {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case tap.CmdKeyDown:
			d.keyPresses.Add(1)
			d.log.Debug("key down", "key", cmd.Key.Label)
			if err := d.keys.KeyDownMulti(cmd.Key.Codes); err != nil {
				return fmt.Errorf("press %s: %w", cmd.Key.Label, err)
			}
		case tap.CmdKeyUp:
			d.log.Debug("key up", "key", cmd.Key.Label)
			if err := d.keys.KeyUpMulti(cmd.Key.Codes); err != nil {
				return fmt.Errorf("release %s: %w", cmd.Key.Label, err)
			}
		case tap.CmdSetBacklight:
			d.log.Debug("backlight", "level", cmd.Level.String())
			if err := d.light.SetLevel(cmd.Level); err != nil {
				return fmt.Errorf("set backlight: %w", err)
			}
		case tap.CmdGrab:
			d.toggles.Add(1)
			d.log.Info("keypad on")
			if err := d.pad.Grab(); err != nil {
				return err
			}
		case tap.CmdUngrab:
			d.toggles.Add(1)
			d.log.Info("keypad off")
			if err := d.pad.Ungrab(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Daemon) handleControl(op controlOp) {
	var err error
	switch op.mode {
	case "":
	case "on":
		err = d.execute(d.machine.ForceMode(true))
	case "off":
		err = d.execute(d.machine.ForceMode(false))
	case "toggle":
		err = d.execute(d.machine.ForceMode(!d.machine.KeypadOn()))
	default:
		err = fmt.Errorf("unknown mode %q", op.mode)
	}
	if err == nil && op.setLevel {
		err = d.execute(d.machine.SetLevel(op.level))
	}
	op.reply <- controlResult{
		keypadOn: d.machine.KeypadOn(),
		level:    d.machine.Level(),
		err:      err,
	}
}

// handlePower drops keypad mode across suspend and restores it on
// resume. The backlight controller forgets its level while asleep and
// the firmware re-enables pointer reporting, so re-applying from
// scratch is the only reliable path.
func (d *Daemon) handlePower(sleeping bool) error {
	if sleeping {
		d.wakeRestore = d.machine.KeypadOn()
		if d.wakeRestore {
			d.log.Info("suspending, dropping keypad mode")
			return d.execute(d.machine.ForceMode(false))
		}
		return nil
	}
	if d.wakeRestore {
		d.wakeRestore = false
		d.log.Info("resumed, restoring keypad mode")
		return d.execute(d.machine.ForceMode(true))
	}
	return nil
}

// restorePointing is the shutdown path: keypad off, backlight off,
// grab released. Errors are logged and swallowed; the process is
// exiting either way.
func (d *Daemon) restorePointing() {
	if !d.machine.KeypadOn() {
		return
	}
	if err := d.execute(d.machine.ForceMode(false)); err != nil {
		d.log.Warn("restore pointing mode", "error", err)
	}
}

// Status snapshots the daemon state for the control socket. The mode
// and level come back from a no-op control request, so the machine is
// only ever read on the run loop; counters are atomic.
func (d *Daemon) Status(ctx context.Context) (ipc.StatusResponse, error) {
	res, err := d.request(ctx, controlOp{})
	if err != nil {
		return ipc.StatusResponse{}, err
	}
	return ipc.StatusResponse{
		Running:    true,
		KeypadOn:   res.keypadOn,
		Brightness: res.level.String(),
		Layout:     d.layoutName,
		Device:     d.deviceName,
		I2CBus:     d.i2cBus,
		UptimeSec:  int64(time.Since(d.startedAt).Seconds()),
		Taps:       d.taps.Load(),
		Toggles:    d.toggles.Load(),
		KeyPresses: d.keyPresses.Load(),
		Version:    d.version,
	}, nil
}

// request runs a control operation on the loop and waits for the
// result.
func (d *Daemon) request(ctx context.Context, op controlOp) (controlResult, error) {
	op.reply = make(chan controlResult, 1)
	select {
	case d.control <- op:
	case <-ctx.Done():
		return controlResult{}, ctx.Err()
	}
	select {
	case res := <-op.reply:
		return res, res.err
	case <-ctx.Done():
		return controlResult{}, ctx.Err()
	}
}
