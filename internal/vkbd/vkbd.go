// Package vkbd injects keypad key events through a uinput virtual
// keyboard.
//
// Composite keys are written as one event frame: all constituent codes
// followed by a single SYN_REPORT, so the host sees the chord land
// atomically and never observes a partial press.
package vkbd

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

const (
	press   = 1
	release = 0

	// busUSB is the input bustype reported for the virtual device.
	busUSB = 0x03
)

// Keyboard is a uinput-backed virtual keyboard restricted to the codes
// a keypad layout can produce.
type Keyboard struct {
	dev *evdev.InputDevice
}

// New creates the uinput device. codes is the full set of key codes the
// layout may emit; the kernel rejects writes for undeclared codes.
func New(name string, codes []evdev.EvCode) (*Keyboard, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("virtual keyboard needs at least one key code")
	}
	dev, err := evdev.CreateDevice(name, evdev.InputID{
		BusType: busUSB,
		Vendor:  0x0b05, // ASUSTek
		Product: 0x1866,
		Version: 1,
	}, map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: codes,
	})
	if err != nil {
		return nil, fmt.Errorf("create uinput keyboard: %w", err)
	}
	return &Keyboard{dev: dev}, nil
}

// frame builds the uinput event sequence for pressing or releasing the
// given codes together: one key event per code, then SYN_REPORT.
func frame(codes []evdev.EvCode, value int32) []*evdev.InputEvent {
	events := make([]*evdev.InputEvent, 0, len(codes)+1)
	for _, code := range codes {
		events = append(events, &evdev.InputEvent{
			Type:  evdev.EV_KEY,
			Code:  code,
			Value: value,
		})
	}
	events = append(events, &evdev.InputEvent{
		Type: evdev.EV_SYN,
		Code: evdev.SYN_REPORT,
	})
	return events
}

func (k *Keyboard) write(codes []evdev.EvCode, value int32) error {
	for _, ev := range frame(codes, value) {
		if err := k.dev.WriteOne(ev); err != nil {
			return fmt.Errorf("write key event: %w", err)
		}
	}
	return nil
}

// KeyDown presses a single key.
func (k *Keyboard) KeyDown(code evdev.EvCode) error {
	return k.write([]evdev.EvCode{code}, press)
}

// KeyUp releases a single key.
func (k *Keyboard) KeyUp(code evdev.EvCode) error {
	return k.write([]evdev.EvCode{code}, release)
}

// KeyDownMulti presses all codes together, in order.
func (k *Keyboard) KeyDownMulti(codes []evdev.EvCode) error {
	return k.write(codes, press)
}

// KeyUpMulti releases all codes together, in order.
func (k *Keyboard) KeyUpMulti(codes []evdev.EvCode) error {
	return k.write(codes, release)
}

// Close destroys the virtual device.
func (k *Keyboard) Close() error {
	return k.dev.Close()
}
