package device

import (
	"context"
	"fmt"

	evdev "github.com/holoplot/go-evdev"

	"numpadd/internal/tap"
)

// AbsRange is the touchpad's reported coordinate space, used to scale
// the layout grid.
type AbsRange struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Touchpad wraps the opened event device.
type Touchpad struct {
	dev  *evdev.InputDevice
	info Info
}

// Open opens the detected touchpad's event node.
func Open(info Info) (*Touchpad, error) {
	dev, err := evdev.Open(info.EventPath)
	if err != nil {
		return nil, fmt.Errorf("open touchpad %s: %w", info.EventPath, err)
	}
	return &Touchpad{dev: dev, info: info}, nil
}

// Info returns the detection record the touchpad was opened from.
func (t *Touchpad) Info() Info { return t.info }

// AbsRange queries the ABS_X and ABS_Y axis bounds.
func (t *Touchpad) AbsRange() (AbsRange, error) {
	infos, err := t.dev.AbsInfos()
	if err != nil {
		return AbsRange{}, fmt.Errorf("query abs axes: %w", err)
	}
	x, okX := infos[evdev.ABS_X]
	y, okY := infos[evdev.ABS_Y]
	if !okX || !okY {
		return AbsRange{}, fmt.Errorf("touchpad %s reports no absolute axes", t.info.Name)
	}
	return AbsRange{
		MinX: float64(x.Minimum), MaxX: float64(x.Maximum),
		MinY: float64(y.Minimum), MaxY: float64(y.Maximum),
	}, nil
}

// Grab takes the touchpad exclusively: the compositor stops seeing its
// events, so touches cannot both type digits and move the pointer.
func (t *Touchpad) Grab() error {
	if err := t.dev.Grab(); err != nil {
		return fmt.Errorf("grab touchpad: %w", err)
	}
	return nil
}

// Ungrab releases the exclusive grab.
func (t *Touchpad) Ungrab() error {
	if err := t.dev.Ungrab(); err != nil {
		return fmt.Errorf("ungrab touchpad: %w", err)
	}
	return nil
}

// Stream reads the touchpad until the device fails or ctx is
// cancelled, sending translated events on out. A read error is fatal:
// it usually means the device went away, and the caller should exit so
// the service manager can restart against the replug.
func (t *Touchpad) Stream(ctx context.Context, out chan<- tap.Event) error {
	for {
		ev, err := t.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read touchpad: %w", err)
		}
		tev, ok := translate(ev)
		if !ok {
			continue
		}
		select {
		case out <- tev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close releases the event node.
func (t *Touchpad) Close() error {
	return t.dev.Close()
}
