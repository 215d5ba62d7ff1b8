package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Wait blocks until a supported touchpad appears, watching /dev/input
// for new event nodes. The i2c-hid driver can come up after the
// service on boot, so an initial miss is normal. A zero timeout waits
// forever.
func Wait(ctx context.Context, timeout time.Duration) (Info, error) {
	if info, err := Detect(); err == nil {
		return info, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Info{}, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Info{}, fmt.Errorf("create device watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add("/dev/input"); err != nil {
		return Info{}, fmt.Errorf("watch /dev/input: %w", err)
	}

	// The device may have appeared between the first probe and the
	// watch registration.
	if info, err := Detect(); err == nil {
		return info, nil
	}

	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return Info{}, fmt.Errorf("device watcher closed")
			}
			if !ev.Has(fsnotify.Create) || !strings.Contains(ev.Name, "event") {
				continue
			}
			info, err := Detect()
			if err == nil {
				return info, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return Info{}, err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return Info{}, fmt.Errorf("device watcher closed")
			}
			return Info{}, fmt.Errorf("device watcher: %w", err)
		case <-deadline:
			return Info{}, fmt.Errorf("no supported touchpad appeared within %s", timeout)
		case <-ctx.Done():
			return Info{}, ctx.Err()
		}
	}
}
