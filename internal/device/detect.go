// Package device finds and wraps the touchpad: discovery through
// /proc/bus/input/devices, exclusive grab, absolute axis ranges, and
// the blocking event stream the tap state machine consumes.
package device

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotFound is returned when no supported touchpad is present.
var ErrNotFound = errors.New("no supported touchpad found")

// Info describes a detected touchpad.
type Info struct {
	// Name is the kernel device name, e.g. "ASUE140D:00 04F3:31B9 Touchpad".
	Name string
	// EventPath is the /dev/input/eventN node.
	EventPath string
	// I2CBus is the designware adapter number the touchpad (and its
	// backlight) hangs off, parsed from the Sysfs path.
	I2CBus int
}

var (
	// Supported touchpads register as "<vendor-id> ... Touchpad" with
	// an ASUE (ASUS) or ELAN prefix.
	touchpadName = regexp.MustCompile(`^(ASUE|ELAN)\w*:\d+ .* Touchpad$`)
	i2cBusPath   = regexp.MustCompile(`/i2c-(\d+)/`)
)

// Detect scans /proc/bus/input/devices for a supported touchpad.
func Detect() (Info, error) {
	f, err := os.Open("/proc/bus/input/devices")
	if err != nil {
		return Info{}, fmt.Errorf("open input device list: %w", err)
	}
	defer f.Close()
	return detectFrom(f)
}

// detectFrom parses the /proc/bus/input/devices format: blank-line
// separated blocks of single-letter-prefixed lines.
func detectFrom(r io.Reader) (Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, fmt.Errorf("read input device list: %w", err)
	}

	for _, block := range strings.Split(string(data), "\n\n") {
		var name, event, sysfs string
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "N: Name="):
				name = strings.Trim(strings.TrimPrefix(line, "N: Name="), "\"")
			case strings.HasPrefix(line, "S: Sysfs="):
				sysfs = strings.TrimPrefix(line, "S: Sysfs=")
			case strings.HasPrefix(line, "H: Handlers="):
				for _, h := range strings.Fields(strings.TrimPrefix(line, "H: Handlers=")) {
					if strings.HasPrefix(h, "event") {
						event = h
					}
				}
			}
		}

		if !touchpadName.MatchString(name) || event == "" {
			continue
		}

		info := Info{
			Name:      name,
			EventPath: "/dev/input/" + event,
			I2CBus:    -1,
		}
		if m := i2cBusPath.FindStringSubmatch(sysfs); m != nil {
			info.I2CBus, _ = strconv.Atoi(m[1])
		}
		return info, nil
	}

	return Info{}, ErrNotFound
}

// List returns every input device block's name and event node, for
// `numpadd list-devices`.
func List() ([]Info, error) {
	data, err := os.ReadFile("/proc/bus/input/devices")
	if err != nil {
		return nil, fmt.Errorf("read input device list: %w", err)
	}

	var out []Info
	for _, block := range strings.Split(string(data), "\n\n") {
		var name, event string
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "N: Name="):
				name = strings.Trim(strings.TrimPrefix(line, "N: Name="), "\"")
			case strings.HasPrefix(line, "H: Handlers="):
				for _, h := range strings.Fields(strings.TrimPrefix(line, "H: Handlers=")) {
					if strings.HasPrefix(h, "event") {
						event = h
					}
				}
			}
		}
		if name == "" || event == "" {
			continue
		}
		out = append(out, Info{Name: name, EventPath: "/dev/input/" + event, I2CBus: -1})
	}
	return out, nil
}
