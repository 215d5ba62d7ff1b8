// Package backlight drives the touchpad's keypad glyph illumination over
// the I2C sideband bus.
//
// The controller speaks the vendor protocol used by ASUS touchpad
// firmware: a fixed 13-byte command written to slave address 0x15 on the
// designware I2C adapter the touchpad hangs off, with a single byte
// selecting the brightness level.
package backlight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Level is a discrete brightness level. The numeric values are the raw
// byte the firmware expects, so they are not ordered numerically.
type Level uint8

const (
	Off  Level = 0x00
	Low  Level = 0x1f
	Half Level = 0x18
	Full Level = 0x01
)

// String returns the config-facing name of the level.
func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Low:
		return "low"
	case Half:
		return "half"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("level(0x%02x)", uint8(l))
	}
}

// ParseLevel parses a level name as used in config files and numpadctl.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off", "zero":
		return Off, nil
	case "low":
		return Low, nil
	case "half", "medium":
		return Half, nil
	case "full", "high":
		return Full, nil
	default:
		return Off, fmt.Errorf("unknown backlight level: %q", s)
	}
}

const (
	// slaveAddr is the fixed I2C address of the touchpad controller.
	slaveAddr = 0x15

	// i2cSlave is the I2C_SLAVE ioctl request.
	i2cSlave = 0x0703
)

// payload builds the vendor command for the given level. Byte 11 carries
// the brightness.
func payload(l Level) []byte {
	return []byte{
		0x05, 0x00, 0x3d, 0x03, 0x06, 0x00, 0x07,
		0x00, 0x0d, 0x14, 0x03, byte(l), 0xad,
	}
}

// Controller writes brightness commands to a /dev/i2c-N adapter.
type Controller struct {
	f   *os.File
	bus int
}

// Open binds to the given I2C bus number and selects the touchpad's
// slave address.
func Open(bus int) (*Controller, error) {
	path := fmt.Sprintf("/dev/i2c-%d", bus)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, slaveAddr); err != nil {
		f.Close()
		return nil, fmt.Errorf("bind i2c slave 0x%02x on %s: %w", slaveAddr, path, err)
	}
	return &Controller{f: f, bus: bus}, nil
}

// Bus returns the bus number the controller is bound to.
func (c *Controller) Bus() int {
	return c.bus
}

// SetLevel writes one brightness command. Failures are not retried; a
// failed write means the adapter is gone and the caller should abort.
func (c *Controller) SetLevel(l Level) error {
	if _, err := c.f.Write(payload(l)); err != nil {
		return fmt.Errorf("set backlight %s on i2c-%d: %w", l, c.bus, err)
	}
	return nil
}

// Close releases the adapter handle.
func (c *Controller) Close() error {
	return c.f.Close()
}
