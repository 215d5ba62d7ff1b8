package device

import (
	"strings"
	"testing"
)

const procSample = `I: Bus=0011 Vendor=0001 Product=0001 Version=ab41
N: Name="AT Translated Set 2 keyboard"
P: Phys=isa0060/serio0/input0
S: Sysfs=/devices/platform/i8042/serio0/input/input3
U: Uniq=
H: Handlers=sysrq kbd leds event3
B: PROP=0
B: EV=120013

I: Bus=0018 Vendor=04f3 Product=31b9 Version=0100
N: Name="ASUE140D:00 04F3:31B9 Touchpad"
P: Phys=i2c-ASUE140D:00
S: Sysfs=/devices/pci0000:00/0000:00:15.1/i2c_designware.1/i2c-2/i2c-ASUE140D:00/0018:04F3:31B9.0001/input/input19
U: Uniq=
H: Handlers=mouse0 event14
B: PROP=5
B: EV=1b

I: Bus=0019 Vendor=0000 Product=0006 Version=0000
N: Name="Video Bus"
P: Phys=LNXVIDEO/video/input0
S: Sysfs=/devices/LNXSYSTM:00/LNXSYBUS:00/PNP0A08:00/LNXVIDEO:00/input/input6
U: Uniq=
H: Handlers=kbd event5
B: PROP=0
B: EV=3
`

func TestDetectFrom(t *testing.T) {
	info, err := detectFrom(strings.NewReader(procSample))
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "ASUE140D:00 04F3:31B9 Touchpad" {
		t.Errorf("name = %q", info.Name)
	}
	if info.EventPath != "/dev/input/event14" {
		t.Errorf("event path = %q", info.EventPath)
	}
	if info.I2CBus != 2 {
		t.Errorf("i2c bus = %d, want 2", info.I2CBus)
	}
}

func TestDetectFromElan(t *testing.T) {
	sample := strings.ReplaceAll(procSample, "ASUE140D:00 04F3:31B9", "ELAN1406:00 04F3:30A4")
	info, err := detectFrom(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(info.Name, "ELAN") {
		t.Errorf("name = %q", info.Name)
	}
}

func TestDetectFromNoTouchpad(t *testing.T) {
	sample := strings.ReplaceAll(procSample, "Touchpad", "Mouse")
	if _, err := detectFrom(strings.NewReader(sample)); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDetectFromMissingSysfsBus(t *testing.T) {
	sample := strings.ReplaceAll(procSample, "/i2c-2/", "/spi-1/")
	info, err := detectFrom(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if info.I2CBus != -1 {
		t.Errorf("i2c bus = %d, want -1 when not on an i2c adapter", info.I2CBus)
	}
}

func TestDetectFromIgnoresGenericTouchpadNames(t *testing.T) {
	sample := strings.ReplaceAll(procSample,
		"ASUE140D:00 04F3:31B9 Touchpad", "SynPS/2 Synaptics Touchpad")
	if _, err := detectFrom(strings.NewReader(sample)); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound for non ASUS touchpad", err)
	}
}
