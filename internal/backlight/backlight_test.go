package backlight

import "testing"

func TestPayload(t *testing.T) {
	p := payload(Half)
	if len(p) != 13 {
		t.Fatalf("payload length = %d, want 13", len(p))
	}
	if p[11] != byte(Half) {
		t.Errorf("brightness byte = 0x%02x, want 0x%02x", p[11], byte(Half))
	}
	if p[0] != 0x05 || p[12] != 0xad {
		t.Errorf("frame bytes wrong: % x", p)
	}

	// Only the brightness byte may differ between levels.
	off := payload(Off)
	for i := range p {
		if i == 11 {
			continue
		}
		if p[i] != off[i] {
			t.Errorf("byte %d differs between levels: 0x%02x vs 0x%02x", i, p[i], off[i])
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", Off, false},
		{"zero", Off, false},
		{"low", Low, false},
		{"half", Half, false},
		{"Medium", Half, false},
		{"FULL", Full, false},
		{"high", Full, false},
		{"bright", Off, true},
		{"", Off, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	for _, l := range []Level{Off, Low, Half, Full} {
		parsed, err := ParseLevel(l.String())
		if err != nil || parsed != l {
			t.Errorf("round trip %v -> %q -> %v (%v)", l, l.String(), parsed, err)
		}
	}
}
