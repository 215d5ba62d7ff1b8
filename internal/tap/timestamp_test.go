package tap

import (
	"testing"
	"time"
)

func TestElapsed(t *testing.T) {
	tests := []struct {
		name    string
		later   Timestamp
		earlier Timestamp
		want    Timestamp
	}{
		{
			name:    "equal inputs",
			later:   Timestamp{Sec: 42, Usec: 123456},
			earlier: Timestamp{Sec: 42, Usec: 123456},
			want:    Timestamp{Sec: 0, Usec: 0},
		},
		{
			name:    "same second",
			later:   Timestamp{Sec: 10, Usec: 750000},
			earlier: Timestamp{Sec: 10, Usec: 250000},
			want:    Timestamp{Sec: 0, Usec: 500000},
		},
		{
			name:    "whole seconds",
			later:   Timestamp{Sec: 13, Usec: 100},
			earlier: Timestamp{Sec: 10, Usec: 100},
			want:    Timestamp{Sec: 3, Usec: 0},
		},
		{
			name:    "sub-second borrow",
			later:   Timestamp{Sec: 11, Usec: 100000},
			earlier: Timestamp{Sec: 10, Usec: 900000},
			want:    Timestamp{Sec: 0, Usec: 200000},
		},
		{
			name:    "borrow across multiple seconds",
			later:   Timestamp{Sec: 20, Usec: 1},
			earlier: Timestamp{Sec: 15, Usec: 999999},
			want:    Timestamp{Sec: 4, Usec: 2},
		},
	}

	for _, tt := range tests {
		got := tt.later.Elapsed(tt.earlier)
		if got != tt.want {
			t.Errorf("%s: Elapsed() = %+v, want %+v", tt.name, got, tt.want)
		}
		if got.Sec < 0 || got.Usec < 0 {
			t.Errorf("%s: negative component in %+v", tt.name, got)
		}
	}
}

func TestLess(t *testing.T) {
	tests := []struct {
		a, b Timestamp
		want bool
	}{
		{Timestamp{1, 0}, Timestamp{2, 0}, true},
		{Timestamp{2, 0}, Timestamp{1, 999999}, false},
		{Timestamp{1, 100}, Timestamp{1, 200}, true},
		{Timestamp{1, 200}, Timestamp{1, 200}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Less(tt.b); got != tt.want {
			t.Errorf("(%+v).Less(%+v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	tests := []time.Duration{
		0,
		750 * time.Millisecond,
		time.Second,
		2*time.Second + 345*time.Millisecond,
	}
	for _, d := range tests {
		ts := FromDuration(d)
		if got := ts.Duration(); got != d {
			t.Errorf("FromDuration(%v).Duration() = %v", d, got)
		}
		if ts.Usec < 0 || ts.Usec >= usecPerSec {
			t.Errorf("FromDuration(%v) usec out of range: %+v", d, ts)
		}
	}
}
