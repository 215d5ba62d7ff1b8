package tap

import "time"

const usecPerSec = 1_000_000

// Timestamp is a kernel event timestamp split into whole seconds and
// microseconds, as delivered in struct input_event. Values from a single
// device are monotonic with respect to each other.
type Timestamp struct {
	Sec  int64
	Usec int64
}

// FromDuration converts a duration into a Timestamp-shaped interval.
func FromDuration(d time.Duration) Timestamp {
	us := d.Microseconds()
	return Timestamp{Sec: us / usecPerSec, Usec: us % usecPerSec}
}

// Duration converts t, interpreted as an interval, into a time.Duration.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.Sec)*time.Second + time.Duration(t.Usec)*time.Microsecond
}

// Less reports whether t is strictly earlier than o.
func (t Timestamp) Less(o Timestamp) bool {
	if t.Sec != o.Sec {
		return t.Sec < o.Sec
	}
	return t.Usec < o.Usec
}

// Elapsed returns the interval between t and an earlier timestamp.
// When the microsecond component of t is smaller than earlier's, one
// whole second is borrowed so the result never carries a negative
// microsecond component. Equal inputs yield the zero interval.
// Defined only for t >= earlier.
func (t Timestamp) Elapsed(earlier Timestamp) Timestamp {
	if t.Usec >= earlier.Usec {
		return Timestamp{
			Sec:  t.Sec - earlier.Sec,
			Usec: t.Usec - earlier.Usec,
		}
	}
	return Timestamp{
		Sec:  t.Sec - earlier.Sec - 1,
		Usec: t.Usec + usecPerSec - earlier.Usec,
	}
}
