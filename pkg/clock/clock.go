package clock

import "time"

// Clock abstracts wall-clock readings so services can be tested with a
// deterministic time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real clock. Readings are UTC and truncated to whole
// seconds to match the wire format's granularity.
type SystemClock struct{}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Time
}
