package clock

import "time"

// Clock abstracts the current time so that services can be tested against
// a frozen instant.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// FixedAt is a convenience constructor for tests.
func FixedAt(t time.Time) Fixed { return Fixed{T: t} }
