package clock

import "time"

// Clocker is the time source for TOTP steps and cron log lines.
type Clocker interface {
	Now() time.Time
}

// Func adapts a plain function to Clocker.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// New returns the system clock, truncated to whole seconds since codes are
// derived from unix seconds anyway.
func New() Func {
	return func() time.Time { return time.Now().Truncate(time.Second) }
}

// Fixed returns a Clocker frozen at t.
func Fixed(t time.Time) Func {
	return func() time.Time { return t }
}
