package utils

import "time"

// Timer measures the wall-clock time of one operation.
type Timer struct {
	start    time.Time
	duration time.Duration
}

// NewTimer returns a running timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop captures and returns the time elapsed since NewTimer. Calling it
// again overwrites the captured value.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the value captured by the last Stop, or zero.
func (t *Timer) Duration() time.Duration {
	return t.duration
}
