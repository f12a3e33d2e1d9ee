package domain

import (
	"errors"
	"time"
)

// ErrInvalidWindow is returned when a rental window has end <= start
var ErrInvalidWindow = errors.New("domain: window end must be after start")

// Window is a half-open rental interval [StartAt, EndAt).
// A dropoff at 18:00 never conflicts with a pickup at 18:00.
type Window struct {
	StartAt time.Time
	EndAt   time.Time
}

// NewWindow builds a validated window
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{StartAt: start, EndAt: end}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate checks the end > start invariant
func (w Window) Validate() error {
	if w.StartAt.IsZero() || w.EndAt.IsZero() {
		return ErrInvalidWindow
	}
	if !w.EndAt.After(w.StartAt) {
		return ErrInvalidWindow
	}
	return nil
}

// Overlaps reports whether two half-open windows conflict:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1
func (w Window) Overlaps(other Window) bool {
	return w.StartAt.Before(other.EndAt) && other.StartAt.Before(w.EndAt)
}

// Duration returns the length of the window
func (w Window) Duration() time.Duration {
	return w.EndAt.Sub(w.StartAt)
}

// StartsBefore reports whether the window starts before the given
// instant minus the grace period. Used to reject windows in the past
// while tolerating small clock skew between caller and engine.
func (w Window) StartsBefore(now time.Time, grace time.Duration) bool {
	return w.StartAt.Before(now.Add(-grace))
}
