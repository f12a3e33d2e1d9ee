package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end string) Window {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	w, err := NewWindow(s, e)
	require.NoError(t, err)
	return w
}

func TestNewWindow_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewWindow(now, now)
	assert.ErrorIs(t, err, ErrInvalidWindow, "end == start")

	_, err = NewWindow(now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidWindow, "end < start")

	_, err = NewWindow(time.Time{}, now)
	assert.ErrorIs(t, err, ErrInvalidWindow, "zero start")

	_, err = NewWindow(now, now.Add(time.Hour))
	assert.NoError(t, err)
}

func TestWindow_Overlaps_HalfOpen(t *testing.T) {
	base := mustWindow(t, "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z")

	cases := []struct {
		name  string
		other Window
		want  bool
	}{
		{"identical", mustWindow(t, "2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z"), true},
		{"contained", mustWindow(t, "2026-09-01T10:30:00Z", "2026-09-01T11:30:00Z"), true},
		{"overlaps start", mustWindow(t, "2026-09-01T09:00:00Z", "2026-09-01T10:30:00Z"), true},
		{"overlaps end", mustWindow(t, "2026-09-01T11:30:00Z", "2026-09-01T13:00:00Z"), true},
		{"adjacent after", mustWindow(t, "2026-09-01T12:00:00Z", "2026-09-01T14:00:00Z"), false},
		{"adjacent before", mustWindow(t, "2026-09-01T08:00:00Z", "2026-09-01T10:00:00Z"), false},
		{"disjoint", mustWindow(t, "2026-09-02T10:00:00Z", "2026-09-02T12:00:00Z"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestWindow_StartsBefore_Grace(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	grace := 5 * time.Minute

	w := Window{StartAt: now.Add(-3 * time.Minute), EndAt: now.Add(time.Hour)}
	assert.False(t, w.StartsBefore(now, grace), "внутри грейс-периода")

	w = Window{StartAt: now.Add(-10 * time.Minute), EndAt: now.Add(time.Hour)}
	assert.True(t, w.StartsBefore(now, grace))
}

func TestBuildCode(t *testing.T) {
	day := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "RR2608280042", BuildCode(day, 42))
	assert.Equal(t, "RR2608280001", BuildCode(day, 1))
}
