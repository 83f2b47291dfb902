package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// standardShift is 09:00-18:00 with lunch 13:00-14:00, i.e. 8 working
// hours per day.
func standardShift() Window {
	return Window{
		Start:      9 * 60,
		End:        18 * 60,
		LunchStart: 13 * 60,
		LunchEnd:   14 * 60,
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "09:00", want: 9 * 60},
		{in: "13:30", want: 13*60 + 30},
		{in: "00:00", want: 0},
		{in: "23:59", want: 23*60 + 59},
		{in: "24:00", wantErr: true},
		{in: "9am", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClock_String(t *testing.T) {
	assert.Equal(t, "09:05", Clock(9*60+5).String())
	assert.Equal(t, "00:00", Clock(0).String())
}

func TestClock_On(t *testing.T) {
	day := time.Date(2026, 3, 2, 17, 45, 12, 99, time.UTC)
	got := Clock(9 * 60).On(day)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), got)
}

func TestClockFromDuration(t *testing.T) {
	assert.Equal(t, Clock(9*60), ClockFromDuration(9*time.Hour))
	// Durations beyond a day wrap around midnight.
	assert.Equal(t, Clock(60), ClockFromDuration(25*time.Hour))
}

func TestWindow_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Window)
		wantErr bool
	}{
		{name: "valid", mutate: func(w *Window) {}},
		{name: "end before start", mutate: func(w *Window) { w.End = 8 * 60 }, wantErr: true},
		{name: "lunch reversed", mutate: func(w *Window) { w.LunchStart, w.LunchEnd = w.LunchEnd, w.LunchStart }, wantErr: true},
		{name: "lunch before shift", mutate: func(w *Window) { w.LunchStart = 7 * 60; w.LunchEnd = 8 * 60 }, wantErr: true},
		{name: "lunch past shift end", mutate: func(w *Window) { w.LunchStart = 17 * 60; w.LunchEnd = 19 * 60 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := standardShift()
			tt.mutate(&w)
			err := w.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWindow_Project(t *testing.T) {
	w := standardShift()

	tests := []struct {
		name  string
		start time.Time
		hours float64
		want  time.Time
	}{
		{
			name:  "fits in one morning",
			start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			hours: 3,
			want:  time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "spans lunch",
			start: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			hours: 3,
			want:  time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
		},
		{
			name:  "late start carries into next day",
			start: time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC),
			hours: 10,
			want:  time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC),
		},
		{
			name:  "start before shift clamps forward",
			start: time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC),
			hours: 1,
			want:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "start after shift rolls to next day",
			start: time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC),
			hours: 1,
			want:  time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "start inside lunch",
			start: time.Date(2026, 3, 2, 13, 30, 0, 0, time.UTC),
			hours: 1,
			want:  time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
		},
		{
			name:  "multi day",
			start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			hours: 20,
			// Two full 8 hour days, then a 4 hour morning that exhausts
			// the estimate exactly at lunch start.
			want:  time.Date(2026, 3, 4, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "fractional hours truncate to minute",
			start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			hours: 1.5,
			want:  time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "zero hours returns start",
			start: time.Date(2026, 3, 2, 16, 20, 0, 0, time.UTC),
			hours: 0,
			want:  time.Date(2026, 3, 2, 16, 20, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.Project(tt.start, tt.hours)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindow_Project_Monotonic(t *testing.T) {
	w := standardShift()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	prev, err := w.Project(start, 1)
	require.NoError(t, err)

	for hours := 2.0; hours <= 24; hours++ {
		got, err := w.Project(start, hours)
		require.NoError(t, err)
		assert.True(t, got.After(prev), "projection for %v hours must land after %v hours", hours, hours-1)
		prev = got
	}
}

func TestWindow_Project_InvalidWindow(t *testing.T) {
	w := standardShift()
	w.End = 8 * 60

	_, err := w.Project(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 4)
	assert.ErrorContains(t, err, "invalid shift window")
}

func TestReminderAt(t *testing.T) {
	planned := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

	// 20% of a 10 hour estimate is 2 hours of lead.
	got := ReminderAt(planned, 10, 0.20)
	assert.Equal(t, time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC), got)

	// Fractional leads truncate to the minute.
	got = ReminderAt(planned, 1.25, 0.20)
	assert.Equal(t, time.Date(2026, 3, 2, 17, 45, 0, 0, time.UTC), got)
}
