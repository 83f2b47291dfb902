package workitem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurrence_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     Recurrence
		wantErr string
	}{
		{
			name: "valid daily",
			rec:  Daily{Hours: []int{9, 14}},
		},
		{
			name:    "daily without hours",
			rec:     Daily{},
			wantErr: "at least one hour is required",
		},
		{
			name:    "daily hour out of range",
			rec:     Daily{Hours: []int{9, 24}},
			wantErr: "hour must be between 0 and 23",
		},
		{
			name:    "daily duplicate hour",
			rec:     Daily{Hours: []int{9, 9}},
			wantErr: "each hour must be unique",
		},
		{
			name: "valid weekly",
			rec:  Weekly{Weekdays: []time.Weekday{time.Monday}, Hours: []int{10}, Every: 1},
		},
		{
			name:    "weekly without weekdays",
			rec:     Weekly{Hours: []int{10}, Every: 1},
			wantErr: "at least one weekday is required",
		},
		{
			name:    "weekly zero interval",
			rec:     Weekly{Weekdays: []time.Weekday{time.Monday}, Hours: []int{10}},
			wantErr: "interval must be at least 1",
		},
		{
			name: "monthly last day of month",
			rec:  MonthlyByDate{Days: []int{LastDayOfMonth}, Hours: []int{9}, Every: 1},
		},
		{
			name:    "monthly day zero",
			rec:     MonthlyByDate{Days: []int{0}, Hours: []int{9}, Every: 1},
			wantErr: "day must be -1 (last day) or between 1 and 31",
		},
		{
			name:    "monthly day 32",
			rec:     MonthlyByDate{Days: []int{32}, Hours: []int{9}, Every: 1},
			wantErr: "day must be -1 (last day) or between 1 and 31",
		},
		{
			name:    "monthly duplicate day",
			rec:     MonthlyByDate{Days: []int{15, 15}, Hours: []int{9}, Every: 1},
			wantErr: "each day must be unique",
		},
		{
			name: "valid monthly by day",
			rec: MonthlyByDay{
				Occurrences: []Occurrence{{Weekday: time.Tuesday, Week: WeekSecond}},
				Hours:       []int{9},
				Every:       1,
			},
		},
		{
			name: "monthly by day unknown week order",
			rec: MonthlyByDay{
				Occurrences: []Occurrence{{Weekday: time.Tuesday, Week: WeekOrder("fifth")}},
				Hours:       []int{9},
				Every:       1,
			},
			wantErr: "unknown week order",
		},
		{
			name: "valid yearly",
			rec:  Yearly{Months: []time.Month{time.June}, Days: []int{15}, Hours: []int{9}, Every: 1},
		},
		{
			name:    "yearly duplicate month",
			rec:     Yearly{Months: []time.Month{time.June, time.June}, Days: []int{15}, Hours: []int{9}, Every: 1},
			wantErr: "each month must be unique",
		},
		{
			name: "one time has nothing to validate",
			rec:  OneTime{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMarshalRecurrence_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  Recurrence
	}{
		{"one time", OneTime{}},
		{"daily", Daily{Hours: []int{9, 14}}},
		{"weekly", Weekly{Weekdays: []time.Weekday{time.Monday, time.Thursday}, Hours: []int{10}, Every: 2}},
		{"monthly by date", MonthlyByDate{Days: []int{1, 15, LastDayOfMonth}, Hours: []int{9}, Every: 1}},
		{"monthly by day", MonthlyByDay{Occurrences: []Occurrence{{Weekday: time.Friday, Week: WeekLast}}, Hours: []int{16}, Every: 1}},
		{"yearly", Yearly{Months: []time.Month{time.February}, Days: []int{29}, Hours: []int{8}, Every: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalRecurrence(tt.rec)
			require.NoError(t, err)

			got, err := UnmarshalRecurrence(data)
			require.NoError(t, err)
			assert.Equal(t, tt.rec, got)
		})
	}
}

func TestUnmarshalRecurrence_Defaults(t *testing.T) {
	// Absent or empty stored values mean one-time.
	got, err := UnmarshalRecurrence(nil)
	require.NoError(t, err)
	assert.Equal(t, OneTime{}, got)

	got, err = UnmarshalRecurrence([]byte(`{"kind":""}`))
	require.NoError(t, err)
	assert.Equal(t, OneTime{}, got)

	_, err = UnmarshalRecurrence([]byte(`{"kind":"hourly"}`))
	assert.ErrorContains(t, err, "unknown recurrence kind")
}

func TestWeekOrder_AnchorDay(t *testing.T) {
	tests := []struct {
		week   WeekOrder
		anchor int
		ok     bool
	}{
		{WeekFirst, 1, true},
		{WeekSecond, 7, true},
		{WeekThird, 14, true},
		{WeekFourth, 21, true},
		{WeekLast, 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.week), func(t *testing.T) {
			anchor, ok := tt.week.AnchorDay()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.anchor, anchor)
			}
		})
	}
}
