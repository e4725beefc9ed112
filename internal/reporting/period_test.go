package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPeriodOf(t *testing.T) {
	tests := []struct {
		name      string
		bucket    Bucket
		weekStart time.Weekday
		day       string
		start     string
		end       string
		label     string
	}{
		{"daily", Daily, time.Monday, "2024-03-15", "2024-03-15", "2024-03-15", "2024-03-15"},
		{"iso week", Weekly, time.Monday, "2024-03-15", "2024-03-11", "2024-03-17", "Week of 2024-03-11"},
		{"iso week on monday", Weekly, time.Monday, "2024-03-11", "2024-03-11", "2024-03-17", "Week of 2024-03-11"},
		{"sunday week", Weekly, time.Sunday, "2024-03-15", "2024-03-10", "2024-03-16", "Week of 2024-03-10"},
		{"leap february", Monthly, time.Monday, "2024-02-10", "2024-02-01", "2024-02-29", "February 2024"},
		{"annual", Annual, time.Monday, "2024-07-04", "2024-01-01", "2024-12-31", "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := calendar{bucket: tt.bucket, weekStart: tt.weekStart}.periodOf(date(tt.day))
			assert.Equal(t, tt.start, p.Start.Format(time.DateOnly))
			assert.Equal(t, tt.end, p.End.Format(time.DateOnly))
			assert.Equal(t, tt.label, p.Label)
		})
	}
}

func TestPeriodsCoverRange(t *testing.T) {
	cal := calendar{bucket: Monthly, weekStart: time.Monday}
	periods := cal.periods(date("2023-11-20"), date("2024-02-03"))
	require.Len(t, periods, 4)
	assert.Equal(t, "November 2023", periods[0].Label)
	assert.Equal(t, "February 2024", periods[3].Label)

	weeks := calendar{bucket: Weekly, weekStart: time.Monday}.periods(date("2024-01-01"), date("2024-01-07"))
	assert.Len(t, weeks, 1)

	days := calendar{bucket: Daily}.periods(date("2024-01-01"), date("2024-01-01"))
	assert.Len(t, days, 1)
}

func TestDefaultStart(t *testing.T) {
	end := date("2024-06-15")
	assert.Equal(t, "2024-05-16", defaultStart(Daily, end).Format(time.DateOnly))
	assert.Equal(t, "2024-03-23", defaultStart(Weekly, end).Format(time.DateOnly))
	assert.Equal(t, "2024-01-01", defaultStart(Monthly, end).Format(time.DateOnly))
	assert.Equal(t, "2019-06-15", defaultStart(Annual, end).Format(time.DateOnly))
}

func TestParseBucket(t *testing.T) {
	b, err := ParseBucket("weekly")
	require.NoError(t, err)
	assert.Equal(t, Weekly, b)

	_, err = ParseBucket("hourly")
	assert.Error(t, err)
}
