package reporting

import (
	"fmt"
	"time"
)

// Bucket is the calendar granularity of a revenue report
type Bucket string

const (
	Daily   Bucket = "daily"
	Weekly  Bucket = "weekly"
	Monthly Bucket = "monthly"
	Annual  Bucket = "annual"
)

// ParseBucket accepts the lowercase bucket names
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(s); b {
	case Daily, Weekly, Monthly, Annual:
		return b, nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// Period is one calendar bucket; Start and End are inclusive dates
type Period struct {
	Start time.Time
	End   time.Time
	Label string
}

// calendar computes bucket boundaries for a given week start
type calendar struct {
	bucket    Bucket
	weekStart time.Weekday
}

// periodOf returns the bucket containing day t
func (c calendar) periodOf(t time.Time) Period {
	d := dateOf(t)
	switch c.bucket {
	case Weekly:
		offset := (int(d.Weekday()) - int(c.weekStart) + 7) % 7
		start := d.AddDate(0, 0, -offset)
		return Period{
			Start: start,
			End:   start.AddDate(0, 0, 6),
			Label: "Week of " + start.Format(time.DateOnly),
		}
	case Monthly:
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Start: start,
			End:   start.AddDate(0, 1, -1),
			Label: start.Format("January 2006"),
		}
	case Annual:
		start := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Start: start,
			End:   time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
			Label: start.Format("2006"),
		}
	default:
		return Period{Start: d, End: d, Label: d.Format(time.DateOnly)}
	}
}

// periods lists every bucket overlapping [start, end] in ascending order
func (c calendar) periods(start, end time.Time) []Period {
	var out []Period
	for p := c.periodOf(start); !p.Start.After(dateOf(end)); p = c.periodOf(p.End.AddDate(0, 0, 1)) {
		out = append(out, p)
	}
	return out
}

// defaultStart is the start date used when a report names only an end
func defaultStart(bucket Bucket, end time.Time) time.Time {
	switch bucket {
	case Weekly:
		return end.AddDate(0, 0, -7*12)
	case Monthly:
		return time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case Annual:
		return end.AddDate(-5, 0, 0)
	default:
		return end.AddDate(0, 0, -30)
	}
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
