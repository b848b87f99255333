package reconcile

import "time"

const dayLayout = "2006-01-02"

// dayOf truncates t to its calendar date, expressed as UTC midnight.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// DayKey formats a date as used in daily bucket keys.
func DayKey(t time.Time) string {
	return dayKey(dayOf(t))
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(dayLayout, s)
}

func daysBetween(from, to time.Time) []time.Time {
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// weekStart returns the Monday of d's week.
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func monthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// bucket is one calendar period [Start, End].
type bucket struct {
	Key   string
	Start time.Time
	End   time.Time
}

// buckets splits [from, to] into whole periods of the given resolution.
func buckets(res Resolution, from, to time.Time) []bucket {
	var out []bucket
	switch res {
	case Weekly:
		for s := weekStart(from); !s.After(to); s = s.AddDate(0, 0, 7) {
			out = append(out, bucket{Key: dayKey(s), Start: s, End: s.AddDate(0, 0, 6)})
		}
	case Monthly:
		for s := monthStart(from); !s.After(to); s = s.AddDate(0, 1, 0) {
			out = append(out, bucket{Key: s.Format("2006-01"), Start: s, End: s.AddDate(0, 1, -1)})
		}
	default:
		for _, d := range daysBetween(from, to) {
			out = append(out, bucket{Key: dayKey(d), Start: d, End: d})
		}
	}
	return out
}

// Window returns the calendar range a run must load records for: the
// requested range widened to whole periods plus one day of lookback for the
// opening count.
func Window(opts Options) (from, to time.Time) {
	from, to = dayOf(opts.From), dayOf(opts.To)
	if opts.Resolution == Weekly || opts.Resolution == Monthly {
		b := buckets(opts.Resolution, from, to)
		if len(b) > 0 {
			from, to = b[0].Start, b[len(b)-1].End
		}
	}
	return from.AddDate(0, 0, -1), to
}
