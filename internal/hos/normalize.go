// Package hos implements the Hours-of-Service compliance engine: a pure,
// side-effect-free pipeline that turns a trip's duty-event log into
// time-in-status intervals, rolling-window state, violations and daily
// totals, plus the inverse schedule generator. The package has no
// environment-specific dependencies so the same rules serve both the
// write-path validator and read-only reporting.
package hos

import (
	"fmt"
	"sort"
	"time"

	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/timecalc"
)

// NormalizeOptions controls the synthetic boundary handling of Normalize.
type NormalizeOptions struct {
	// SeedDayStart synthesizes an OFF interval from 00:00 of the first
	// event's day when no event exists at that boundary.
	SeedDayStart bool
	// CompleteDays extends the final status to 24:00 of its day. When
	// disabled, a 1-minute stub is appended instead so the sequence never
	// ends mid-interval.
	CompleteDays bool
}

// DefaultNormalize is the policy used for reports and dashboards.
var DefaultNormalize = NormalizeOptions{SeedDayStart: true, CompleteDays: true}

// Normalize sorts a trip's duty events and pairs them into a gapless,
// strictly ordered interval sequence. Adjacent intervals with the same
// status are coalesced so that reset rules see continuous periods rather
// than bookkeeping splits. The transform is pure; the input slice is not
// modified.
func Normalize(events []model.DutyEvent, opts NormalizeOptions) ([]model.Interval, error) {
	if len(events) == 0 {
		return nil, nil
	}

	sorted := make([]model.DutyEvent, len(events))
	copy(sorted, events)
	for _, ev := range sorted {
		if ev.Timestamp.IsZero() {
			return nil, fmt.Errorf("%w: missing timestamp (event %s)", ErrInvalidEvent, ev.ID)
		}
		if !ev.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q (event %s)", ErrInvalidEvent, ev.Status, ev.ID)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Timestamp.Equal(sorted[i-1].Timestamp) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTimestamp,
				sorted[i].Timestamp.UTC().Format(time.RFC3339))
		}
	}

	type point struct {
		at     time.Time
		status model.Status
	}
	points := make([]point, 0, len(sorted)+1)

	first := sorted[0].Timestamp
	if opts.SeedDayStart && first.After(timecalc.StartOfDay(first)) {
		points = append(points, point{timecalc.StartOfDay(first), model.StatusOff})
	}
	for _, ev := range sorted {
		points = append(points, point{ev.Timestamp, ev.Status})
	}

	last := sorted[len(sorted)-1].Timestamp
	end := last.Add(time.Minute)
	if opts.CompleteDays {
		end = timecalc.Midnight(last)
	}

	intervals := make([]model.Interval, 0, len(points))
	for i, p := range points {
		segEnd := end
		if i+1 < len(points) {
			segEnd = points[i+1].at
		}
		if !segEnd.After(p.at) {
			continue
		}
		if n := len(intervals); n > 0 && intervals[n-1].Status == p.status {
			intervals[n-1].End = segEnd
			continue
		}
		intervals = append(intervals, model.Interval{Start: p.at, End: segEnd, Status: p.status})
	}
	return intervals, nil
}

// CheckCoverage verifies that every calendar day touched by the interval
// sequence is covered for the full 1440 minutes. It returns an
// *IncompleteDayError for the first day that falls short.
func CheckCoverage(intervals []model.Interval) error {
	covered := map[string]int{}
	var days []string
	for _, iv := range intervals {
		cur := iv.Start
		for cur.Before(iv.End) {
			segEnd := timecalc.Midnight(cur)
			if iv.End.Before(segEnd) {
				segEnd = iv.End
			}
			day := timecalc.DayKey(cur)
			if _, seen := covered[day]; !seen {
				days = append(days, day)
			}
			covered[day] += int(segEnd.Sub(cur) / time.Minute)
			cur = segEnd
		}
	}
	sort.Strings(days)
	for _, day := range days {
		if covered[day] != minutesPerDay {
			return &IncompleteDayError{Day: day, CoveredMin: covered[day]}
		}
	}
	return nil
}
