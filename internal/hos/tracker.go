package hos

import (
	"time"

	"github.com/haulstack/hoslog/internal/model"
)

// Regulated limits and reset thresholds, in minutes.
const (
	// BreakDrivingLimitMin is the driving allowed without a 30-minute break.
	BreakDrivingLimitMin = 8 * 60
	// DrivingLimitMin is the 11-hour limit. Note: the detector tests the
	// cumulative duty minutes in the window against this value, not pure
	// driving minutes. See detect.go.
	DrivingLimitMin = 11 * 60
	// DutyWindowLimitMin is the 14-hour duty window.
	DutyWindowLimitMin = 14 * 60
	// CycleLimitMin is the 70-hour/8-day cycle limit.
	CycleLimitMin = 70 * 60

	// BreakResetMin is the minimum non-driving period that zeroes the
	// driving-since-break counter.
	BreakResetMin = 30
	// OffDutyResetMin is the minimum OFF/SLEEPER_BERTH period that restarts
	// the duty window.
	OffDutyResetMin = 10 * 60

	minutesPerDay = 24 * 60
)

// cycleWindow is the span of the sliding 8-day cycle.
const cycleWindow = 8 * 24 * time.Hour

// Snapshot is the tracker state recorded at one interval boundary. The
// boundary instant is the end of Interval; all counters reflect the rules
// applied through that instant.
type Snapshot struct {
	At       time.Time
	Interval model.Interval

	// WindowStart is the instant the current duty window began. Zero when
	// no window is open (before the first on-duty activity).
	WindowStart          time.Time
	DrivingSinceBreakMin int
	DutyInWindowMin      int
	// WindowElapsedMin is measured through the end of the most recent
	// on-duty interval. Trailing rest does not extend it: a window that
	// simply expires while the driver is off duty is not a breach.
	WindowElapsedMin int
	// CycleMin is the on-duty total over the sliding 8 days ending at the
	// boundary instant.
	CycleMin int
}

// Track walks the interval sequence once, left to right, applying the reset
// and accrual rules at every boundary and returning one Snapshot per
// interval. Rule order per boundary: break reset, off-duty reset, accrual,
// window elapsed, cycle accrual.
func Track(intervals []model.Interval) []Snapshot {
	snaps := make([]Snapshot, 0, len(intervals))

	var windowStart time.Time
	var drivingSinceBreak, dutyInWindow, windowElapsed int

	for _, iv := range intervals {
		dur := iv.Minutes()

		// 1. Break reset: any non-driving period of 30+ minutes.
		if iv.Status != model.StatusDriving && dur >= BreakResetMin {
			drivingSinceBreak = 0
		}

		// 2. Off-duty reset: 10+ hours OFF or SLEEPER_BERTH restarts the
		// window at the boundary.
		if iv.Status.Rest() && dur >= OffDutyResetMin {
			windowStart = iv.End
			drivingSinceBreak = 0
			dutyInWindow = 0
			windowElapsed = 0
		}

		// 3. Accrual.
		switch iv.Status {
		case model.StatusDriving:
			drivingSinceBreak += dur
			dutyInWindow += dur
		case model.StatusOnDuty:
			dutyInWindow += dur
		}

		// 4. Window elapsed, advanced only through on-duty activity.
		if iv.Status.OnDuty() {
			if windowStart.IsZero() {
				windowStart = iv.Start
			}
			windowElapsed = int(iv.End.Sub(windowStart) / time.Minute)
		}

		// 5. Sliding 8-day cycle total at the boundary.
		snaps = append(snaps, Snapshot{
			At:                   iv.End,
			Interval:             iv,
			WindowStart:          windowStart,
			DrivingSinceBreakMin: drivingSinceBreak,
			DutyInWindowMin:      dutyInWindow,
			WindowElapsedMin:     windowElapsed,
			CycleMin:             cycleMinutesAt(intervals, iv.End),
		})
	}
	return snaps
}

// cycleMinutesAt returns the on-duty minutes accumulated in the sliding
// 8-day window ending at the given instant. Portions of intervals older
// than 8 days are excluded; this is a true sliding window, not a calendar
// bucket.
func cycleMinutesAt(intervals []model.Interval, at time.Time) int {
	from := at.Add(-cycleWindow)
	total := 0
	for _, iv := range intervals {
		if !iv.Status.OnDuty() {
			continue
		}
		start, end := iv.Start, iv.End
		if start.Before(from) {
			start = from
		}
		if end.After(at) {
			end = at
		}
		if end.After(start) {
			total += int(end.Sub(start) / time.Minute)
		}
	}
	return total
}
