package hos

import (
	"sort"
	"time"

	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/timecalc"
)

// Violation codes.
const (
	CodeBreakRequired = "BREAK_REQUIRED"
	CodeDrivingLimit  = "DRIVING_LIMIT_EXCEEDED"
	CodeDutyWindow    = "DUTY_WINDOW_EXCEEDED"
	CodeCycleLimit    = "CYCLE_LIMIT_EXCEEDED"
)

var violationMessages = map[string]string{
	CodeBreakRequired: "must take a 30-minute break after 8 hours driving",
	CodeDrivingLimit:  "exceeds 11-hour driving limit",
	CodeDutyWindow:    "exceeds 14-hour duty window",
	CodeCycleLimit:    "exceeds 70-hour/8-day cycle",
}

// Detect compares each tracker snapshot against the regulated limits and
// emits one Violation per rule breach, timestamped at the instant the limit
// was crossed. A breach fires once per rule until the counter it tests is
// reset, and fires again on a new calendar day if still in breach, so
// violations are never deduplicated across days. All four checks are
// evaluated independently; several may fire at the same boundary.
//
// The 11-hour check deliberately tests cumulative duty minutes in the
// window, not pure driving minutes. See DrivingLimitMin.
func Detect(snaps []Snapshot) []model.Violation {
	violations := make([]model.Violation, 0)
	latched := map[string]bool{}
	lastDay := ""

	emit := func(code string, at time.Time) {
		violations = append(violations, model.Violation{
			Code:      code,
			Message:   violationMessages[code],
			Day:       timecalc.DayKey(at),
			Timestamp: at,
		})
		latched[code] = true
	}

	for _, s := range snaps {
		iv := s.Interval
		dur := iv.Minutes()

		// A reset that clears a counter also clears its latch, so a later
		// breach of the fresh counter is reported again.
		if iv.Status != model.StatusDriving && dur >= BreakResetMin {
			delete(latched, CodeBreakRequired)
		}
		if iv.Status.Rest() && dur >= OffDutyResetMin {
			delete(latched, CodeBreakRequired)
			delete(latched, CodeDrivingLimit)
			delete(latched, CodeDutyWindow)
		}
		// The day an interval belongs to is the day it starts; a boundary
		// landing exactly on midnight does not open a new day.
		if day := timecalc.DayKey(iv.Start); day != lastDay {
			if lastDay != "" {
				latched = map[string]bool{}
			}
			lastDay = day
		}

		if s.DrivingSinceBreakMin > BreakDrivingLimitMin && !latched[CodeBreakRequired] {
			emit(CodeBreakRequired, crossingInstant(s, s.DrivingSinceBreakMin-BreakDrivingLimitMin))
		}
		if s.DutyInWindowMin > DrivingLimitMin && !latched[CodeDrivingLimit] {
			emit(CodeDrivingLimit, crossingInstant(s, s.DutyInWindowMin-DrivingLimitMin))
		}
		if s.WindowElapsedMin > DutyWindowLimitMin && !latched[CodeDutyWindow] {
			at := s.WindowStart.Add((DutyWindowLimitMin + 1) * time.Minute)
			emit(CodeDutyWindow, clampInstant(at, iv.Start, s.At))
		}
		if s.CycleMin > CycleLimitMin && !latched[CodeCycleLimit] {
			emit(CodeCycleLimit, crossingInstant(s, s.CycleMin-CycleLimitMin))
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Timestamp.Before(violations[j].Timestamp)
	})
	return violations
}

// crossingInstant locates the minute at which an accruing counter first
// exceeded its limit within the just-completed interval: the boundary value
// is `over` minutes past the limit, so the counter crossed over-1 minutes
// before the boundary.
func crossingInstant(s Snapshot, over int) time.Time {
	at := s.At.Add(-time.Duration(over-1) * time.Minute)
	return clampInstant(at, s.Interval.Start, s.At)
}

func clampInstant(at, lo, hi time.Time) time.Time {
	if at.Before(lo) {
		return lo
	}
	if at.After(hi) {
		return hi
	}
	return at
}
