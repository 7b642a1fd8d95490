package hos

import (
	"errors"
	"fmt"
	"time"

	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/timecalc"
)

// Fixed schedule-generation policy, in minutes.
const (
	dayStartHour   = 6   // every duty day begins at 06:00
	preTripMin     = 60  // ON_DUTY pre-trip inspection opening each day
	fuelingMin     = 20  // ON_DUTY fueling stop
	fuelTriggerMin = 420 // fueling inserted once 7h have been driven in a day
	genBreakMin    = 30  // OFF break restoring the driving-before-break allowance
	wrapUpMin      = 15  // ON_DUTY post-trip / drop-off closing each day
)

// minDayDrivingMin is the least driving worth opening a duty day for. Days
// whose cycle headroom cannot fit the fixed overhead plus this much driving
// become rest days instead.
const minDayDrivingMin = 30

// maxPickupMin caps the day-one loading block so the first day always
// retains room for its fixed overhead plus a minimal driving block.
const maxPickupMin = DrivingLimitMin - preTripMin - wrapUpMin - fuelingMin - minDayDrivingMin

// maxScheduleDays bounds the planning loop. Rest days let 8-day-old cycle
// minutes expire, so any requirement converges long before this.
const maxScheduleDays = 3660

// GenerateOptions configures a schedule synthesis run.
type GenerateOptions struct {
	TripID   string
	DriverID string
	// StartDay selects the first calendar day; the schedule starts at
	// 06:00 of that day. Only the date portion is used.
	StartDay time.Time
	// RequiredDrivingMin is the total DRIVING time the schedule must cover.
	RequiredDrivingMin int
	// PickupMin, when positive, inserts an ON_DUTY loading block after the
	// first day's pre-trip inspection.
	PickupMin int
}

// Schedule is a generated multi-day event sequence with its remark
// annotations. Feeding Events back through Normalize/Track/Detect yields
// zero violations; that property is re-checked before any schedule is
// persisted.
type Schedule struct {
	Events          []model.DutyEvent
	Remarks         []model.Remark
	Days            int
	TotalDrivingMin int
}

// ErrNoDrivingRequired rejects generation requests without positive
// required driving time.
var ErrNoDrivingRequired = errors.New("required driving minutes must be positive")

// GenerateSchedule synthesizes a limit-compliant duty-event sequence
// covering at least the required driving time. The plan is greedy and
// day-at-a-time: each duty day opens with a pre-trip inspection at 06:00,
// accumulates driving in blocks bounded by every remaining allowance,
// inserts the fixed fueling stop and 30-minute breaks where the policy
// requires them, and closes with a wrap-up followed by a sleeper-berth
// period reaching the next day's 06:00 start. Days the 70-hour cycle
// cannot accommodate become rest days, letting 8-day-old on-duty minutes
// expire. The generated cycle is assumed fresh at the start day.
func GenerateSchedule(opts GenerateOptions) (*Schedule, error) {
	if opts.RequiredDrivingMin <= 0 {
		return nil, ErrNoDrivingRequired
	}
	if opts.StartDay.IsZero() {
		return nil, fmt.Errorf("%w: missing start day", ErrInvalidEvent)
	}
	if opts.PickupMin < 0 || opts.PickupMin > maxPickupMin {
		return nil, fmt.Errorf("%w: pickup block must be between 0 and %d minutes", ErrInvalidEvent, maxPickupMin)
	}

	day := opts.StartDay.UTC()
	now := time.Date(day.Year(), day.Month(), day.Day(), dayStartHour, 0, 0, 0, time.UTC)

	remaining := opts.RequiredDrivingMin
	sched := &Schedule{}
	var dutySpans []model.Interval

	emit := func(status model.Status, at time.Time, activity string) {
		sched.Events = append(sched.Events, model.DutyEvent{
			ID:        timecalc.GenerateID(at),
			DriverID:  opts.DriverID,
			TripID:    opts.TripID,
			Timestamp: at,
			Status:    status,
			Source:    "generated",
		})
		if activity != "" {
			sched.Remarks = append(sched.Remarks, model.Remark{
				TripID:    opts.TripID,
				Timestamp: at,
				Activity:  activity,
			})
		}
	}
	onDuty := func(at time.Time, mins int, activity string) time.Time {
		emit(model.StatusOnDuty, at, activity)
		end := at.Add(time.Duration(mins) * time.Minute)
		dutySpans = append(dutySpans, model.Interval{Start: at, End: end, Status: model.StatusOnDuty})
		return end
	}

	dayOne := true
	for elapsedDays := 0; remaining > 0; elapsedDays++ {
		if elapsedDays > maxScheduleDays {
			return nil, fmt.Errorf("schedule generation did not converge after %d days", maxScheduleDays)
		}

		// Rest day: the cycle cannot fit this day's overhead plus a
		// minimal driving block. The previous sleeper/off status simply
		// carries forward while old cycle minutes expire.
		headroom := CycleLimitMin - cycleMinutesAt(dutySpans, now)
		if headroom < preTripMin+wrapUpMin+fuelingMin+minDayDrivingMin {
			now = now.AddDate(0, 0, 1)
			continue
		}

		windowStart := now
		now = onDuty(now, preTripMin, "Pre-trip inspection")
		dutyInWindow := preTripMin
		if dayOne && opts.PickupMin > 0 {
			now = onDuty(now, opts.PickupMin, "Pickup - loading")
			dutyInWindow += opts.PickupMin
		}

		drivenToday := 0
		sinceBreak := 0
		fueled := false

		for remaining > 0 {
			// Reserve room for the mandatory wrap-up, and for the fueling
			// stop while it is still pending, so the closing on-duty
			// blocks can never tip a counter past its limit.
			reserve := wrapUpMin
			if !fueled {
				reserve += fuelingMin
			}
			elapsed := int(now.Sub(windowStart) / time.Minute)
			block := min(
				remaining,
				DrivingLimitMin-drivenToday,
				BreakDrivingLimitMin-sinceBreak,
				DrivingLimitMin-dutyInWindow-reserve,
				DutyWindowLimitMin-elapsed-reserve,
				CycleLimitMin-cycleMinutesAt(dutySpans, now)-reserve,
			)
			if block <= 0 {
				// A 30-minute break restores the driving-before-break
				// allowance when the other allowances still permit more
				// driving today.
				if sinceBreak >= BreakDrivingLimitMin &&
					DrivingLimitMin-dutyInWindow-reserve > 0 &&
					DrivingLimitMin-drivenToday > 0 &&
					DutyWindowLimitMin-elapsed-reserve > genBreakMin &&
					CycleLimitMin-cycleMinutesAt(dutySpans, now)-reserve > 0 {
					emit(model.StatusOff, now, "30-minute break")
					now = now.Add(genBreakMin * time.Minute)
					sinceBreak = 0
					continue
				}
				break
			}

			emit(model.StatusDriving, now, "Driving")
			end := now.Add(time.Duration(block) * time.Minute)
			dutySpans = append(dutySpans, model.Interval{Start: now, End: end, Status: model.StatusDriving})
			now = end
			drivenToday += block
			sinceBreak += block
			dutyInWindow += block
			remaining -= block
			sched.TotalDrivingMin += block
			if remaining == 0 {
				break
			}

			if !fueled && drivenToday >= fuelTriggerMin {
				now = onDuty(now, fuelingMin, "Fueling")
				dutyInWindow += fuelingMin
				fueled = true
			}
		}

		if remaining > 0 {
			now = onDuty(now, wrapUpMin, "Post-trip inspection")
			emit(model.StatusSleeper, now, "Sleeper berth")
			next := timecalc.Midnight(now)
			now = time.Date(next.Year(), next.Month(), next.Day(), dayStartHour, 0, 0, 0, time.UTC)
		} else {
			now = onDuty(now, wrapUpMin, "Drop-off")
			emit(model.StatusOff, now, "Off duty")
		}
		sched.Days++
		dayOne = false
	}
	return sched, nil
}
