package model

import "time"

// Status is one of the four regulated duty statuses.
type Status string

const (
	StatusOff     Status = "OFF"
	StatusSleeper Status = "SLEEPER_BERTH"
	StatusDriving Status = "DRIVING"
	StatusOnDuty  Status = "ON_DUTY_NOT_DRIVING"
)

// Valid reports whether s is one of the four enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOff, StatusSleeper, StatusDriving, StatusOnDuty:
		return true
	}
	return false
}

// OnDuty reports whether s counts toward on-duty (cycle) time.
func (s Status) OnDuty() bool {
	return s == StatusDriving || s == StatusOnDuty
}

// Rest reports whether s is an off-duty status (OFF or SLEEPER_BERTH).
func (s Status) Rest() bool {
	return s == StatusOff || s == StatusSleeper
}

// DutyEvent is a point-in-time duty-status change. Events are immutable once
// persisted; the per-trip event log is the single source of truth from which
// all intervals, totals and violations are recomputed.
type DutyEvent struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id,omitempty"`
	DriverID   string    `json:"driver_id"`
	TripID     string    `json:"trip_id"`
	Timestamp  time.Time `json:"timestamp"`
	Status     Status    `json:"status"`
	Source     string    `json:"source"` // "manual", "generated", "eld"
}

// Interval is a derived time-in-status span. It is never stored; consecutive
// events are paired into intervals on every evaluation.
type Interval struct {
	Start  time.Time
	End    time.Time
	Status Status
}

// Minutes returns the interval length in whole minutes.
func (iv Interval) Minutes() int {
	return int(iv.End.Sub(iv.Start) / time.Minute)
}

// Violation is a single detected rule breach at a specific instant.
type Violation struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Day       string    `json:"day"` // YYYY-MM-DD
	Timestamp time.Time `json:"timestamp"`
}

// DailyTotals holds per-status minute totals for one calendar day.
type DailyTotals struct {
	OffMin     int `json:"off_minutes"`
	SleeperMin int `json:"sleeper_minutes"`
	DrivingMin int `json:"driving_minutes"`
	OnDutyMin  int `json:"on_duty_minutes"`
}

// Sum returns the total minutes across all four statuses.
func (t DailyTotals) Sum() int {
	return t.OffMin + t.SleeperMin + t.DrivingMin + t.OnDutyMin
}

// Remark is an annotation correlated to the event log by (trip, timestamp)
// but owned by a separate side-table, not by the event itself.
type Remark struct {
	TripID    string    `json:"trip_id"`
	Timestamp time.Time `json:"timestamp"`
	Activity  string    `json:"activity"`
	Location  string    `json:"location,omitempty"`
}
