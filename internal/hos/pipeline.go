package hos

import (
	"github.com/haulstack/hoslog/internal/model"
)

// Report is the validation output consumed by reporting and dashboards:
// daily totals plus the chronological violation list. A compliant history
// yields an empty (never nil) Violations slice.
type Report struct {
	Daily      []DaySummary      `json:"daily"`
	Violations []model.Violation `json:"violations"`
}

// Evaluate runs the full Normalizer -> Tracker -> Detector pipeline over a
// trip's event log. It is a pure function of the events: evaluating the
// same committed log twice yields identical reports.
func Evaluate(events []model.DutyEvent, opts NormalizeOptions) (*Report, error) {
	intervals, err := Normalize(events, opts)
	if err != nil {
		return nil, err
	}
	return &Report{
		Daily:      SummarizeDays(intervals),
		Violations: Detect(Track(intervals)),
	}, nil
}

// checkOptions is the write-path policy: seed the day start but close the
// prospective sequence with a minimal stub rather than projecting the
// candidate status to the end of the day.
var checkOptions = NormalizeOptions{SeedDayStart: true, CompleteDays: false}

// CheckAppend validates a single candidate event against a committed
// history before it is durably accepted. The prospective sequence
// (committed events plus the candidate) is evaluated through the same
// pipeline as reporting; any violation not already present in the
// committed history rejects the write via *ComplianceError. Malformed
// candidates, including duplicate timestamps, are rejected with
// ErrInvalidEvent. The check fails closed: it never repairs ambiguous
// input.
func CheckAppend(committed []model.DutyEvent, candidate model.DutyEvent) error {
	existing, err := Evaluate(committed, checkOptions)
	if err != nil {
		return err
	}

	prospective := make([]model.DutyEvent, 0, len(committed)+1)
	prospective = append(prospective, committed...)
	prospective = append(prospective, candidate)

	next, err := Evaluate(prospective, checkOptions)
	if err != nil {
		return err
	}

	known := map[string]bool{}
	for _, v := range existing.Violations {
		known[v.Code+"@"+v.Timestamp.UTC().String()] = true
	}
	var introduced []model.Violation
	for _, v := range next.Violations {
		if !known[v.Code+"@"+v.Timestamp.UTC().String()] {
			introduced = append(introduced, v)
		}
	}
	if len(introduced) > 0 {
		return &ComplianceError{Violations: introduced}
	}
	return nil
}
