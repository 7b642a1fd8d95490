package hos

import (
	"errors"
	"fmt"

	"github.com/haulstack/hoslog/internal/model"
)

// ErrInvalidEvent marks malformed input: zero timestamps, unknown statuses,
// or duplicate timestamps within one trip. Malformed events are always
// rejected at ingestion, never silently repaired.
var ErrInvalidEvent = errors.New("invalid duty event")

// ErrDuplicateTimestamp is returned when two events in one trip share a
// timestamp. Ordering of same-timestamp events would be ambiguous, so the
// engine rejects them outright instead of relying on insertion order.
var ErrDuplicateTimestamp = fmt.Errorf("%w: duplicate timestamp", ErrInvalidEvent)

// IncompleteDayError reports a day that does not cover the full 24 hours
// when complete coverage is required. Recoverable: re-normalizing with
// day-start seeding and day completion enabled fills the gaps.
type IncompleteDayError struct {
	Day        string
	CoveredMin int
}

func (e *IncompleteDayError) Error() string {
	return fmt.Sprintf("day %s covers %d of 1440 minutes", e.Day, e.CoveredMin)
}

// ComplianceError carries the violations that a candidate event would
// introduce. It is returned by the synchronous write-path check; historical
// evaluation reports violations as data instead.
type ComplianceError struct {
	Violations []model.Violation
}

func (e *ComplianceError) Error() string {
	if len(e.Violations) == 0 {
		return "compliance violation"
	}
	return fmt.Sprintf("compliance violation: %s at %s",
		e.Violations[0].Code, e.Violations[0].Timestamp.UTC().Format("2006-01-02 15:04"))
}
