package eldsync

import (
	"errors"
	"fmt"
	"time"

	"github.com/haulstack/hoslog/internal/hos"
	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/storage"
	"github.com/haulstack/hoslog/internal/timecalc"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Rejected int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Base   string
	TripID string
	DryRun bool
}

// statusByCode maps provider duty-status codes to the engine statuses.
// Providers differ on spelling, so the long forms are accepted too.
var statusByCode = map[string]model.Status{
	"OFF":                 model.StatusOff,
	"SB":                  model.StatusSleeper,
	"SLEEPER_BERTH":       model.StatusSleeper,
	"D":                   model.StatusDriving,
	"DRIVING":             model.StatusDriving,
	"ON":                  model.StatusOnDuty,
	"ON_DUTY_NOT_DRIVING": model.StatusOnDuty,
}

// shouldSkip returns true if the record should not be imported.
func shouldSkip(rec DutyStatusRecord) bool {
	if rec.ID == "" || rec.RecordedAt == "" {
		return true
	}
	// Assumed records are provider guesses during connectivity gaps.
	if rec.Origin == "assumed" {
		return true
	}
	if _, ok := statusByCode[rec.Status]; !ok {
		return true
	}
	return false
}

// MapRecordToEvent converts a provider duty-status record into a DutyEvent
// plus an optional remark for its location/annotation payload.
func MapRecordToEvent(rec DutyStatusRecord, tripID string) (model.DutyEvent, *model.Remark, error) {
	ts, err := time.Parse(time.RFC3339, rec.RecordedAt)
	if err != nil {
		return model.DutyEvent{}, nil, fmt.Errorf("parsing record timestamp: %w", err)
	}
	ts = ts.UTC()

	status, ok := statusByCode[rec.Status]
	if !ok {
		return model.DutyEvent{}, nil, fmt.Errorf("unknown duty-status code %q", rec.Status)
	}

	ev := model.DutyEvent{
		ID:         timecalc.GenerateID(ts),
		ExternalID: rec.ID,
		DriverID:   rec.DriverID,
		TripID:     tripID,
		Timestamp:  ts,
		Status:     status,
		Source:     "eld",
	}

	var remark *model.Remark
	if rec.Location != "" || rec.Annotation != "" {
		remark = &model.Remark{
			TripID:    tripID,
			Timestamp: ts,
			Activity:  rec.Annotation,
			Location:  rec.Location,
		}
	}
	return ev, remark, nil
}

// findByExternalID searches loaded events for one with the given external ID.
func findByExternalID(events []model.DutyEvent, externalID string) *model.DutyEvent {
	for i := range events {
		if events[i].ExternalID == externalID {
			return &events[i]
		}
	}
	return nil
}

// SyncRecords merges provider records into the trip's event log. Every new
// record passes the same synchronous compliance check as a manual entry;
// records whose acceptance would introduce a violation are rejected and
// reported, never silently committed. It prints progress to stdout and
// returns a SyncResult.
func SyncRecords(records []DutyStatusRecord, opts SyncOptions) (SyncResult, error) {
	var result SyncResult

	tf, err := storage.LoadTrip(opts.Base, opts.TripID)
	if err != nil {
		return result, err
	}

	for _, rec := range records {
		if shouldSkip(rec) {
			result.Skipped++
			continue
		}

		ev, remark, err := MapRecordToEvent(rec, opts.TripID)
		if err != nil {
			fmt.Printf("  ! Error mapping record %s: %v\n", rec.ID, err)
			result.Errors++
			continue
		}

		if findByExternalID(tf.Events, rec.ID) != nil {
			fmt.Printf("  – Skipped:  %s %s (already imported)\n",
				ev.Timestamp.UTC().Format("2006-01-02 15:04"), ev.Status)
			result.Skipped++
			continue
		}

		if err := hos.CheckAppend(tf.Events, ev); err != nil {
			var ce *hos.ComplianceError
			if errors.As(err, &ce) {
				fmt.Printf("  ✗ Rejected: %s %s (%v)\n",
					ev.Timestamp.UTC().Format("2006-01-02 15:04"), ev.Status, err)
				result.Rejected++
				continue
			}
			fmt.Printf("  ! Error validating record %s: %v\n", rec.ID, err)
			result.Errors++
			continue
		}

		tf.Events = append(tf.Events, ev)
		if !opts.DryRun {
			if err := storage.SaveTrip(opts.Base, tf); err != nil {
				fmt.Printf("  ! Error saving trip: %v\n", err)
				result.Errors++
				continue
			}
			if remark != nil {
				if err := storage.UpsertRemark(opts.Base, *remark); err != nil {
					fmt.Printf("  ! Error saving remark: %v\n", err)
					result.Errors++
				}
			}
		}
		fmt.Printf("  ✓ Imported: %s %s\n",
			ev.Timestamp.UTC().Format("2006-01-02 15:04"), ev.Status)
		result.Imported++
	}

	return result, nil
}
