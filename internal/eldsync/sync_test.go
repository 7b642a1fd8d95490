package eldsync_test

import (
	"testing"
	"time"

	"github.com/haulstack/hoslog/internal/eldsync"
	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/storage"
)

func record(id, recordedAt, status string) eldsync.DutyStatusRecord {
	return eldsync.DutyStatusRecord{
		ID:         id,
		DriverID:   "driver-1",
		RecordedAt: recordedAt,
		Status:     status,
		Origin:     "driver",
	}
}

func saveTestTrip(t *testing.T, base string, events ...model.DutyEvent) {
	t.Helper()
	tf := model.TripFile{
		Trip: model.Trip{
			ID:        "trip-1",
			DriverID:  "driver-1",
			Name:      "Denver run",
			CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		Events: events,
	}
	if err := storage.SaveTrip(base, tf); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}
}

func TestMapRecordToEvent(t *testing.T) {
	tests := []struct {
		code string
		want model.Status
	}{
		{"OFF", model.StatusOff},
		{"SB", model.StatusSleeper},
		{"D", model.StatusDriving},
		{"ON", model.StatusOnDuty},
		{"DRIVING", model.StatusDriving},
	}
	for _, tt := range tests {
		rec := record("r1", "2026-03-02T06:00:00Z", tt.code)
		ev, _, err := eldsync.MapRecordToEvent(rec, "trip-1")
		if err != nil {
			t.Fatalf("MapRecordToEvent(%s): %v", tt.code, err)
		}
		if ev.Status != tt.want {
			t.Errorf("status for code %s = %s, want %s", tt.code, ev.Status, tt.want)
		}
		if ev.ExternalID != "r1" || ev.Source != "eld" {
			t.Errorf("event identity = %q/%q, want r1/eld", ev.ExternalID, ev.Source)
		}
	}
}

func TestMapRecordToEventRemark(t *testing.T) {
	rec := record("r1", "2026-03-02T06:00:00Z", "ON")
	rec.Location = "Denver, CO"
	rec.Annotation = "Pre-trip inspection"

	_, remark, err := eldsync.MapRecordToEvent(rec, "trip-1")
	if err != nil {
		t.Fatalf("MapRecordToEvent: %v", err)
	}
	if remark == nil {
		t.Fatal("remark = nil, want one for located record")
	}
	if remark.Location != "Denver, CO" || remark.Activity != "Pre-trip inspection" {
		t.Errorf("remark = %+v", remark)
	}

	bare := record("r2", "2026-03-02T07:00:00Z", "D")
	_, remark, err = eldsync.MapRecordToEvent(bare, "trip-1")
	if err != nil {
		t.Fatalf("MapRecordToEvent: %v", err)
	}
	if remark != nil {
		t.Errorf("remark = %+v, want nil for bare record", remark)
	}
}

func TestMapRecordToEventBadTimestamp(t *testing.T) {
	rec := record("r1", "yesterday", "D")
	if _, _, err := eldsync.MapRecordToEvent(rec, "trip-1"); err == nil {
		t.Fatal("expected error for malformed timestamp, got nil")
	}
}

func TestSyncRecordsImportsAndDedupes(t *testing.T) {
	base := t.TempDir()
	saveTestTrip(t, base)

	records := []eldsync.DutyStatusRecord{
		record("r1", "2026-03-02T06:00:00Z", "ON"),
		record("r2", "2026-03-02T07:00:00Z", "D"),
		record("r1", "2026-03-02T06:00:00Z", "ON"), // duplicate external ID
	}

	result, err := eldsync.SyncRecords(records, eldsync.SyncOptions{Base: base, TripID: "trip-1"})
	if err != nil {
		t.Fatalf("SyncRecords: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 1 || result.Rejected != 0 || result.Errors != 0 {
		t.Errorf("result = %+v, want 2 imported, 1 skipped", result)
	}

	tf, err := storage.LoadTrip(base, "trip-1")
	if err != nil {
		t.Fatalf("LoadTrip: %v", err)
	}
	if len(tf.Events) != 2 {
		t.Errorf("persisted events = %d, want 2", len(tf.Events))
	}
}

func TestSyncRecordsSkipsAssumedAndUnknown(t *testing.T) {
	base := t.TempDir()
	saveTestTrip(t, base)

	assumed := record("r1", "2026-03-02T06:00:00Z", "ON")
	assumed.Origin = "assumed"

	records := []eldsync.DutyStatusRecord{
		assumed,
		record("r2", "2026-03-02T07:00:00Z", "PC"), // unsupported status code
		record("", "2026-03-02T08:00:00Z", "D"),    // missing ID
	}

	result, err := eldsync.SyncRecords(records, eldsync.SyncOptions{Base: base, TripID: "trip-1"})
	if err != nil {
		t.Fatalf("SyncRecords: %v", err)
	}
	if result.Skipped != 3 || result.Imported != 0 {
		t.Errorf("result = %+v, want 3 skipped", result)
	}
}

func TestSyncRecordsRejectsViolatingRecord(t *testing.T) {
	base := t.TempDir()
	saveTestTrip(t, base, model.DutyEvent{
		ID:        "ev-1",
		DriverID:  "driver-1",
		TripID:    "trip-1",
		Timestamp: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
		Status:    model.StatusDriving,
		Source:    "manual",
	})

	// Ten hours of driving closed with no break: accepting the record
	// would introduce a missed-break violation.
	records := []eldsync.DutyStatusRecord{
		record("r1", "2026-03-02T16:00:00Z", "OFF"),
	}

	result, err := eldsync.SyncRecords(records, eldsync.SyncOptions{Base: base, TripID: "trip-1"})
	if err != nil {
		t.Fatalf("SyncRecords: %v", err)
	}
	if result.Rejected != 1 || result.Imported != 0 {
		t.Errorf("result = %+v, want 1 rejected", result)
	}

	tf, err := storage.LoadTrip(base, "trip-1")
	if err != nil {
		t.Fatalf("LoadTrip: %v", err)
	}
	if len(tf.Events) != 1 {
		t.Errorf("persisted events = %d, want 1 (rejected record must not be committed)", len(tf.Events))
	}
}

func TestSyncRecordsDryRun(t *testing.T) {
	base := t.TempDir()
	saveTestTrip(t, base)

	records := []eldsync.DutyStatusRecord{
		record("r1", "2026-03-02T06:00:00Z", "ON"),
	}

	result, err := eldsync.SyncRecords(records, eldsync.SyncOptions{Base: base, TripID: "trip-1", DryRun: true})
	if err != nil {
		t.Fatalf("SyncRecords: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("result = %+v, want 1 imported", result)
	}

	tf, err := storage.LoadTrip(base, "trip-1")
	if err != nil {
		t.Fatalf("LoadTrip: %v", err)
	}
	if len(tf.Events) != 0 {
		t.Errorf("persisted events = %d, want 0 after dry run", len(tf.Events))
	}
}
