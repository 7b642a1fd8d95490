package hos_test

import (
	"errors"
	"testing"
	"time"

	"github.com/haulstack/hoslog/internal/hos"
	"github.com/haulstack/hoslog/internal/model"
)

func at(day int, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

func ev(t time.Time, status model.Status) model.DutyEvent {
	return model.DutyEvent{
		ID:        t.Format("20060102-1504"),
		DriverID:  "driver-1",
		TripID:    "trip-1",
		Timestamp: t,
		Status:    status,
		Source:    "manual",
	}
}

func TestNormalizeEmpty(t *testing.T) {
	intervals, err := hos.Normalize(nil, hos.DefaultNormalize)
	if err != nil {
		t.Fatalf("Normalize(nil): %v", err)
	}
	if len(intervals) != 0 {
		t.Errorf("Normalize(nil) = %d intervals, want 0", len(intervals))
	}
}

func TestNormalizeSeedsDayStartAndCompletesDay(t *testing.T) {
	events := []model.DutyEvent{ev(at(2, 8, 0), model.StatusDriving)}

	intervals, err := hos.Normalize(events, hos.DefaultNormalize)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("Normalize = %d intervals, want 2", len(intervals))
	}
	if intervals[0].Status != model.StatusOff || intervals[0].Minutes() != 480 {
		t.Errorf("seeded interval = %s %dm, want OFF 480m",
			intervals[0].Status, intervals[0].Minutes())
	}
	if intervals[1].Status != model.StatusDriving || intervals[1].Minutes() != 960 {
		t.Errorf("final interval = %s %dm, want DRIVING 960m",
			intervals[1].Status, intervals[1].Minutes())
	}
}

func TestNormalizeStubWithoutDayCompletion(t *testing.T) {
	events := []model.DutyEvent{ev(at(2, 8, 0), model.StatusDriving)}

	intervals, err := hos.Normalize(events, hos.NormalizeOptions{SeedDayStart: true})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	last := intervals[len(intervals)-1]
	if last.Minutes() != 1 {
		t.Errorf("stub interval = %dm, want 1m", last.Minutes())
	}
}

func TestNormalizeSortsInput(t *testing.T) {
	events := []model.DutyEvent{
		ev(at(2, 12, 0), model.StatusOff),
		ev(at(2, 0, 0), model.StatusOff),
		ev(at(2, 6, 0), model.StatusDriving),
	}

	intervals, err := hos.Normalize(events, hos.DefaultNormalize)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []model.Status{model.StatusOff, model.StatusDriving, model.StatusOff}
	if len(intervals) != len(want) {
		t.Fatalf("Normalize = %d intervals, want %d", len(intervals), len(want))
	}
	for i, s := range want {
		if intervals[i].Status != s {
			t.Errorf("interval %d status = %s, want %s", i, intervals[i].Status, s)
		}
	}
	for i := 1; i < len(intervals); i++ {
		if !intervals[i].Start.Equal(intervals[i-1].End) {
			t.Errorf("gap between interval %d and %d", i-1, i)
		}
	}
}

func TestNormalizeCoalescesAdjacentSameStatus(t *testing.T) {
	// The seeded OFF interval and an explicit OFF event merge into one
	// continuous interval, so reset rules see the full period.
	events := []model.DutyEvent{
		ev(at(2, 8, 0), model.StatusOff),
		ev(at(2, 9, 0), model.StatusDriving),
	}

	intervals, err := hos.Normalize(events, hos.DefaultNormalize)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("Normalize = %d intervals, want 2", len(intervals))
	}
	if intervals[0].Status != model.StatusOff || intervals[0].Minutes() != 540 {
		t.Errorf("coalesced interval = %s %dm, want OFF 540m",
			intervals[0].Status, intervals[0].Minutes())
	}
}

func TestNormalizeRejectsInvalidStatus(t *testing.T) {
	events := []model.DutyEvent{{
		ID:        "bad-1",
		Timestamp: at(2, 8, 0),
		Status:    "NAPPING",
	}}

	_, err := hos.Normalize(events, hos.DefaultNormalize)
	if !errors.Is(err, hos.ErrInvalidEvent) {
		t.Fatalf("Normalize error = %v, want ErrInvalidEvent", err)
	}
}

func TestNormalizeRejectsMissingTimestamp(t *testing.T) {
	events := []model.DutyEvent{{ID: "bad-2", Status: model.StatusOff}}

	_, err := hos.Normalize(events, hos.DefaultNormalize)
	if !errors.Is(err, hos.ErrInvalidEvent) {
		t.Fatalf("Normalize error = %v, want ErrInvalidEvent", err)
	}
}

func TestNormalizeRejectsDuplicateTimestamps(t *testing.T) {
	events := []model.DutyEvent{
		ev(at(2, 8, 0), model.StatusDriving),
		ev(at(2, 8, 0), model.StatusOff),
	}

	_, err := hos.Normalize(events, hos.DefaultNormalize)
	if !errors.Is(err, hos.ErrDuplicateTimestamp) {
		t.Fatalf("Normalize error = %v, want ErrDuplicateTimestamp", err)
	}
	if !errors.Is(err, hos.ErrInvalidEvent) {
		t.Fatalf("duplicate timestamp error should wrap ErrInvalidEvent, got %v", err)
	}
}

func TestCheckCoverageCompleteDay(t *testing.T) {
	events := []model.DutyEvent{
		ev(at(2, 0, 0), model.StatusOff),
		ev(at(2, 8, 0), model.StatusDriving),
	}
	intervals, err := hos.Normalize(events, hos.DefaultNormalize)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if err := hos.CheckCoverage(intervals); err != nil {
		t.Errorf("CheckCoverage on complete day: %v", err)
	}
}

func TestCheckCoverageIncompleteDay(t *testing.T) {
	events := []model.DutyEvent{ev(at(2, 8, 0), model.StatusDriving)}
	intervals, err := hos.Normalize(events, hos.NormalizeOptions{SeedDayStart: true})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	err = hos.CheckCoverage(intervals)
	var ide *hos.IncompleteDayError
	if !errors.As(err, &ide) {
		t.Fatalf("CheckCoverage error = %v, want *IncompleteDayError", err)
	}
	if ide.Day != "2026-03-02" {
		t.Errorf("IncompleteDayError day = %q, want 2026-03-02", ide.Day)
	}
	if ide.CoveredMin != 481 {
		t.Errorf("IncompleteDayError covered = %d, want 481", ide.CoveredMin)
	}
}
