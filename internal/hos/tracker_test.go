package hos_test

import (
	"testing"

	"github.com/haulstack/hoslog/internal/hos"
	"github.com/haulstack/hoslog/internal/model"
)

func mustTrack(t *testing.T, events []model.DutyEvent, opts hos.NormalizeOptions) []hos.Snapshot {
	t.Helper()
	intervals, err := hos.Normalize(events, opts)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return hos.Track(intervals)
}

func TestTrackOffDutyResetZeroesCounters(t *testing.T) {
	// 11 hours of duty, then exactly 600 minutes OFF, then new driving.
	// The reset must zero the counters even though they were at their
	// limits before it.
	events := []model.DutyEvent{
		ev(at(2, 6, 0), model.StatusOnDuty),
		ev(at(2, 7, 0), model.StatusDriving),
		ev(at(2, 17, 0), model.StatusOff),
		ev(at(3, 3, 0), model.StatusDriving),
	}

	snaps := mustTrack(t, events, hos.NormalizeOptions{SeedDayStart: true})
	// Intervals: OFF seed, ON, DRIVING, OFF (600m), DRIVING stub.
	if len(snaps) != 5 {
		t.Fatalf("Track = %d snapshots, want 5", len(snaps))
	}

	before := snaps[2]
	if before.DrivingSinceBreakMin != 600 || before.DutyInWindowMin != 660 {
		t.Errorf("pre-reset counters = %d/%d, want 600/660",
			before.DrivingSinceBreakMin, before.DutyInWindowMin)
	}

	reset := snaps[3]
	if reset.DrivingSinceBreakMin != 0 || reset.DutyInWindowMin != 0 || reset.WindowElapsedMin != 0 {
		t.Errorf("post-reset counters = %d/%d/%d, want 0/0/0",
			reset.DrivingSinceBreakMin, reset.DutyInWindowMin, reset.WindowElapsedMin)
	}
	if !reset.WindowStart.Equal(at(3, 3, 0)) {
		t.Errorf("post-reset window start = %v, want %v", reset.WindowStart, at(3, 3, 0))
	}
}

func TestTrackBreakResetLeavesDutyCounters(t *testing.T) {
	// A 30-minute non-driving period zeroes driving-since-break but not
	// the duty-window counters.
	events := []model.DutyEvent{
		ev(at(2, 6, 0), model.StatusDriving),
		ev(at(2, 10, 0), model.StatusOnDuty),
		ev(at(2, 10, 30), model.StatusDriving),
		ev(at(2, 12, 0), model.StatusOff),
	}

	snaps := mustTrack(t, events, hos.DefaultNormalize)
	// Intervals: OFF seed, DRIVING, ON, DRIVING, OFF.
	afterBreak := snaps[2]
	if afterBreak.DrivingSinceBreakMin != 0 {
		t.Errorf("driving since break after 30m ON = %d, want 0", afterBreak.DrivingSinceBreakMin)
	}
	if afterBreak.DutyInWindowMin != 270 {
		t.Errorf("duty in window after 30m ON = %d, want 270", afterBreak.DutyInWindowMin)
	}
	if afterBreak.WindowElapsedMin != 270 {
		t.Errorf("window elapsed after 30m ON = %d, want 270", afterBreak.WindowElapsedMin)
	}
}

func TestTrackWindowElapsedStopsAtLastOnDuty(t *testing.T) {
	// Trailing rest does not extend the duty window; a window that
	// expires while the driver is off duty is not a breach.
	events := []model.DutyEvent{
		ev(at(2, 6, 0), model.StatusDriving),
		ev(at(2, 10, 0), model.StatusOff),
		ev(at(2, 15, 0), model.StatusOff),
	}

	snaps := mustTrack(t, events, hos.NormalizeOptions{SeedDayStart: true})
	final := snaps[len(snaps)-1]
	if final.Interval.Status != model.StatusOff {
		t.Fatalf("final interval status = %s, want OFF", final.Interval.Status)
	}
	if final.WindowElapsedMin != 240 {
		t.Errorf("window elapsed through trailing rest = %d, want 240", final.WindowElapsedMin)
	}
}

func TestTrackSlidingCycle(t *testing.T) {
	// 600 driving minutes per day for 9 days. The 8-day window holds at
	// most 8 days of driving; on day 9 the oldest day has expired.
	var events []model.DutyEvent
	for d := 1; d <= 9; d++ {
		events = append(events,
			ev(at(d, 6, 0), model.StatusDriving),
			ev(at(d, 16, 0), model.StatusOff),
		)
	}

	snaps := mustTrack(t, events, hos.DefaultNormalize)

	var drivingSnaps []hos.Snapshot
	for _, s := range snaps {
		if s.Interval.Status == model.StatusDriving {
			drivingSnaps = append(drivingSnaps, s)
		}
	}
	if len(drivingSnaps) != 9 {
		t.Fatalf("driving snapshots = %d, want 9", len(drivingSnaps))
	}

	wantCycle := []struct {
		day  int
		want int
	}{
		{7, 7 * 600},
		{8, 8 * 600},
		{9, 8 * 600}, // day 1 has slid out of the window
	}
	for _, tc := range wantCycle {
		got := drivingSnaps[tc.day-1].CycleMin
		if got != tc.want {
			t.Errorf("cycle minutes at end of day %d = %d, want %d", tc.day, got, tc.want)
		}
	}
}

func TestTrackConcreteDay(t *testing.T) {
	events := []model.DutyEvent{
		ev(at(2, 0, 0), model.StatusOff),
		ev(at(2, 6, 30), model.StatusOnDuty),
		ev(at(2, 7, 0), model.StatusDriving),
		ev(at(2, 12, 0), model.StatusOnDuty),
		ev(at(2, 12, 30), model.StatusDriving),
		ev(at(2, 15, 0), model.StatusOnDuty),
		ev(at(2, 17, 30), model.StatusOff),
	}

	snaps := mustTrack(t, events, hos.DefaultNormalize)
	final := snaps[len(snaps)-1]

	if final.DutyInWindowMin != 660 {
		t.Errorf("duty in window = %d, want 660", final.DutyInWindowMin)
	}
	if final.WindowElapsedMin != 660 {
		t.Errorf("window elapsed = %d, want 660", final.WindowElapsedMin)
	}
	if final.DrivingSinceBreakMin != 0 {
		t.Errorf("driving since break = %d, want 0 after trailing OFF", final.DrivingSinceBreakMin)
	}
	if !final.WindowStart.Equal(at(2, 6, 30)) {
		t.Errorf("window start = %v, want %v", final.WindowStart, at(2, 6, 30))
	}
}

func TestTrackEmpty(t *testing.T) {
	snaps := hos.Track(nil)
	if len(snaps) != 0 {
		t.Errorf("Track(nil) = %d snapshots, want 0", len(snaps))
	}
}

func TestSnapshotBoundaryInstants(t *testing.T) {
	events := []model.DutyEvent{
		ev(at(2, 6, 0), model.StatusDriving),
		ev(at(2, 10, 0), model.StatusOff),
	}
	snaps := mustTrack(t, events, hos.DefaultNormalize)
	for i, s := range snaps {
		if !s.At.Equal(s.Interval.End) {
			t.Errorf("snapshot %d At = %v, want interval end %v", i, s.At, s.Interval.End)
		}
	}
	if !snaps[len(snaps)-1].At.Equal(at(3, 0, 0)) {
		t.Errorf("final boundary = %v, want midnight", snaps[len(snaps)-1].At)
	}
}
