package hos

import (
	"sort"
	"time"

	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/timecalc"
)

// DaySummary holds the per-status totals for one calendar day.
type DaySummary struct {
	Day    string            `json:"day"`
	Totals model.DailyTotals `json:"totals"`
}

// SummarizeDays aggregates interval durations per status per calendar day.
// Intervals spanning midnight are split at the day boundary, so with the
// day-completion policy enabled every day's four totals sum to exactly
// 1440 minutes. Totals are recomputed from the intervals on every call;
// nothing is persisted.
func SummarizeDays(intervals []model.Interval) []DaySummary {
	totals := map[string]*model.DailyTotals{}
	var days []string

	for _, iv := range intervals {
		cur := iv.Start
		for cur.Before(iv.End) {
			segEnd := timecalc.Midnight(cur)
			if iv.End.Before(segEnd) {
				segEnd = iv.End
			}
			day := timecalc.DayKey(cur)
			t, ok := totals[day]
			if !ok {
				t = &model.DailyTotals{}
				totals[day] = t
				days = append(days, day)
			}
			mins := int(segEnd.Sub(cur) / time.Minute)
			switch iv.Status {
			case model.StatusOff:
				t.OffMin += mins
			case model.StatusSleeper:
				t.SleeperMin += mins
			case model.StatusDriving:
				t.DrivingMin += mins
			case model.StatusOnDuty:
				t.OnDutyMin += mins
			}
			cur = segEnd
		}
	}

	sort.Strings(days)
	out := make([]DaySummary, 0, len(days))
	for _, day := range days {
		out = append(out, DaySummary{Day: day, Totals: *totals[day]})
	}
	return out
}
