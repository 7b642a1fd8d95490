package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/storage"
	"github.com/haulstack/hoslog/internal/timecalc"
)

var eventsTrip string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List duty events for a trip, grouped by day",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsTrip, "trip", "", "Trip ID; defaults to the most recent trip")
}

func runEvents(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	trip, err := resolveTrip(base, eventsTrip)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	tf, err := storage.LoadTrip(base, trip.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if len(tf.Events) == 0 {
		fmt.Printf("No events on trip %q.\n", trip.Name)
		return nil
	}

	rf, err := storage.LoadRemarks(base, trip.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	remarkAt := map[time.Time]model.Remark{}
	for _, r := range rf.Remarks {
		remarkAt[r.Timestamp.UTC()] = r
	}

	events := make([]model.DutyEvent, len(tf.Events))
	copy(events, tf.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	fmt.Printf("Trip %q (%s)\n", trip.Name, trip.ID)
	lastDay := ""
	for _, e := range events {
		day := timecalc.DayKey(e.Timestamp)
		if day != lastDay {
			fmt.Printf("\n%s\n", day)
			lastDay = day
		}
		line := fmt.Sprintf("  %s  %-20s %s",
			e.Timestamp.UTC().Format("15:04"), e.Status, e.Source)
		if r, ok := remarkAt[e.Timestamp.UTC()]; ok {
			if r.Activity != "" {
				line += "  " + r.Activity
			}
			if r.Location != "" {
				line += " @ " + r.Location
			}
		}
		fmt.Println(line)
	}
	return nil
}
