package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haulstack/hoslog/internal/hos"
	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/storage"
	"github.com/haulstack/hoslog/internal/timecalc"
)

var (
	logAt   string
	logTrip string
)

var logCmd = &cobra.Command{
	Use:   "log <status>",
	Short: "Record a duty-status change",
	Long: `Record a duty-status change on the current trip.

Status is one of: off, sleeper, driving, on-duty (short: off, sb, d, on).
The event is checked against the hours-of-service limits before it is
written; an event that would introduce a new violation is rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logAt, "at", "", "Event time (RFC3339 or \"YYYY-MM-DD HH:MM\"); defaults to now")
	logCmd.Flags().StringVar(&logTrip, "trip", "", "Trip ID; defaults to the most recent trip")
}

// parseStatus accepts the long status names and the short codes drivers
// actually type.
func parseStatus(s string) (model.Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "off-duty":
		return model.StatusOff, nil
	case "sb", "sleeper", "sleeper-berth":
		return model.StatusSleeper, nil
	case "d", "drive", "driving":
		return model.StatusDriving, nil
	case "on", "on-duty", "onduty":
		return model.StatusOnDuty, nil
	}
	return "", fmt.Errorf("unknown status %q (expected off, sleeper, driving or on-duty)", s)
}

// parseEventTime accepts RFC3339 or a local "YYYY-MM-DD HH:MM" timestamp.
func parseEventTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected RFC3339 or \"YYYY-MM-DD HH:MM\")", s)
	}
	return t, nil
}

func runLog(cmd *cobra.Command, args []string) error {
	status, err := parseStatus(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	at := time.Now().UTC().Truncate(time.Minute)
	if logAt != "" {
		at, err = parseEventTime(logAt)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	trip, err := resolveTrip(base, logTrip)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	tf, err := storage.LoadTrip(base, trip.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	event := model.DutyEvent{
		ID:        timecalc.GenerateID(at),
		DriverID:  trip.DriverID,
		TripID:    trip.ID,
		Timestamp: at,
		Status:    status,
		Source:    "manual",
	}

	if err := hos.CheckAppend(tf.Events, event); err != nil {
		var ce *hos.ComplianceError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, "Rejected: this event would introduce a violation:")
			for _, v := range ce.Violations {
				fmt.Fprintf(os.Stderr, "  %s at %s: %s\n",
					v.Code, timecalc.FormatClock(v.Timestamp), v.Message)
			}
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := storage.AppendEvents(base, trip.ID, event); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Logged %s at %s on trip %q\n",
		status, timecalc.FormatClock(at), trip.Name)
	return nil
}
