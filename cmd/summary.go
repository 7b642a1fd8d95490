package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haulstack/hoslog/internal/hos"
	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/storage"
	"github.com/haulstack/hoslog/internal/timecalc"
)

var (
	summaryTrip   string
	summaryFormat string
	summaryStrict bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show daily duty totals and violations",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryTrip, "trip", "", "Trip ID; defaults to the most recent trip")
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "md", "Output format: md, csv, json")
	summaryCmd.Flags().BoolVar(&summaryStrict, "strict", false, "Fail if any day's totals do not cover 24 hours")
}

// hourTotals is the external representation of a day's totals, in hours
// rounded to two decimals, keyed by status name.
type hourTotals struct {
	Off     float64 `json:"OFF"`
	Sleeper float64 `json:"SLEEPER_BERTH"`
	Driving float64 `json:"DRIVING"`
	OnDuty  float64 `json:"ON_DUTY_NOT_DRIVING"`
}

func toHours(t model.DailyTotals) hourTotals {
	return hourTotals{
		Off:     timecalc.Hours(t.OffMin),
		Sleeper: timecalc.Hours(t.SleeperMin),
		Driving: timecalc.Hours(t.DrivingMin),
		OnDuty:  timecalc.Hours(t.OnDutyMin),
	}
}

func runSummary(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	trip, err := resolveTrip(base, summaryTrip)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	tf, err := storage.LoadTrip(base, trip.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if summaryStrict {
		intervals, err := hos.Normalize(tf.Events, hos.DefaultNormalize)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := hos.CheckCoverage(intervals); err != nil {
			var ide *hos.IncompleteDayError
			if errors.As(err, &ide) {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	report, err := hos.Evaluate(tf.Events, hos.DefaultNormalize)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch summaryFormat {
	case "json":
		printSummaryJSON(report)
	case "csv":
		printSummaryCSV(report)
	default: // md
		printSummaryMD(trip, report)
	}
	return nil
}

func printSummaryJSON(report *hos.Report) {
	type jsonDay struct {
		Day    string     `json:"day"`
		Totals hourTotals `json:"totals"`
	}
	out := struct {
		Daily      []jsonDay         `json:"daily"`
		Violations []model.Violation `json:"violations"`
	}{
		Daily:      []jsonDay{},
		Violations: report.Violations,
	}
	for _, d := range report.Daily {
		out.Daily = append(out.Daily, jsonDay{Day: d.Day, Totals: toHours(d.Totals)})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
		os.Exit(2)
	}
	fmt.Println(string(data))
}

func printSummaryCSV(report *hos.Report) {
	fmt.Println("day,off_hours,sleeper_hours,driving_hours,on_duty_hours")
	for _, d := range report.Daily {
		h := toHours(d.Totals)
		fmt.Printf("%s,%.2f,%.2f,%.2f,%.2f\n", d.Day, h.Off, h.Sleeper, h.Driving, h.OnDuty)
	}
}

func printSummaryMD(trip model.Trip, report *hos.Report) {
	fmt.Printf("Trip %q\n", trip.Name)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("%-12s%10s%10s%10s%10s\n", "Day", "Off", "Sleeper", "Driving", "On-duty")
	for _, d := range report.Daily {
		h := toHours(d.Totals)
		fmt.Printf("%-12s%10.2f%10.2f%10.2f%10.2f\n", d.Day, h.Off, h.Sleeper, h.Driving, h.OnDuty)
	}
	fmt.Println("------------------------------------------------------------")
	if len(report.Violations) == 0 {
		fmt.Println("No violations.")
		return
	}
	fmt.Printf("%d violation(s):\n", len(report.Violations))
	for _, v := range report.Violations {
		fmt.Printf("  %s  %s: %s\n", timecalc.FormatClock(v.Timestamp), v.Code, v.Message)
	}
}
