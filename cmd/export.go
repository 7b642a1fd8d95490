package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haulstack/hoslog/internal/hos"
	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/storage"
	"github.com/haulstack/hoslog/internal/timecalc"
)

var (
	exportTrip   string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a trip report to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTrip, "trip", "", "Trip ID; defaults to the most recent trip")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	trip, err := resolveTrip(base, exportTrip)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	tf, err := storage.LoadTrip(base, trip.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rf, err := storage.LoadRemarks(base, trip.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	report, err := hos.Evaluate(tf.Events, hos.DefaultNormalize)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch exportFormat {
	case "json":
		out := struct {
			Trip    model.Trip        `json:"trip"`
			Report  *hos.Report       `json:"report"`
			Events  []model.DutyEvent `json:"events"`
			Remarks []model.Remark    `json:"remarks"`
		}{trip, report, tf.Events, rf.Remarks}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	default: // csv
		printReportCSV(trip, report, tf.Events, rf.Remarks)
	}
	return nil
}

// printReportCSV writes the sectioned trip report: a header section with
// trip metadata, one row per day of totals, one row per duty event, and
// one row per remark.
func printReportCSV(trip model.Trip, report *hos.Report, events []model.DutyEvent, remarks []model.Remark) {
	fmt.Println("section,field,value")
	header := [][2]string{
		{"trip_id", trip.ID},
		{"trip_name", trip.Name},
		{"driver_id", trip.DriverID},
		{"pickup_location", trip.PickupLocation},
		{"dropoff_location", trip.DropoffLocation},
		{"created_at", trip.CreatedAt.Format(time.RFC3339)},
	}
	for _, kv := range header {
		fmt.Printf("header,%s,%s\n", csvEscape(kv[0]), csvEscape(kv[1]))
	}

	fmt.Println("daily,day,off_h,sb_h,dr_h,on_h")
	for _, d := range report.Daily {
		fmt.Printf("daily,%s,%.2f,%.2f,%.2f,%.2f\n", d.Day,
			timecalc.Hours(d.Totals.OffMin),
			timecalc.Hours(d.Totals.SleeperMin),
			timecalc.Hours(d.Totals.DrivingMin),
			timecalc.Hours(d.Totals.OnDutyMin))
	}

	fmt.Println("log,day,timestamp,status,source")
	for _, e := range events {
		fmt.Printf("log,%s,%s,%s,%s\n",
			timecalc.DayKey(e.Timestamp),
			csvEscape(e.Timestamp.UTC().Format(time.RFC3339)),
			csvEscape(string(e.Status)),
			csvEscape(e.Source))
	}

	fmt.Println("remark,timestamp,activity,location")
	for _, r := range remarks {
		fmt.Printf("remark,%s,%s,%s\n",
			csvEscape(r.Timestamp.UTC().Format(time.RFC3339)),
			csvEscape(r.Activity),
			csvEscape(r.Location))
	}

	fmt.Println("violation,day,timestamp,code,message")
	for _, v := range report.Violations {
		fmt.Printf("violation,%s,%s,%s,%s\n",
			v.Day,
			csvEscape(v.Timestamp.UTC().Format(time.RFC3339)),
			csvEscape(v.Code),
			csvEscape(v.Message))
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
