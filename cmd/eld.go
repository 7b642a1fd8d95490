package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haulstack/hoslog/internal/config"
	"github.com/haulstack/hoslog/internal/eldsync"
	"github.com/haulstack/hoslog/internal/storage"
	"github.com/haulstack/hoslog/internal/timecalc"
)

var (
	eldSyncFrom   string
	eldSyncTo     string
	eldSyncDate   string
	eldSyncToday  bool
	eldSyncDryRun bool
	eldSyncTrip   string
)

var eldCmd = &cobra.Command{
	Use:   "eld",
	Short: "Fleet ELD provider integration",
}

var eldSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync duty-status records from the ELD provider",
	Args:  cobra.NoArgs,
	RunE:  runELDSync,
}

func init() {
	eldSyncCmd.Flags().StringVar(&eldSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	eldSyncCmd.Flags().StringVar(&eldSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	eldSyncCmd.Flags().StringVar(&eldSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	eldSyncCmd.Flags().BoolVar(&eldSyncToday, "today", false, "Sync only today (default)")
	eldSyncCmd.Flags().BoolVar(&eldSyncDryRun, "dry-run", false, "Print planned operations without writing")
	eldSyncCmd.Flags().StringVar(&eldSyncTrip, "trip", "", "Trip ID; defaults to the most recent trip")
	eldCmd.AddCommand(eldSyncCmd)
}

func runELDSync(cmd *cobra.Command, args []string) error {
	now := time.Now().UTC()
	var from, to time.Time

	switch {
	case eldSyncDate != "":
		d, err := timecalc.ParseDay(eldSyncDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --date value %q: %v\n", eldSyncDate, err)
			os.Exit(1)
		}
		from = timecalc.StartOfDay(d)
		to = timecalc.Midnight(d)

	case eldSyncFrom != "" || eldSyncTo != "":
		if eldSyncTo != "" && eldSyncFrom == "" {
			fmt.Fprintln(os.Stderr, "--from is required when --to is specified")
			os.Exit(1)
		}
		var err error
		from, err = timecalc.ParseDay(eldSyncFrom)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --from value %q: %v\n", eldSyncFrom, err)
			os.Exit(1)
		}

		if eldSyncTo != "" {
			t, err := timecalc.ParseDay(eldSyncTo)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid --to value %q: %v\n", eldSyncTo, err)
				os.Exit(1)
			}
			to = timecalc.Midnight(t)
		} else {
			to = timecalc.Midnight(now)
		}

	default:
		// Default: today.
		from = timecalc.StartOfDay(now)
		to = timecalc.Midnight(now)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.ELD.BaseURL == "" || cfg.ELD.ClientID == "" {
		fmt.Fprintln(os.Stderr, "ELD provider not configured; set eld.base_url and eld.client_id in ~/.hoslog/config.json")
		os.Exit(1)
	}

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	trip, err := resolveTrip(base, eldSyncTrip)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	dryTag := ""
	if eldSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing ELD duty status for trip %q (%s → %s)%s...\n",
		trip.Name, from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)
	fmt.Println()

	ctx := context.Background()

	tok, oc, err := eldsync.Authenticate(ctx, cfg.ELD.BaseURL, cfg.ELD.ClientID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}

	client := eldsync.NewClient(ctx, cfg.ELD.BaseURL, tok, oc)

	records, err := client.GetDutyStatus(ctx, trip.DriverID, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch duty-status records: %v\n", err)
		os.Exit(1)
	}

	result, err := eldsync.SyncRecords(records, eldsync.SyncOptions{
		Base:   base,
		TripID: trip.ID,
		DryRun: eldSyncDryRun,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d rejected\n", result.Rejected)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
