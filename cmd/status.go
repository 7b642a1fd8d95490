package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/haulstack/hoslog/internal/hos"
	"github.com/haulstack/hoslog/internal/storage"
	"github.com/haulstack/hoslog/internal/timecalc"
)

var statusTrip string

var (
	statusHeaderStyle = lipgloss.NewStyle().Bold(true)
	statusOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	statusWarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusBadStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show remaining hours under each limit",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusTrip, "trip", "", "Trip ID; defaults to the most recent trip")
}

// allowanceLine renders one "remaining" row, coloured by how close the
// counter is to its limit.
func allowanceLine(label string, used, limit int) string {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	value := fmt.Sprintf("%s of %s", timecalc.FormatMinutes(remaining), timecalc.FormatMinutes(limit))
	style := statusOKStyle
	switch {
	case remaining == 0:
		style = statusBadStyle
	case remaining*5 < limit:
		style = statusWarnStyle
	}
	return fmt.Sprintf("  %-28s%s", label, style.Render(value))
}

func runStatus(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	trip, err := resolveTrip(base, statusTrip)
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
		fmt.Printf("No events on trip %q. All limits fresh.\n", trip.Name)
		return nil
	}

	intervals, err := hos.Normalize(tf.Events, hos.NormalizeOptions{SeedDayStart: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	snaps := hos.Track(intervals)
	if len(snaps) == 0 {
		fmt.Printf("No events on trip %q. All limits fresh.\n", trip.Name)
		return nil
	}
	last := snaps[len(snaps)-1]

	fmt.Println(statusHeaderStyle.Render(fmt.Sprintf("Trip %q", trip.Name)))
	fmt.Println(statusDimStyle.Render(fmt.Sprintf("as of %s, current status %s",
		timecalc.FormatClock(last.At), last.Interval.Status)))
	fmt.Println()
	fmt.Println(allowanceLine("Driving until break", last.DrivingSinceBreakMin, hos.BreakDrivingLimitMin))
	fmt.Println(allowanceLine("Driving in duty window", last.DutyInWindowMin, hos.DrivingLimitMin))
	fmt.Println(allowanceLine("Duty window", last.WindowElapsedMin, hos.DutyWindowLimitMin))
	fmt.Println(allowanceLine("Cycle (8 days)", last.CycleMin, hos.CycleLimitMin))
	return nil
}
