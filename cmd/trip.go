package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/haulstack/hoslog/internal/config"
	"github.com/haulstack/hoslog/internal/model"
	"github.com/haulstack/hoslog/internal/storage"
)

var (
	tripNewPickup  string
	tripNewDropoff string
)

var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Manage trips",
}

var tripNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripNew,
}

var tripListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trips, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTripList,
}

func init() {
	tripNewCmd.Flags().StringVar(&tripNewPickup, "pickup", "", "Pickup location")
	tripNewCmd.Flags().StringVar(&tripNewDropoff, "dropoff", "", "Drop-off location")
	tripCmd.AddCommand(tripNewCmd)
	tripCmd.AddCommand(tripListCmd)
}

func runTripNew(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	trip := model.Trip{
		ID:              uuid.NewString(),
		DriverID:        cfg.Driver.ID,
		Name:            args[0],
		PickupLocation:  tripNewPickup,
		DropoffLocation: tripNewDropoff,
		CreatedAt:       time.Now().UTC(),
	}

	if err := storage.SaveTrip(base, model.TripFile{Trip: trip}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Created trip %q (%s)\n", trip.Name, trip.ID)
	return nil
}

func runTripList(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	trips, err := storage.ListTrips(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if len(trips) == 0 {
		fmt.Println("No trips yet. Create one with: hoslog trip new <name>")
		return nil
	}

	for _, t := range trips {
		route := ""
		if t.PickupLocation != "" || t.DropoffLocation != "" {
			route = fmt.Sprintf("  %s -> %s", t.PickupLocation, t.DropoffLocation)
		}
		fmt.Printf("%s  %s  %-20s%s\n",
			t.CreatedAt.Format("2006-01-02"), t.ID, t.Name, route)
	}
	return nil
}

// resolveTrip returns the trip identified by the --trip flag, or the most
// recently created trip when the flag is empty.
func resolveTrip(base, flag string) (model.Trip, error) {
	if flag != "" {
		tf, err := storage.LoadTrip(base, flag)
		if err != nil {
			return model.Trip{}, err
		}
		return tf.Trip, nil
	}
	trips, err := storage.ListTrips(base)
	if err != nil {
		return model.Trip{}, err
	}
	if len(trips) == 0 {
		return model.Trip{}, fmt.Errorf("no trips found; create one with: hoslog trip new <name>")
	}
	return trips[0], nil
}
