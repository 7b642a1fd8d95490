package model

import "time"

// Trip is the unit of scope for the compliance engine: one driver, one trip,
// one append-only event log.
type Trip struct {
	ID              string    `json:"id"`
	DriverID        string    `json:"driver_id"`
	Name            string    `json:"name,omitempty"`
	PickupLocation  string    `json:"pickup_location,omitempty"`
	DropoffLocation string    `json:"dropoff_location,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TripFile is the top-level structure stored in each per-trip JSON file.
type TripFile struct {
	Trip   Trip        `json:"trip"`
	Events []DutyEvent `json:"events"`
}

// RemarkFile is the side-table file holding remarks for one trip.
type RemarkFile struct {
	TripID  string   `json:"trip_id"`
	Remarks []Remark `json:"remarks"`
}
