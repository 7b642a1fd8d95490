package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/haulstack/hoslog/internal/model"
)

// ErrTripNotFound is returned when no file exists for the requested trip.
var ErrTripNotFound = errors.New("trip not found")

// BaseDir returns the root data directory (~/.hoslog).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hoslog"), nil
}

// tripFilePath returns the path for the given trip's JSON file.
func tripFilePath(base, tripID string) string {
	return filepath.Join(base, "trips", tripID+".json")
}

// remarkFilePath returns the path for the given trip's remark side-table.
func remarkFilePath(base, tripID string) string {
	return filepath.Join(base, "trips", tripID+".remarks.json")
}

// LoadTrip reads a trip file. Returns ErrTripNotFound if none exists.
func LoadTrip(base, tripID string) (model.TripFile, error) {
	path := tripFilePath(base, tripID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.TripFile{}, fmt.Errorf("%w: %s", ErrTripNotFound, tripID)
	}
	if err != nil {
		return model.TripFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var tf model.TripFile
	if err := json.Unmarshal(data, &tf); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.TripFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return tf, nil
}

// SaveTrip atomically writes a trip file.
func SaveTrip(base string, tf model.TripFile) error {
	return writeJSON(tripFilePath(base, tf.Trip.ID), tf)
}

// AppendEvents loads a trip, appends the given events and saves it back.
// Validation is the caller's responsibility; the event log itself is
// append-only.
func AppendEvents(base, tripID string, events ...model.DutyEvent) error {
	tf, err := LoadTrip(base, tripID)
	if err != nil {
		return err
	}
	tf.Events = append(tf.Events, events...)
	return SaveTrip(base, tf)
}

// ListTrips returns all stored trips sorted by creation time, newest first.
func ListTrips(base string) ([]model.Trip, error) {
	dir := filepath.Join(base, "trips")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error listing %s: %w", dir, err)
	}

	var trips []model.Trip
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".remarks.json") {
			continue
		}
		tf, err := LoadTrip(base, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		trips = append(trips, tf.Trip)
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	return trips, nil
}

// LoadRemarks reads a trip's remark side-table. Returns an empty table if
// none exists; remarks are optional annotations, not part of the event log.
func LoadRemarks(base, tripID string) (model.RemarkFile, error) {
	path := remarkFilePath(base, tripID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.RemarkFile{TripID: tripID, Remarks: []model.Remark{}}, nil
	}
	if err != nil {
		return model.RemarkFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var rf model.RemarkFile
	if err := json.Unmarshal(data, &rf); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.RemarkFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return rf, nil
}

// SaveRemarks atomically writes a trip's remark side-table.
func SaveRemarks(base string, rf model.RemarkFile) error {
	return writeJSON(remarkFilePath(base, rf.TripID), rf)
}

// UpsertRemark replaces or appends the remark for its (trip, timestamp) key.
func UpsertRemark(base string, r model.Remark) error {
	rf, err := LoadRemarks(base, r.TripID)
	if err != nil {
		return err
	}
	for i, existing := range rf.Remarks {
		if existing.Timestamp.Equal(r.Timestamp) {
			rf.Remarks[i] = r
			return SaveRemarks(base, rf)
		}
	}
	rf.Remarks = append(rf.Remarks, r)
	return SaveRemarks(base, rf)
}

// writeJSON marshals v and writes it atomically: temp file then rename.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
