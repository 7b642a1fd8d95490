package timecalc

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"
)

// GenerateID creates a unique event ID based on timestamp and random suffix.
func GenerateID(t time.Time) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		suffix[i] = chars[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", t.UTC().Format("20060102-150405"), string(suffix))
}

// DayKey returns the calendar-day key (YYYY-MM-DD, UTC) for t.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDay parses a YYYY-MM-DD day key into midnight UTC of that day.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t.UTC(), nil
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Midnight returns the start of the next day (24:00 of t's day).
func Midnight(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Hours converts whole minutes to hours rounded to 2 decimal places.
// Standard rounding, not truncation: 451 minutes -> 7.52.
func Hours(minutes int) float64 {
	return math.Round(float64(minutes)/60.0*100) / 100
}

// FormatMinutes formats a minute count as a human-readable string like
// "11h 0m" or "45m".
func FormatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatClock formats t as HH:MM (UTC).
func FormatClock(t time.Time) string {
	return t.UTC().Format("15:04")
}
