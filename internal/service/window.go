package service

import (
	"strings"
	"time"
)

// BookingDuration is how long a confirmed booking occupies its table.
const BookingDuration = 2 * time.Hour

// BookingWindow is the half-open interval [Start, End).
type BookingWindow struct {
	Start time.Time
	End   time.Time
}

func WindowAt(start time.Time) BookingWindow {
	return BookingWindow{Start: start, End: start.Add(BookingDuration)}
}

func (w BookingWindow) Overlaps(other BookingWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// OverlappingStarts returns the open range (after, before) that holds the
// start time of every booking window overlapping w.
func (w BookingWindow) OverlappingStarts() (after, before time.Time) {
	return w.Start.Add(-BookingDuration), w.End
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseBookingTime accepts RFC 3339 timestamps and zone-less local
// timestamps, which are read in loc. The result is in UTC.
func ParseBookingTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, validationErrorf("booking time is required")
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationErrorf("invalid booking time %q", raw)
}
