package entities

import (
	"strings"
	"time"
)

const slotClockLayout = "03:04 PM"

// TimeSlots is the fixed catalog offered on the booking calendar. Slots are
// never checked against existing bookings.
var TimeSlots = []string{
	"10:00 AM - 10:15 AM",
	"10:30 AM - 10:45 AM",
	"11:00 AM - 11:15 AM",
	"11:30 AM - 11:45 AM",
	"12:00 PM - 12:15 PM",
	"12:30 PM - 12:45 PM",
	"01:00 PM - 01:15 PM",
	"01:30 PM - 01:45 PM",
	"03:00 PM - 03:15 PM",
	"03:30 PM - 03:45 PM",
	"04:00 PM - 04:15 PM",
	"04:30 PM - 04:45 PM",
}

// SlotStart parses the clock time a slot label starts at. Both range
// labels ("10:00 AM - 10:15 AM") and bare times ("3:00 PM") are accepted.
func SlotStart(label string) (time.Time, bool) {
	start, _, _ := strings.Cut(label, "-")
	start = strings.ToUpper(strings.TrimSpace(start))
	if start == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{slotClockLayout, "3:04 PM", "15:04"} {
		if t, err := time.Parse(layout, start); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsKnownSlot reports whether label is part of TimeSlots
func IsKnownSlot(label string) bool {
	for _, s := range TimeSlots {
		if s == label {
			return true
		}
	}
	return false
}
