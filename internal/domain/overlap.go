package domain

import (
	"time"

	"github.com/m04kA/SMC-PetBookingService/pkg/types"
)

// SlotsOverlap reports whether two same-day slots intersect.
// Slots are half-open intervals [start, start+duration): a slot ending at
// 10:30 and one starting at 10:30 do not overlap, so back-to-back bookings
// are allowed.
func SlotsOverlap(aStart types.TimeString, aDurationMin int, bStart types.TimeString, bDurationMin int) bool {
	aFrom, bFrom := aStart.Minutes(), bStart.Minutes()
	if aFrom < 0 || bFrom < 0 {
		// unparseable time is treated as overlapping so it can never be double-booked
		return true
	}
	aTo := aFrom + aDurationMin
	bTo := bFrom + bDurationMin
	return aFrom < bTo && bFrom < aTo
}

// RangesOverlap reports whether two inclusive day ranges share at least one day.
// Unlike slots, touching ranges overlap: a caregiver cannot take a new stay
// on the handover day of the previous one.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !DateOnly(aStart).After(DateOnly(bEnd)) && !DateOnly(aEnd).Before(DateOnly(bStart))
}
