package shared

import (
	"time"

	"tablebook/internal/domain/reservation"
)

// Settings supplies the restaurant's operating parameters. Implementations
// are read-mostly; usecases fetch values once per operation instead of
// holding them as ambient state.
type Settings interface {
	Capacity(seating reservation.SeatingType) int
	TimeSlots() []string
	IsConfiguredSlot(slotTime string) bool
	MaxAdvanceBookingDays() int
	CancellationWindowHours() int
	MaxPartySize() int
	Location() *time.Location
	IsDateWithinBookingWindow(date reservation.DateKey, now time.Time) bool
}
