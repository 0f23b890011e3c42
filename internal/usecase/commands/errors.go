package commands

import (
	"fmt"

	"tablebook/internal/pkg/errs"
)

var (
	ErrInvalidDate          = errs.New("invalid reservation date")
	ErrInvalidSeatingType   = errs.New("invalid seating type")
	ErrUnknownTimeSlot      = errs.New("time is not a configured slot")
	ErrOutsideBookingWindow = errs.New("date outside booking window")
	ErrDateBlocked          = errs.New("date is blocked for reservations")
	ErrDomainValidation     = errs.New("domain validation error")
	ErrCapacityExhausted    = errs.New("slot capacity exhausted")
	ErrReservationConflict  = errs.New("reservation conflict")
	ErrReservationNotFound  = errs.New("reservation not found")
	ErrInvalidStatus        = errs.New("invalid reservation status")
	ErrIllegalTransition    = errs.New("illegal status transition")
	ErrAlreadyCancelled     = errs.New("reservation already cancelled")
	ErrNotCancellable       = errs.New("reservation is not cancellable")
	ErrCancellationWindow   = errs.New("inside cancellation window")
	ErrDateAlreadyBlocked   = errs.New("date already blocked")
	ErrBlockedDateNotFound  = errs.New("blocked date not found")
)

// CapacityExhaustedError reports how many seats were actually left at
// commit time. Remaining is clamped at zero for display.
type CapacityExhaustedError struct {
	Remaining int
}

func (e *CapacityExhaustedError) Error() string {
	return fmt.Sprintf("insufficient capacity: %d seats remaining", e.Remaining)
}

// CancellationWindowError carries the configured window and the actual.
// lead time, floored to whole hours.
type CancellationWindowError struct {
	RequiredHours int
	ActualHours   int
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("cancellation requires %d hours notice, only %d hours remain", e.RequiredHours, e.ActualHours)
}
