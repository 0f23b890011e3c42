package reservation

import (
	"time"

	"github.com/google/uuid"
)

type NewReservationParams struct {
	Contact         GuestContact
	PartySize       PartySize
	Date            DateKey
	SlotTime        string
	Seating         SeatingType
	SpecialRequests *string
}

type Reservation struct {
	id                 uuid.UUID
	contact            GuestContact
	partySize          PartySize
	date               DateKey
	slotTime           string
	seating            SeatingType
	status             Status
	specialRequests    *string
	cancellationReason *string
	createdAt          time.Time
	updatedAt          time.Time
	cancelledAt        *time.Time
}

// NewReservation builds a confirmed reservation. Capacity admission and
// booking-window checks belong to the usecase layer; this only enforces
// shape invariants.
func NewReservation(now time.Time, p NewReservationParams) (*Reservation, error) {
	if err := ValidateSlotTime(p.SlotTime); err != nil {
		return nil, err
	}
	if !p.Seating.IsValid() {
		return nil, &InvalidSeatingError{Value: string(p.Seating)}
	}
	return &Reservation{
		id:              uuid.New(),
		contact:         p.Contact,
		partySize:       p.PartySize,
		date:            p.Date,
		slotTime:        p.SlotTime,
		seating:         p.Seating,
		status:          StatusConfirmed,
		specialRequests: p.SpecialRequests,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	contact GuestContact,
	partySize PartySize,
	date DateKey,
	slotTime string,
	seating SeatingType,
	status Status,
	specialRequests *string,
	cancellationReason *string,
	createdAt, updatedAt time.Time,
	cancelledAt *time.Time,
) *Reservation {
	return &Reservation{
		id:                 id,
		contact:            contact,
		partySize:          partySize,
		date:               date,
		slotTime:           slotTime,
		seating:            seating,
		status:             status,
		specialRequests:    specialRequests,
		cancellationReason: cancellationReason,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		cancelledAt:        cancelledAt,
	}
}

type InvalidSeatingError struct {
	Value string
}

func (e *InvalidSeatingError) Error() string {
	return "invalid seating type: " + e.Value
}

// TransitionTo applies the adjacency table. Entering cancelled records
// the cancellation timestamp and optional reason.
func (r *Reservation) TransitionTo(next Status, now time.Time, reason *string) error {
	if !next.IsValid() {
		return &IllegalTransitionError{From: r.status, To: next}
	}
	if !r.status.CanTransitionTo(next) {
		return &IllegalTransitionError{From: r.status, To: next}
	}
	r.status = next
	r.updatedAt = now
	if next == StatusCancelled {
		at := now
		r.cancelledAt = &at
		r.cancellationReason = reason
	}
	return nil
}

func (r *Reservation) SlotKey() SlotKey {
	return NewSlotKey(r.date, r.slotTime, r.seating)
}

// StartsAt is the scheduled seating time in the restaurant's timezone.
func (r *Reservation) StartsAt(loc *time.Location) time.Time {
	return r.SlotKey().StartsAt(loc)
}

func (r *Reservation) IsOccupying() bool {
	return r.status.IsOccupying()
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) Contact() GuestContact       { return r.contact }
func (r *Reservation) PartySize() PartySize        { return r.partySize }
func (r *Reservation) Date() DateKey               { return r.date }
func (r *Reservation) SlotTime() string            { return r.slotTime }
func (r *Reservation) Seating() SeatingType        { return r.seating }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) SpecialRequests() *string    { return r.specialRequests }
func (r *Reservation) CancellationReason() *string { return r.cancellationReason }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }
func (r *Reservation) CancelledAt() *time.Time     { return r.cancelledAt }
