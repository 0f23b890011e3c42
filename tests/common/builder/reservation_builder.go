//go:build unit || e2e

package builder

import (
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/usecase/commands"
)

type ReservationBuilder struct {
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	PartySize       int
	MaxPartySize    int
	Date            string
	Time            string
	Seating         reservation.SeatingType
	SpecialRequests *string
	Now             time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		GuestName:    "Ada Lovelace",
		GuestEmail:   "ada@example.com",
		GuestPhone:   "+44 20 7946 0123",
		PartySize:    4,
		MaxPartySize: 12,
		Date:         "2026-09-15",
		Time:         "19:00",
		Seating:      reservation.SeatingIndoor,
		Now:          time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	contact, err := reservation.NewGuestContact(b.GuestName, b.GuestEmail, b.GuestPhone)
	if err != nil {
		return nil, err
	}
	partySize, err := reservation.NewPartySize(b.PartySize, b.MaxPartySize)
	if err != nil {
		return nil, err
	}
	date, err := reservation.ParseDateKey(b.Date)
	if err != nil {
		return nil, err
	}
	return reservation.NewReservation(b.Now, reservation.NewReservationParams{
		Contact:         contact,
		PartySize:       partySize,
		Date:            date,
		SlotTime:        b.Time,
		Seating:         b.Seating,
		SpecialRequests: b.SpecialRequests,
	})
}

func (b *ReservationBuilder) BuildInput() commands.CreateReservationInput {
	return commands.CreateReservationInput{
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		PartySize:       b.PartySize,
		Date:            b.Date,
		Time:            b.Time,
		SeatingType:     b.Seating.String(),
		SpecialRequests: b.SpecialRequests,
	}
}
