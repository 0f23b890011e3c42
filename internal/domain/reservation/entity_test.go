//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.ReservationBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewReservationBuilder()
			tc.mutate(b)
			_, err := b.BuildDomain()
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestReservation(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, reservation.StatusConfirmed, actual.Status())
		assert.Equal(t, "Ada Lovelace", actual.Contact().Name())
		assert.Equal(t, 4, actual.PartySize().Value())
		assert.Equal(t, actual.CreatedAt(), actual.UpdatedAt())
		assert.Nil(t, actual.CancelledAt())
		assert.True(t, actual.IsOccupying())
	})

	t.Run("contact validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty guest name",
				mutate: func(b *builder.ReservationBuilder) { b.GuestName = "   " },
				errIs:  reservation.ErrEmptyGuestName,
			},
			{
				name:   "email without at sign",
				mutate: func(b *builder.ReservationBuilder) { b.GuestEmail = "ada.example.com" },
				errIs:  reservation.ErrInvalidEmail,
			},
			{
				name:   "email with nothing after at sign",
				mutate: func(b *builder.ReservationBuilder) { b.GuestEmail = "ada@" },
				errIs:  reservation.ErrInvalidEmail,
			},
			{
				name:   "phone is optional",
				mutate: func(b *builder.ReservationBuilder) { b.GuestPhone = "" },
			},
		})
	})

	t.Run("party size validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero party",
				mutate: func(b *builder.ReservationBuilder) { b.PartySize = 0 },
				errIs:  reservation.ErrInvalidParty,
			},
			{
				name:   "negative party",
				mutate: func(b *builder.ReservationBuilder) { b.PartySize = -2 },
				errIs:  reservation.ErrInvalidParty,
			},
			{
				name:   "single guest",
				mutate: func(b *builder.ReservationBuilder) { b.PartySize = 1 },
			},
			{
				name:   "at configured maximum",
				mutate: func(b *builder.ReservationBuilder) { b.PartySize = 12 },
			},
			{
				name:   "above configured maximum",
				mutate: func(b *builder.ReservationBuilder) { b.PartySize = 13 },
				errIs:  reservation.ErrPartyTooLarge,
			},
			{
				name: "no maximum configured",
				mutate: func(b *builder.ReservationBuilder) {
					b.PartySize = 30
					b.MaxPartySize = 0
				},
			},
		})
	})

	t.Run("slot validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "malformed slot time",
				mutate: func(b *builder.ReservationBuilder) { b.Time = "7pm" },
				errIs:  reservation.ErrInvalidSlotTime,
			},
			{
				name:   "malformed date",
				mutate: func(b *builder.ReservationBuilder) { b.Date = "15/09/2026" },
				errIs:  reservation.ErrInvalidDateKey,
			},
		})
	})

	t.Run("invalid seating", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		b.Seating = reservation.SeatingType("rooftop")
		_, err := b.BuildDomain()

		var invalid *reservation.InvalidSeatingError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "rooftop", invalid.Value)
	})
}

func TestReservationTransitions(t *testing.T) {
	now := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	newReservation := func(t *testing.T) *reservation.Reservation {
		t.Helper()
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		return res
	}

	t.Run("confirmed to seated to completed", func(t *testing.T) {
		res := newReservation(t)

		require.NoError(t, res.TransitionTo(reservation.StatusSeated, now, nil))
		assert.Equal(t, reservation.StatusSeated, res.Status())
		assert.Equal(t, now, res.UpdatedAt())

		require.NoError(t, res.TransitionTo(reservation.StatusCompleted, now.Add(2*time.Hour), nil))
		assert.Equal(t, reservation.StatusCompleted, res.Status())
		assert.True(t, res.Status().IsTerminal())
		assert.False(t, res.IsOccupying())
	})

	t.Run("cancelling records timestamp and reason", func(t *testing.T) {
		res := newReservation(t)
		reason := "guest called to cancel"

		require.NoError(t, res.TransitionTo(reservation.StatusCancelled, now, &reason))

		assert.Equal(t, reservation.StatusCancelled, res.Status())
		require.NotNil(t, res.CancelledAt())
		assert.Equal(t, now, *res.CancelledAt())
		require.NotNil(t, res.CancellationReason())
		assert.Equal(t, reason, *res.CancellationReason())
	})

	t.Run("terminal statuses reject further transitions", func(t *testing.T) {
		res := newReservation(t)
		require.NoError(t, res.TransitionTo(reservation.StatusCancelled, now, nil))

		err := res.TransitionTo(reservation.StatusConfirmed, now, nil)

		var illegal *reservation.IllegalTransitionError
		require.ErrorAs(t, err, &illegal)
		assert.Equal(t, reservation.StatusCancelled, illegal.From)
		assert.Equal(t, reservation.StatusConfirmed, illegal.To)
	})

	t.Run("unknown target status is illegal", func(t *testing.T) {
		res := newReservation(t)

		err := res.TransitionTo(reservation.Status("archived"), now, nil)

		var illegal *reservation.IllegalTransitionError
		require.ErrorAs(t, err, &illegal)
	})

	t.Run("confirmed cannot jump to completed", func(t *testing.T) {
		res := newReservation(t)

		err := res.TransitionTo(reservation.StatusCompleted, now, nil)

		var illegal *reservation.IllegalTransitionError
		require.ErrorAs(t, err, &illegal)
	})
}
