package commands

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/infra/uow"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	eventReservationCreated       = "reservation.created"
	eventReservationCancelled     = "reservation.cancelled"
	eventReservationStatusChanged = "reservation.status_changed"
	eventReservationDeleted       = "reservation.deleted"
)

type CreateReservationInput struct {
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	PartySize       int
	Date            string
	Time            string
	SeatingType     string
	SpecialRequests *string
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, input CreateReservationInput) (*queries.ReservationView, error)
	CancelReservation(ctx context.Context, id uuid.UUID, reason *string) (*queries.ReservationView, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, reason *string) (*queries.ReservationView, error)
	DeleteReservation(ctx context.Context, id uuid.UUID) error
}

type reservationCommandsImpl struct {
	uow       shared.UnitOfWork
	settings  shared.Settings
	blocked   queries.BlockedDateReader
	publisher shared.EventPublisher
	clock     clock.Clock
}

func NewReservationCommands(
	unitOfWork shared.UnitOfWork,
	settings shared.Settings,
	blocked queries.BlockedDateReader,
	publisher shared.EventPublisher,
	clk clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:       unitOfWork,
		settings:  settings,
		blocked:   blocked,
		publisher: publisher,
		clock:     clk,
	}
}

// CreateReservation admits a new reservation against slot capacity. The
// capacity check and the insert run in one atomic unit serialized per
// SlotKey; two requests racing for the last seats cannot both commit.
func (c *reservationCommandsImpl) CreateReservation(ctx context.Context, input CreateReservationInput) (*queries.ReservationView, error) {
	entity, err := c.validateAndBuild(ctx, input)
	if err != nil {
		return nil, err
	}

	key := entity.SlotKey()
	partySize := entity.PartySize().Value()
	totalCapacity := c.settings.Capacity(entity.Seating())

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The lock row must be taken before the occupancy read; it is
		// what turns check-then-act into a serialized unit.
		if err := tx.SlotLocks().Acquire(ctx, key); err != nil {
			return err
		}

		booked, err := tx.Reservations().BookedCount(ctx, key)
		if err != nil {
			return err
		}

		remaining := totalCapacity - booked
		if remaining < partySize {
			if remaining < 0 {
				remaining = 0
			}
			return errs.Mark(&CapacityExhaustedError{Remaining: remaining}, ErrCapacityExhausted)
		}

		if err := tx.Reservations().Create(ctx, entity); err != nil {
			return err
		}
		return tx.SlotLocks().Record(ctx, key, entity.ID(), c.clock.Now())
	})
	if err != nil {
		if errors.Is(err, uow.ErrMaxRetriesExceeded) {
			return nil, errs.Mark(err, ErrReservationConflict)
		}
		return nil, err
	}

	c.publish(ctx, eventReservationCreated, entity)
	return viewFromEntity(entity), nil
}

func (c *reservationCommandsImpl) validateAndBuild(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	date, err := reservation.ParseDateKey(input.Date)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDate)
	}

	seating := reservation.SeatingType(input.SeatingType)
	if !seating.IsValid() {
		return nil, ErrInvalidSeatingType
	}
	if !c.settings.IsConfiguredSlot(input.Time) {
		return nil, ErrUnknownTimeSlot
	}
	if !c.settings.IsDateWithinBookingWindow(date, c.clock.Now()) {
		return nil, ErrOutsideBookingWindow
	}

	blocked, err := c.blocked.Find(ctx, date)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}
	if blocked != nil {
		return nil, ErrDateBlocked
	}

	contact, err := reservation.NewGuestContact(input.GuestName, input.GuestEmail, input.GuestPhone)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	partySize, err := reservation.NewPartySize(input.PartySize, c.settings.MaxPartySize())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	entity, err := reservation.NewReservation(c.clock.Now(), reservation.NewReservationParams{
		Contact:         contact,
		PartySize:       partySize,
		Date:            date,
		SlotTime:        input.Time,
		Seating:         seating,
		SpecialRequests: input.SpecialRequests,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	return entity, nil
}

// CancelReservation enforces the cancellation-window rule before
// delegating to the cancelled transition.
func (c *reservationCommandsImpl) CancelReservation(ctx context.Context, id uuid.UUID, reason *string) (*queries.ReservationView, error) {
	var updated *reservation.Reservation

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		switch {
		case res.Status() == reservation.StatusCancelled:
			return ErrAlreadyCancelled
		case res.Status().IsTerminal():
			return ErrNotCancellable
		}

		now := c.clock.Now()
		hoursUntil := res.StartsAt(c.settings.Location()).Sub(now).Hours()
		window := c.settings.CancellationWindowHours()
		if hoursUntil < float64(window) {
			return errs.Mark(&CancellationWindowError{
				RequiredHours: window,
				ActualHours:   int(math.Floor(hoursUntil)),
			}, ErrCancellationWindow)
		}

		if err := res.TransitionTo(reservation.StatusCancelled, now, reason); err != nil {
			return c.markTransition(err)
		}
		if err := tx.Reservations().Save(ctx, res); err != nil {
			return err
		}
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, eventReservationCancelled, updated)
	return viewFromEntity(updated), nil
}

func (c *reservationCommandsImpl) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, reason *string) (*queries.ReservationView, error) {
	target := reservation.Status(newStatus)
	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	var updated *reservation.Reservation

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if err := res.TransitionTo(target, c.clock.Now(), reason); err != nil {
			return c.markTransition(err)
		}
		if err := tx.Reservations().Save(ctx, res); err != nil {
			return err
		}
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	routingKey := eventReservationStatusChanged
	if target == reservation.StatusCancelled {
		routingKey = eventReservationCancelled
	}
	c.publish(ctx, routingKey, updated)
	return viewFromEntity(updated), nil
}

func (c *reservationCommandsImpl) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Reservations().Delete(ctx, id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := c.publisher.Publish(ctx, eventReservationDeleted, map[string]any{
		"reservation_id": id,
		"occurred_at":    c.clock.Now(),
	}); err != nil {
		slog.Warn("failed to publish reservation event",
			"routing_key", eventReservationDeleted,
			"reservation_id", id,
			"error", err.Error())
	}
	return nil
}

func (c *reservationCommandsImpl) markTransition(err error) error {
	var illegal *reservation.IllegalTransitionError
	if errors.As(err, &illegal) {
		return errs.Mark(err, ErrIllegalTransition)
	}
	return errs.Mark(err, ErrDomainValidation)
}

type reservationEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	GuestEmail    string    `json:"guest_email"`
	PartySize     int       `json:"party_size"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	SeatingType   string    `json:"seating_type"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Events are best-effort; reservation state is already committed.
func (c *reservationCommandsImpl) publish(ctx context.Context, routingKey string, res *reservation.Reservation) {
	event := reservationEvent{
		ReservationID: res.ID(),
		GuestEmail:    res.Contact().Email(),
		PartySize:     res.PartySize().Value(),
		Date:          res.Date().String(),
		Time:          res.SlotTime(),
		SeatingType:   res.Seating().String(),
		Status:        res.Status().String(),
		OccurredAt:    c.clock.Now(),
	}
	if err := c.publisher.Publish(ctx, routingKey, event); err != nil {
		slog.Warn("failed to publish reservation event",
			"routing_key", routingKey,
			"reservation_id", res.ID(),
			"error", err.Error())
	}
}

func viewFromEntity(res *reservation.Reservation) *queries.ReservationView {
	contact := res.Contact()
	return &queries.ReservationView{
		ID:                 res.ID(),
		GuestName:          contact.Name(),
		GuestEmail:         contact.Email(),
		GuestPhone:         contact.Phone(),
		PartySize:          res.PartySize().Value(),
		Date:               res.Date().String(),
		Time:               res.SlotTime(),
		SeatingType:        res.Seating().String(),
		Status:             res.Status().String(),
		SpecialRequests:    res.SpecialRequests(),
		CancellationReason: res.CancellationReason(),
		CreatedAt:          res.CreatedAt(),
		UpdatedAt:          res.UpdatedAt(),
		CancelledAt:        res.CancelledAt(),
	}
}
