package shared

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"

	"github.com/google/uuid"
)

// UnitOfWork runs fn inside one atomic transaction. Detected write
// conflicts are retried with the same fn up to the implementation's
// retry budget; on any failure no writes are applied.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	SlotLocks() SlotLockRepository
	BlockedDates() BlockedDateRepository
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	// FindForUpdate locks the row for the remainder of the transaction.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// Save persists status, timestamps and cancellation fields of an
	// already-created reservation.
	Save(ctx context.Context, res *reservation.Reservation) error
	Delete(ctx context.Context, id uuid.UUID) error
	// BookedCount sums party sizes of occupying reservations for the key,
	// read inside the current transaction.
	BookedCount(ctx context.Context, key reservation.SlotKey) (int, error)
}

// SlotLockRepository owns the per-SlotKey serialization records. Acquire
// must be called before any capacity read so concurrent commits against
// the same key conflict instead of racing.
type SlotLockRepository interface {
	Acquire(ctx context.Context, key reservation.SlotKey) error
	Record(ctx context.Context, key reservation.SlotKey, reservationID uuid.UUID, at time.Time) error
}

type BlockedDateRepository interface {
	Create(ctx context.Context, date reservation.DateKey, reason string, now time.Time) error
	Delete(ctx context.Context, date reservation.DateKey) error
}

// EventPublisher announces lifecycle changes to interested consumers.
// Publishing is best-effort; reservation state is committed first.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
