package repository

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"

	"github.com/google/uuid"
)

// SlotLockRepository owns the slot_locks rows, one per SlotKey. Every
// reservation-creating transaction must pass through Acquire before it
// reads capacity: the row lock forces concurrent attempts on the same
// key to serialize instead of committing on stale occupancy.
type SlotLockRepository struct {
	db db.DBTX
}

func NewSlotLockRepository(dbtx db.DBTX) *SlotLockRepository {
	return &SlotLockRepository{db: dbtx}
}

const (
	insertSlotLockSQL = `
INSERT INTO slot_locks (date_key, slot_time, seating_type, locked_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (date_key, slot_time, seating_type) DO NOTHING`

	lockSlotSQL = `
SELECT locked_at FROM slot_locks
WHERE date_key = $1 AND slot_time = $2 AND seating_type = $3
FOR UPDATE`

	recordSlotLockSQL = `
UPDATE slot_locks
SET last_reservation_id = $4, locked_at = $5
WHERE date_key = $1 AND slot_time = $2 AND seating_type = $3`
)

func (r *SlotLockRepository) Acquire(ctx context.Context, key reservation.SlotKey) error {
	if _, err := r.db.Exec(ctx, insertSlotLockSQL, key.Date.String(), key.Time, key.Seating.String()); err != nil {
		return infra.WrapRepoErr("failed to ensure slot lock record", err)
	}

	var lockedAt time.Time
	err := r.db.QueryRow(ctx, lockSlotSQL, key.Date.String(), key.Time, key.Seating.String()).Scan(&lockedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to lock slot record", err)
	}
	return nil
}

func (r *SlotLockRepository) Record(ctx context.Context, key reservation.SlotKey, reservationID uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, recordSlotLockSQL, key.Date.String(), key.Time, key.Seating.String(), reservationID, at)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("reservation referenced by slot lock does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to record slot lock", err)
	}
	if tag.RowsAffected() == 0 {
		// Acquire must have run in the same transaction.
		return infra.WrapRepoErr("slot lock record missing", nil, infra.KindConflict)
	}
	return nil
}
