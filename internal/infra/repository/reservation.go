package repository

import (
	"context"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

const createReservationSQL = `
INSERT INTO reservations (
	id, guest_name, guest_email, guest_phone, party_size,
	date_key, slot_time, seating_type, status,
	special_requests, cancellation_reason,
	created_at, updated_at, cancelled_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	contact := res.Contact()
	_, err := r.db.Exec(ctx, createReservationSQL,
		res.ID(),
		contact.Name(),
		contact.Email(),
		contact.Phone(),
		res.PartySize().Value(),
		res.Date().String(),
		res.SlotTime(),
		res.Seating().String(),
		res.Status().String(),
		pgconv.StringPtrToPgtype(res.SpecialRequests()),
		pgconv.StringPtrToPgtype(res.CancellationReason()),
		res.CreatedAt(),
		res.UpdatedAt(),
		pgconv.TimePtrToPgtype(res.CancelledAt()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("reservation already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

const findReservationForUpdateSQL = `
SELECT id, guest_name, guest_email, guest_phone, party_size,
       date_key, slot_time, seating_type, status,
       special_requests, cancellation_reason,
       created_at, updated_at, cancelled_at
FROM reservations
WHERE id = $1
FOR UPDATE`

func (r *ReservationRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, findReservationForUpdateSQL, id)

	var (
		resID              uuid.UUID
		name, email, phone string
		partySize          int
		dateKey, slotTime  string
		seating, status    string
		specialRequests    pgtype.Text
		cancellationReason pgtype.Text
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
		cancelledAt        pgtype.Timestamptz
	)
	err := row.Scan(
		&resID, &name, &email, &phone, &partySize,
		&dateKey, &slotTime, &seating, &status,
		&specialRequests, &cancellationReason,
		&createdAt, &updatedAt, &cancelledAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation for update", err)
	}

	return reservation.Reconstruct(
		resID,
		reservation.ReconstructContact(name, email, phone),
		reservation.ReconstructPartySize(partySize),
		reservation.DateKey(dateKey),
		slotTime,
		reservation.SeatingType(seating),
		reservation.Status(status),
		pgconv.StringPtrFromPgtype(specialRequests),
		pgconv.StringPtrFromPgtype(cancellationReason),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
		pgconv.TimePtrFromPgtype(cancelledAt),
	), nil
}

const saveReservationSQL = `
UPDATE reservations
SET status = $2,
    updated_at = $3,
    cancelled_at = $4,
    cancellation_reason = $5
WHERE id = $1`

func (r *ReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	tag, err := r.db.Exec(ctx, saveReservationSQL,
		res.ID(),
		res.Status().String(),
		res.UpdatedAt(),
		pgconv.TimePtrToPgtype(res.CancelledAt()),
		pgconv.StringPtrToPgtype(res.CancellationReason()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

const bookedCountSQL = `
SELECT COALESCE(SUM(party_size), 0)
FROM reservations
WHERE date_key = $1 AND slot_time = $2 AND seating_type = $3
  AND status = ANY($4)`

func (r *ReservationRepository) BookedCount(ctx context.Context, key reservation.SlotKey) (int, error) {
	statuses := make([]string, 0, 3)
	for _, s := range reservation.OccupyingStatuses() {
		statuses = append(statuses, s.String())
	}

	var booked int
	err := r.db.QueryRow(ctx, bookedCountSQL, key.Date.String(), key.Time, key.Seating.String(), statuses).Scan(&booked)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sum booked party sizes", err)
	}
	return booked, nil
}
