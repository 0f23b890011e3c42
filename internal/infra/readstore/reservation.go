package readstore

import (
	"context"
	"fmt"
	"strings"

	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

const reservationViewColumns = `
SELECT id, guest_name, guest_email, guest_phone, party_size,
       date_key, slot_time, seating_type, status,
       special_requests, cancellation_reason,
       created_at, updated_at, cancelled_at
FROM reservations`

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row := r.db.QueryRow(ctx, reservationViewColumns+` WHERE id = $1`, id)
	view, err := scanReservationView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return view, nil
}

func (r *ReservationReadStore) List(ctx context.Context, filters queries.ReservationFilters) ([]*queries.ReservationView, error) {
	query, args := buildListQuery(filters)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	result := make([]*queries.ReservationView, 0)
	for rows.Next() {
		view, err := scanReservationView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return result, nil
}

// buildListQuery renders the filtered list query. Ordered by date
// descending, newest first within a date.
func buildListQuery(filters queries.ReservationFilters) (string, []any) {
	var conditions []string
	var args []any

	appendCondition := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filters.Status != nil {
		appendCondition("status", filters.Status.String())
	}
	if filters.Date != nil {
		appendCondition("date_key", filters.Date.String())
	}
	if filters.GuestEmail != nil {
		appendCondition("guest_email", *filters.GuestEmail)
	}
	if filters.SeatingType != nil {
		appendCondition("seating_type", filters.SeatingType.String())
	}

	var sb strings.Builder
	sb.WriteString(reservationViewColumns)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY date_key DESC, created_at DESC")

	args = append(args, filters.Limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	args = append(args, filters.Offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	return sb.String(), args
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	var (
		view               queries.ReservationView
		specialRequests    pgtype.Text
		cancellationReason pgtype.Text
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
		cancelledAt        pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.GuestName, &view.GuestEmail, &view.GuestPhone, &view.PartySize,
		&view.Date, &view.Time, &view.SeatingType, &view.Status,
		&specialRequests, &cancellationReason,
		&createdAt, &updatedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}
	view.SpecialRequests = pgconv.StringPtrFromPgtype(specialRequests)
	view.CancellationReason = pgconv.StringPtrFromPgtype(cancellationReason)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	view.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	return &view, nil
}
