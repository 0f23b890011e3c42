package queries

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrReservationNotFound = errs.New("reservation not found")

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

// Read model (DTO for read side)
type ReservationView struct {
	ID                 uuid.UUID  `json:"id"`
	GuestName          string     `json:"guest_name"`
	GuestEmail         string     `json:"guest_email"`
	GuestPhone         string     `json:"guest_phone,omitempty"`
	PartySize          int        `json:"party_size"`
	Date               string     `json:"date"`
	Time               string     `json:"time"`
	SeatingType        string     `json:"seating_type"`
	Status             string     `json:"status"`
	SpecialRequests    *string    `json:"special_requests,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
}

type ReservationFilters struct {
	Status      *reservation.Status
	Date        *reservation.DateKey
	GuestEmail  *string
	SeatingType *reservation.SeatingType
	Limit       int
	Offset      int
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	List(ctx context.Context, filters ReservationFilters) ([]*ReservationView, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	List(ctx context.Context, filters ReservationFilters) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) List(ctx context.Context, filters ReservationFilters) ([]*ReservationView, error) {
	filters.Limit = ValidateLimit(filters.Limit)
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return q.store.List(ctx, filters)
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
