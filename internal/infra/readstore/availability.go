package readstore

import (
	"context"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
)

// AvailabilityReadStore serves occupancy sums outside any transaction.
// Results may trail in-flight commits; the transactional path re-checks.
type AvailabilityReadStore struct {
	db db.DBTX
}

func NewAvailabilityReadStore(dbtx db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{db: dbtx}
}

const bookedCountSQL = `
SELECT COALESCE(SUM(party_size), 0)
FROM reservations
WHERE date_key = $1 AND slot_time = $2 AND seating_type = $3
  AND status = ANY($4)`

func (r *AvailabilityReadStore) BookedCount(ctx context.Context, key reservation.SlotKey) (int, error) {
	statuses := make([]string, 0, 3)
	for _, s := range reservation.OccupyingStatuses() {
		statuses = append(statuses, s.String())
	}

	var booked int
	err := r.db.QueryRow(ctx, bookedCountSQL, key.Date.String(), key.Time, key.Seating.String(), statuses).Scan(&booked)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to read booked count", err)
	}
	return booked, nil
}
