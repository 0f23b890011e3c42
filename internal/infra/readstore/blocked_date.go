package readstore

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/queries"
)

type BlockedDateReadStore struct {
	db db.DBTX
}

func NewBlockedDateReadStore(dbtx db.DBTX) *BlockedDateReadStore {
	return &BlockedDateReadStore{db: dbtx}
}

func (r *BlockedDateReadStore) Find(ctx context.Context, date reservation.DateKey) (*queries.BlockedDateView, error) {
	var (
		dateKey   string
		reason    string
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx,
		`SELECT date_key, reason, created_at FROM blocked_dates WHERE date_key = $1`,
		date.String(),
	).Scan(&dateKey, &reason, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("blocked date not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find blocked date", err)
	}
	return &queries.BlockedDateView{
		Date:      reservation.DateKey(dateKey),
		Reason:    reason,
		CreatedAt: createdAt.Format(time.RFC3339),
	}, nil
}

func (r *BlockedDateReadStore) List(ctx context.Context) ([]*queries.BlockedDateView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT date_key, reason, created_at FROM blocked_dates ORDER BY date_key`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list blocked dates", err)
	}
	defer rows.Close()

	result := make([]*queries.BlockedDateView, 0)
	for rows.Next() {
		var (
			dateKey   string
			reason    string
			createdAt time.Time
		)
		if err := rows.Scan(&dateKey, &reason, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocked date", err)
		}
		result = append(result, &queries.BlockedDateView{
			Date:      reservation.DateKey(dateKey),
			Reason:    reason,
			CreatedAt: createdAt.Format(time.RFC3339),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate blocked dates", err)
	}
	return result, nil
}
