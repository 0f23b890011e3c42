package repository

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
)

type BlockedDateRepository struct {
	db db.DBTX
}

func NewBlockedDateRepository(dbtx db.DBTX) *BlockedDateRepository {
	return &BlockedDateRepository{db: dbtx}
}

func (r *BlockedDateRepository) Create(ctx context.Context, date reservation.DateKey, reason string, now time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO blocked_dates (date_key, reason, created_at) VALUES ($1, $2, $3)`,
		date.String(), reason, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("date already blocked", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to block date", err)
	}
	return nil
}

func (r *BlockedDateRepository) Delete(ctx context.Context, date reservation.DateKey) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blocked_dates WHERE date_key = $1`, date.String())
	if err != nil {
		return infra.WrapRepoErr("failed to unblock date", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("blocked date not found", nil, infra.KindNotFound)
	}
	return nil
}
