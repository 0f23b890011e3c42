package commands

import (
	"context"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/shared"
)

type BlockedDateCommands interface {
	BlockDate(ctx context.Context, date string, reason string) error
	UnblockDate(ctx context.Context, date string) error
}

type blockedDateCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBlockedDateCommands(unitOfWork shared.UnitOfWork, clk clock.Clock) BlockedDateCommands {
	return &blockedDateCommandsImpl{uow: unitOfWork, clock: clk}
}

func (c *blockedDateCommandsImpl) BlockDate(ctx context.Context, date string, reason string) error {
	dateKey, err := reservation.ParseDateKey(date)
	if err != nil {
		return errs.Mark(err, ErrInvalidDate)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.BlockedDates().Create(ctx, dateKey, reason, c.clock.Now()); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDateAlreadyBlocked
			}
			return err
		}
		return nil
	})
}

func (c *blockedDateCommandsImpl) UnblockDate(ctx context.Context, date string) error {
	dateKey, err := reservation.ParseDateKey(date)
	if err != nil {
		return errs.Mark(err, ErrInvalidDate)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.BlockedDates().Delete(ctx, dateKey); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBlockedDateNotFound
			}
			return err
		}
		return nil
	})
}
