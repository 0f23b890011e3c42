package components

import (
	"tablebook/internal/infra/db"
	"tablebook/internal/infra/readstore"
	"tablebook/internal/infra/settings"
	"tablebook/internal/infra/uow"
	"tablebook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		settings.NewProvider,
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewAvailabilityReadStore,
			fx.As(new(queries.OccupancyReader)),
		),
		fx.Annotate(
			readstore.NewBlockedDateReadStore,
			fx.As(new(queries.BlockedDateReader)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
