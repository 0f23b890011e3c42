package components

import (
	"tablebook/internal/handler"
	"tablebook/internal/handler/api"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewReservationHandler,
		api.NewBlockedDateHandler,
		NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAuthMiddleware(cfg config.Config) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(cfg.JWT)
}

func NewHandlers(availability *api.AvailabilityHandler, reservation *api.ReservationHandler, blockedDate *api.BlockedDateHandler) handler.Handlers {
	return handler.Handlers{
		Availability: availability,
		Reservation:  reservation,
		BlockedDate:  blockedDate,
	}
}
