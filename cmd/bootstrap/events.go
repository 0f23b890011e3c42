package bootstrap

import (
	"context"
	"log/slog"

	"tablebook/internal/infra/events"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase/shared"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		NewEventPublisher,
	),
)

// NewEventPublisher connects to the broker when one is configured,
// otherwise events are silently dropped.
func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.EventPublisher, error) {
	if cfg.Events.URL == "" {
		logger.Info("no broker configured, reservation events disabled")
		return events.NewNopPublisher(), nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.Events)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			publisher.Close()
			return nil
		},
	})

	return publisher, nil
}
