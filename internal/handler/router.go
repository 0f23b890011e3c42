package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"tablebook/internal/handler/api"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Availability *api.AvailabilityHandler
	Reservation  *api.ReservationHandler
	BlockedDate  *api.BlockedDateHandler
}

// NewRouter wires middleware and routes. The redis client is optional;
// when nil the availability endpoints serve uncached.
func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, handlers Handlers, authMiddleware *middleware.AuthMiddleware, rdb *redis.Client) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, cfg, handlers, authMiddleware, rdb)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware, rdb *redis.Client) {
	engine.GET("/health", healthCheck)

	v1 := engine.Group("/api/v1")
	{
		availability := v1.Group("/availability")
		if rdb != nil {
			availability.Use(middleware.AvailabilityCache(rdb, cfg.Redis.CacheTTL))
		}
		{
			addRoutes(availability, []route{
				{Method: http.MethodGet, Path: "", Handler: handlers.Availability.GetDailyAvailability},
				{Method: http.MethodGet, Path: "/slots", Handler: handlers.Availability.ListAvailableSlots},
			})
		}

		reservations := v1.Group("/reservations")
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: handlers.Reservation.CreateReservation},
				{Method: http.MethodGet, Path: "/:id", Handler: handlers.Reservation.GetReservation},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: handlers.Reservation.CancelReservation},
			})

			staffOnly := reservations.Group("")
			staffOnly.Use(authMiddleware.RequireStaff())
			addRoutes(staffOnly, []route{
				{Method: http.MethodGet, Path: "", Handler: handlers.Reservation.ListReservations},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: handlers.Reservation.UpdateStatus},
				{Method: http.MethodDelete, Path: "/:id", Handler: handlers.Reservation.DeleteReservation},
			})
		}

		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/blocked-dates", Handler: handlers.BlockedDate.ListBlockedDates},
				{Method: http.MethodPost, Path: "/blocked-dates", Handler: handlers.BlockedDate.BlockDate},
				{Method: http.MethodDelete, Path: "/blocked-dates/:date", Handler: handlers.BlockedDate.UnblockDate},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
