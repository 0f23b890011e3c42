package api

import (
	"errors"
	"log/slog"
	"net/http"

	"tablebook/internal/domain/reservation"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, qrs queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  qrs,
	}
}

// @Summary Create reservation
// @Description Book a slot for a party; capacity is checked transactionally
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.commands.CreateReservation(c.Request.Context(), req.ToInput())
	if err != nil {
		var capacity *commands.CapacityExhaustedError
		switch {
		case errors.Is(err, commands.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
		case errors.Is(err, commands.ErrInvalidSeatingType):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid seating type",
			})
		case errors.Is(err, commands.ErrUnknownTimeSlot):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Time is not an offered slot",
			})
		case errors.Is(err, commands.ErrOutsideBookingWindow):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Date is outside the booking window",
			})
		case errors.Is(err, commands.ErrDateBlocked):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Date is not open for reservations",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		case errors.As(err, &capacity):
			c.JSON(http.StatusConflict, gin.H{
				"error":           "Insufficient capacity for requested party size",
				"remaining_seats": capacity.Remaining,
			})
		case errors.Is(err, commands.ErrReservationConflict):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Reservation could not be processed, please retry",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Get reservation
// @Description Get reservation by ID
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List reservations
// @Description List reservations matching the given filters
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param date query string false "Date filter (YYYY-MM-DD)"
// @Param guest_email query string false "Guest email filter"
// @Param seating_type query string false "Seating type filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	filters, err := parseReservationFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	views, err := h.queries.List(c.Request.Context(), filters)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Cancel reservation
// @Description Cancel a reservation outside the cancellation window
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body reqdto.CancelReservationRequest false "Cancellation reason"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	var req reqdto.CancelReservationRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	view, err := h.commands.CancelReservation(c.Request.Context(), id, req.GetReason())
	if err != nil {
		var window *commands.CancellationWindowError
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrAlreadyCancelled):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Reservation is already cancelled",
			})
		case errors.Is(err, commands.ErrNotCancellable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Reservation can no longer be cancelled",
			})
		case errors.As(err, &window):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":           "Cancellation window has passed",
				"required_hours":  window.RequiredHours,
				"remaining_hours": window.ActualHours,
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Update reservation status
// @Description Advance a reservation through its status lifecycle
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateStatusRequest true "Target status"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	var req reqdto.UpdateStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.commands.UpdateStatus(c.Request.Context(), id, req.Status, req.GetReason())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown reservation status",
			})
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrIllegalTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	staffID, _ := middleware.GetStaffID(c)
	slog.Info("reservation status updated",
		"reservation_id", id.String(),
		"status", req.Status,
		"staff_id", staffID,
		"request_id", middleware.GetRequestID(c))

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Delete reservation
// @Description Permanently remove a reservation record
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	if err := h.commands.DeleteReservation(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	staffID, _ := middleware.GetStaffID(c)
	slog.Info("reservation deleted",
		"reservation_id", id.String(),
		"staff_id", staffID,
		"request_id", middleware.GetRequestID(c))

	c.Status(http.StatusNoContent)
}

func parseReservationFilters(c *gin.Context) (queries.ReservationFilters, error) {
	var filters queries.ReservationFilters

	if raw := c.Query("status"); raw != "" {
		status := reservation.Status(raw)
		if !status.IsValid() {
			return filters, errors.New("invalid status filter")
		}
		filters.Status = &status
	}
	if raw := c.Query("date"); raw != "" {
		date, err := reservation.ParseDateKey(raw)
		if err != nil {
			return filters, errors.New("invalid date filter, expected YYYY-MM-DD")
		}
		filters.Date = &date
	}
	if raw := c.Query("guest_email"); raw != "" {
		filters.GuestEmail = &raw
	}
	if raw := c.Query("seating_type"); raw != "" {
		seating := reservation.SeatingType(raw)
		if !seating.IsValid() {
			return filters, errors.New("invalid seating type filter")
		}
		filters.SeatingType = &seating
	}

	filters.Limit = intQuery(c, "limit", 0)
	filters.Offset = intQuery(c, "offset", 0)
	return filters, nil
}
