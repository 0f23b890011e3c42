package api

import (
	"errors"
	"net/http"
	"strconv"

	"tablebook/internal/domain/reservation"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	queries queries.AvailabilityQueries
}

func NewAvailabilityHandler(qrs queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{queries: qrs}
}

// @Summary Daily availability
// @Description Remaining capacity per time slot for one day
// @Tags availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.DailyAvailabilityResponse
// @Failure 400 {object} map[string]string
// @Router /availability [get]
func (h *AvailabilityHandler) GetDailyAvailability(c *gin.Context) {
	date, err := reservation.ParseDateKey(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
		return
	}

	daily, err := h.queries.GetDailyAvailability(c.Request.Context(), date)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDailyAvailability(daily))
}

// @Summary Slots for party
// @Description Time slots with enough remaining capacity for the party size
// @Tags availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param party_size query int true "Party size"
// @Success 200 {object} resdto.SlotsForPartyResponse
// @Failure 400 {object} map[string]string
// @Router /availability/slots [get]
func (h *AvailabilityHandler) ListAvailableSlots(c *gin.Context) {
	date, err := reservation.ParseDateKey(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
		return
	}

	partySize := intQuery(c, "party_size", 0)
	if partySize < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "party_size must be a positive integer",
		})
		return
	}

	slots, err := h.queries.ListAvailableSlotsForParty(c.Request.Context(), date, partySize)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidSeatingType), errors.Is(err, queries.ErrUnknownTimeSlot):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotsForParty(slots))
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
