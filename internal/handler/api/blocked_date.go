package api

import (
	"errors"
	"net/http"

	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BlockedDateHandler struct {
	commands     commands.BlockedDateCommands
	availability queries.AvailabilityQueries
}

func NewBlockedDateHandler(cmds commands.BlockedDateCommands, availability queries.AvailabilityQueries) *BlockedDateHandler {
	return &BlockedDateHandler{
		commands:     cmds,
		availability: availability,
	}
}

// @Summary Block a date
// @Description Close a calendar date to new reservations
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BlockDateRequest true "Date to block"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/blocked-dates [post]
func (h *BlockedDateHandler) BlockDate(c *gin.Context) {
	var req reqdto.BlockDateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.commands.BlockDate(c.Request.Context(), req.Date, req.Reason); err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
		case errors.Is(err, commands.ErrDateAlreadyBlocked):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Date is already blocked",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"date":   req.Date,
		"reason": req.Reason,
	})
}

// @Summary Unblock a date
// @Description Reopen a previously blocked calendar date
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/blocked-dates/{date} [delete]
func (h *BlockedDateHandler) UnblockDate(c *gin.Context) {
	if err := h.commands.UnblockDate(c.Request.Context(), c.Param("date")); err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
		case errors.Is(err, commands.ErrBlockedDateNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Blocked date not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List blocked dates
// @Description All dates currently closed to reservations
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BlockedDateResponse
// @Router /admin/blocked-dates [get]
func (h *BlockedDateHandler) ListBlockedDates(c *gin.Context) {
	views, err := h.availability.ListBlockedDates(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBlockedDates(views))
}
