package api

import (
	"errors"
	"net/http"

	reqdto "salon-reserve/internal/handler/dto/request"
	resdto "salon-reserve/internal/handler/dto/response"
	"salon-reserve/internal/handler/httperr"
	"salon-reserve/internal/usecase/commands"
	"salon-reserve/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingLinkHandler struct {
	cmds commands.BookingLinkCommands
	q    queries.BookingLinkQueries
}

func NewBookingLinkHandler(cmds commands.BookingLinkCommands, q queries.BookingLinkQueries) *BookingLinkHandler {
	return &BookingLinkHandler{cmds: cmds, q: q}
}

// @Summary Create booking link
// @Description Issue a shareable booking link token for a practitioner
// @Tags booking-links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingLinkRequest true "Booking link request"
// @Success 201 {object} resdto.BookingLinkCreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /booking-links [post]
func (h *BookingLinkHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := actorScope(c)
	if !ok {
		return
	}

	var req reqdto.CreateBookingLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), tenantID, commands.CreateBookingLinkInput{
		PractitionerID: req.PractitionerID,
		StoreID:        req.StoreID,
		CreatedBy:      actorID,
		Reissue:        req.Reissue,
		AllowMultiple:  req.AllowMultiple,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPractitionerNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Practitioner not found", nil)
		case errors.Is(err, commands.ErrBookingLinkExists):
			httperr.AbortWithError(c, http.StatusConflict, err, "An active booking link already exists", nil)
		case errors.Is(err, commands.ErrTokenGeneration):
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to generate token", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBookingLinkResult(result))
}

// @Summary Revoke booking link
// @Description Revoke an active booking link token
// @Tags booking-links
// @Security BearerAuth
// @Param id path string true "Booking link ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /booking-links/{id}/revoke [post]
func (h *BookingLinkHandler) Revoke(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking link ID format", nil)
		return
	}

	if err := h.cmds.Revoke(c.Request.Context(), tenantID, id); err != nil {
		if errors.Is(err, commands.ErrBookingLinkNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Active booking link not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Resolve booking link
// @Description Resolve a public token to its tenant, store and practitioner
// @Tags booking-links
// @Produce json
// @Param token path string true "Booking link token"
// @Success 200 {object} resdto.BookingLinkResolutionResponse
// @Failure 404 {object} map[string]string
// @Router /public/booking-links/{token} [get]
func (h *BookingLinkHandler) Resolve(c *gin.Context) {
	token := c.Param("token")

	resolution, err := h.q.Resolve(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, queries.ErrBookingLinkNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking link not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingLinkResolution(resolution))
}
