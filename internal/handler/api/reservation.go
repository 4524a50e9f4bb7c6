package api

import (
	"errors"
	"net/http"

	"salon-reserve/internal/domain/reservation"
	reqdto "salon-reserve/internal/handler/dto/request"
	resdto "salon-reserve/internal/handler/dto/response"
	"salon-reserve/internal/handler/httperr"
	"salon-reserve/internal/handler/middleware"
	"salon-reserve/internal/usecase/commands"
	"salon-reserve/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errIdempotencyKeyRequired = errors.New("Idempotency-Key header is required")

type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Create reservation
// @Description Create a new reservation with idempotency key
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	tenantID, actorID, ok := actorScope(c)
	if !ok {
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), tenantID, actorID, req.ToInput(), idempotencyKey)
	if err != nil {
		h.abortWithCommandError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromReservationView(result.Reservation))
}

// @Summary Get reservation
// @Description Get reservation by ID
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		if errors.Is(err, queries.ErrReservationNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load reservation", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List reservations
// @Description List reservations with filters and offset paging
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ReservationPageResponse
// @Failure 400 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}

	var q reqdto.ListReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	page, err := h.q.List(c.Request.Context(), tenantID, q.ToFilter(), q.Page, q.Limit)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidFilter) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid list filter", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list reservations", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationPage(page))
}

// @Summary Update reservation
// @Description Replace all fields of a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateReservationRequest true "Update request"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	var req reqdto.UpdateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.cmds.Update(c.Request.Context(), tenantID, id, req.ToInput())
	if err != nil {
		h.abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Update reservation status
// @Description Transition a reservation along the status state machine
// @Tags reservations
// @Accept json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateStatusRequest true "Status request"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	var req reqdto.UpdateStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	if err := h.cmds.UpdateStatus(c.Request.Context(), tenantID, id, req.Status, req.Reason); err != nil {
		h.abortWithCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Cancel reservation
// @Description Cancel a reservation, enforcing the store cancellation deadline unless forced
// @Tags reservations
// @Accept json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.CancelReservationRequest false "Cancel request"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	var req reqdto.CancelReservationRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
			return
		}
	}

	enforceDeadline := true
	if req.Force {
		role, _ := middleware.GetRole(c)
		if role != middleware.RoleAdmin {
			httperr.AbortWithError(c, http.StatusForbidden, errors.New("force cancel requires admin role"), "Insufficient permissions", nil)
			return
		}
		enforceDeadline = false
	}

	if err := h.cmds.Cancel(c.Request.Context(), tenantID, id, req.Reason, enforceDeadline); err != nil {
		h.abortWithCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Mark reminder sent
// @Description Record that the appointment reminder went out
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/reminder [post]
func (h *ReservationHandler) MarkReminderSent(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	if err := h.cmds.MarkReminderSent(c.Request.Context(), tenantID, id); err != nil {
		h.abortWithCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Reservation stats
// @Description Per-status counts and completed revenue over a date range
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.StatsResponse
// @Failure 400 {object} map[string]string
// @Router /reservations/stats [get]
func (h *ReservationHandler) Stats(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}

	var q reqdto.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	from, err := reservation.NewDate(q.From)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid from date", nil)
		return
	}
	to, err := reservation.NewDate(q.To)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid to date", nil)
		return
	}

	stats, err := h.q.Stats(c.Request.Context(), tenantID, from, to)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load stats", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStatsView(stats))
}

// @Summary Booked slots
// @Description Active reservation intervals for a practitioner on a date
// @Tags practitioners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Practitioner ID"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Router /practitioners/{id}/slots [get]
func (h *ReservationHandler) BookedSlots(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}
	practitionerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid practitioner ID format", nil)
		return
	}

	var q reqdto.SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}
	date, err := reservation.NewDate(q.Date)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date", nil)
		return
	}

	slots, err := h.q.BookedSlots(c.Request.Context(), tenantID, practitionerID, date)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booked slots", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotViews(slots))
}

// @Summary Conflict check
// @Description Advisory overlap pre-check for a candidate interval
// @Tags practitioners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Practitioner ID"
// @Success 200 {object} resdto.ConflictResponse
// @Failure 400 {object} map[string]string
// @Router /practitioners/{id}/conflict [get]
func (h *ReservationHandler) HasConflict(c *gin.Context) {
	tenantID, _, ok := actorScope(c)
	if !ok {
		return
	}
	practitionerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid practitioner ID format", nil)
		return
	}

	var q reqdto.ConflictQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	date, start, end, err := parseConflictRange(q.Date, q.Start, q.End)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid time range", nil)
		return
	}

	conflict, err := h.q.HasConflict(c.Request.Context(), tenantID, practitionerID, date, start, end, q.ExcludeID)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidFilter) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid time range", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to check conflict", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.ConflictResponse{HasConflict: conflict})
}

func (h *ReservationHandler) abortWithCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errors.Is(err, commands.ErrStoreNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Store not found", nil)
	case errors.Is(err, commands.ErrPractitionerNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Practitioner not found", nil)
	case errors.Is(err, commands.ErrCustomerNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Customer not found", nil)
	case errors.Is(err, commands.ErrMenuItemNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Menu item not found", nil)
	case errors.Is(err, commands.ErrOptionItemNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Option item not found", nil)
	case errors.Is(err, commands.ErrReservationConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Time slot is already booked", nil)
	case errors.Is(err, commands.ErrTerminalStatus):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation is in a terminal status", nil)
	case errors.Is(err, commands.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Invalid status transition", nil)
	case errors.Is(err, commands.ErrDuplicateRequest):
		httperr.AbortWithError(c, http.StatusConflict, err, "Duplicate request with different parameters", nil)
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request is currently being processed", nil)
	case errors.Is(err, commands.ErrAdvanceWindowExceeded):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Date is beyond the advance booking window", nil)
	case errors.Is(err, commands.ErrCancelDeadlinePassed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Cancellation deadline has passed", nil)
	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func actorScope(c *gin.Context) (tenantID, actorID uuid.UUID, ok bool) {
	tenantID, tOk := middleware.GetTenantID(c)
	actorID, aOk := middleware.GetActorID(c)
	if !tOk || !aOk {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing auth context"), "Unauthorized", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, actorID, true
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errIdempotencyKeyRequired
	}
	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}
	return key, nil
}

func parseConflictRange(date, start, end string) (reservation.Date, reservation.TimeOfDay, reservation.TimeOfDay, error) {
	d, err := reservation.NewDate(date)
	if err != nil {
		return reservation.Date{}, reservation.TimeOfDay{}, reservation.TimeOfDay{}, err
	}
	s, err := reservation.NewTimeOfDay(start)
	if err != nil {
		return reservation.Date{}, reservation.TimeOfDay{}, reservation.TimeOfDay{}, err
	}
	e, err := reservation.NewTimeOfDay(end)
	if err != nil {
		return reservation.Date{}, reservation.TimeOfDay{}, reservation.TimeOfDay{}, err
	}
	return d, s, e, nil
}
