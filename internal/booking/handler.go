package booking

import (
	"errors"
	"net/http"
	"strconv"

	"hallbook/internal/api"
	"hallbook/internal/auth"
	"hallbook/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking godoc
// @Summary      Book a hall
// @Description  Reserves the hall for [start_time, end_time) if no existing booking overlaps.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      booking.CreateBookingRequest  true  "Booking payload"
// @Success      201      {object}  booking.Record
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Failure      503      {object}  api.ErrorResponse
// @Failure      504      {object}  api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	identity, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Error: "validation failed", Details: errs})
		return
	}

	rec, err := h.service.CreateBooking(c.Request.Context(), CreateBookingInput{
		HallID:  req.HallID,
		Start:   req.StartTime,
		End:     req.EndTime,
		UserID:  identity.UserID,
		Purpose: req.Purpose,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Deletes a booking of the current user. Admins may cancel any booking.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path  int  true  "Booking ID"
// @Success      204
// @Failure      400  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      503  {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [delete]
func (h *Handler) CancelBooking(c *gin.Context) {
	identity, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	err := h.service.CancelBooking(c.Request.Context(), bookingID, Requester{UserID: identity.UserID, Role: identity.Role})
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Description  Returns bookings of the authenticated user, latest start first.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   booking.Record
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	records, err := h.service.ListBookingsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetBooking godoc
// @Summary      Get booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  booking.Record
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	identity, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	rec, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}

	if !(Requester{UserID: identity.UserID, Role: identity.Role}).CanManage(rec) {
		respondError(c, ErrForbidden, "")
		return
	}

	c.JSON(http.StatusOK, rec)
}

// ListBookingsByHall godoc
// @Summary      List bookings by hall
// @Description  Returns all bookings of a hall. Admin only.
// @Tags         admin,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        hallID  path      string  true  "Hall ID"
// @Success      200     {array}   booking.Record
// @Failure      404     {object}  api.ErrorResponse
// @Failure      500     {object}  api.ErrorResponse
// @Router       /admin/halls/{hallID}/bookings [get]
func (h *Handler) ListBookingsByHall(c *gin.Context) {
	records, err := h.service.ListBookingsForHall(c.Request.Context(), c.Param("hallID"))
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, records)
}

func parseBookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("bookingID"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, api.ValidationErrorResponse{
			Error:   verr.Error(),
			Details: []api.FieldError{{Field: verr.Field, Tag: "domain", Message: verr.Message}},
		})
	case errors.Is(err, ErrSlotConflict):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: ErrSlotConflict.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: ErrForbidden.Error()})
	case api.RespondStoreError(c, err):
	default:
		logger.Error(fallback, "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
