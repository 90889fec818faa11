package hall

import (
	"errors"
	"net/http"

	"hallbook/internal/api"
	"hallbook/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Create a hall
// @Description  Admin-only: create a new sports hall
// @Tags         admin,halls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body hall.HallRequest true "Hall payload"
// @Success      201 {object} hall.Hall
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/halls [post]
func (h *Handler) CreateHall(c *gin.Context) {
	var req HallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.CreateHall(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Failed to create hall")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      Update a hall
// @Description  Admin-only: replace the metadata of a hall
// @Tags         admin,halls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        hallID path string true "Hall ID"
// @Param        request body hall.HallRequest true "Hall payload"
// @Success      200 {object} hall.Hall
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/halls/{hallID} [put]
func (h *Handler) UpdateHall(c *gin.Context) {
	var req HallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := h.service.UpdateHall(c.Request.Context(), c.Param("hallID"), req)
	if err != nil {
		h.respondError(c, err, "Failed to update hall")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary      List halls
// @Tags         halls
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} hall.Hall
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /halls [get]
func (h *Handler) ListHalls(c *gin.Context) {
	halls, err := h.service.ListHalls(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to fetch halls")
		return
	}

	c.JSON(http.StatusOK, halls)
}

// @Summary      Get hall details
// @Description  Returns the hall with its upcoming intervals
// @Tags         halls
// @Produce      json
// @Security     BearerAuth
// @Param        hallID path string true "Hall ID"
// @Success      200 {object} hall.Detail
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /halls/{hallID} [get]
func (h *Handler) GetHall(c *gin.Context) {
	detail, err := h.service.GetHall(c.Request.Context(), c.Param("hallID"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch hall details")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// @Summary      Delete a hall
// @Description  Admin-only: delete a hall with its intervals. Refused while any booking on it starts now or later.
// @Tags         admin,halls
// @Security     BearerAuth
// @Param        hallID path string true "Hall ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/halls/{hallID} [delete]
func (h *Handler) DeleteHall(c *gin.Context) {
	if err := h.service.DeleteHall(c.Request.Context(), c.Param("hallID")); err != nil {
		h.respondError(c, err, "Failed to delete hall")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidHall):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrHallNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Hall not found"})
	case errors.Is(err, ErrHallExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: ErrHallExists.Error()})
	case errors.Is(err, ErrHallHasBookings):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Cannot delete hall with upcoming bookings"})
	case api.RespondStoreError(c, err):
	default:
		logger.Error(fallback, "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
