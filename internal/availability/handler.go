package availability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"hallbook/internal/api"
	"hallbook/internal/booking"
	"hallbook/internal/hall"
	"hallbook/internal/logger"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service Service
	loc     *time.Location
}

// NewHandler builds the availability handler. Dates and clock times without
// an offset are read in loc.
func NewHandler(service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc}
}

// CheckAvailability godoc
// @Summary      Check hall availability
// @Description  Reports whether any booking overlaps the window. Pass either from/to as RFC3339, or a date with optional start_time/end_time (HH:MM) in the booking timezone.
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Param        hall_id     query     string  true   "Hall ID"
// @Param        from        query     string  false  "Window start (RFC3339)"
// @Param        to          query     string  false  "Window end (RFC3339)"
// @Param        date        query     string  false  "Local date (YYYY-MM-DD)"
// @Param        start_time  query     string  false  "Local start (HH:MM)"
// @Param        end_time    query     string  false  "Local end (HH:MM)"
// @Success      200         {object}  availability.Result
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Failure      503         {object}  api.ErrorResponse
// @Router       /availability [get]
func (h *Handler) CheckAvailability(c *gin.Context) {
	start, end, err := h.parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.service.QueryAvailability(c.Request.Context(), c.Query("hall_id"), start, end)
	if err != nil {
		var verr *booking.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
				Error:   verr.Error(),
				Details: []api.FieldError{{Field: verr.Field, Tag: "domain", Message: verr.Message}},
			})
		case errors.Is(err, booking.ErrNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		case api.RespondStoreError(c, err):
		default:
			logger.Error("Failed to check availability", "error", err, "request_id", c.GetString("request_id"))
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to check availability"})
		}
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) parseWindow(c *gin.Context) (time.Time, time.Time, error) {
	if date := c.Query("date"); date != "" {
		return h.localWindow(date, c.Query("start_time"), c.Query("end_time"))
	}

	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, errors.New("either from and to, or date, is required")
	}

	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from must be RFC3339: %w", err)
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be RFC3339: %w", err)
	}
	return start, end, nil
}

// localWindow resolves a local date and optional clock times. Missing start
// means midnight, missing end means the next midnight.
func (h *Handler) localWindow(date, startClock, endClock string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, h.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}

	start := day
	if startClock != "" {
		m, err := hall.ParseClock(startClock)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_time: %w", err)
		}
		start = atMinute(day, m, h.loc)
	}

	end := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, h.loc)
	if endClock != "" {
		m, err := hall.ParseClock(endClock)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_time: %w", err)
		}
		end = atMinute(day, m, h.loc)
	}

	return start, end, nil
}

func atMinute(day time.Time, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, loc)
}
