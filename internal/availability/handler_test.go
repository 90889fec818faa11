package availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hallbook/internal/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) QueryAvailability(ctx context.Context, hallID string, start, end time.Time) (*Result, error) {
	args := m.Called(ctx, hallID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

func serve(t *testing.T, svc Service, loc *time.Location, url string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/availability", NewHandler(svc, loc).CheckAvailability)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func sameInstant(want time.Time) interface{} {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

func TestCheckAvailability_RFC3339Window(t *testing.T) {
	svc := new(MockService)
	start := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	svc.On("QueryAvailability", mock.Anything, "hall-1", sameInstant(start), sameInstant(end)).
		Return(&Result{HallID: "hall-1", Start: start, End: end, IsAvailable: true}, nil)

	w := serve(t, svc, time.UTC, "/availability?hall_id=hall-1&from=2026-10-20T09:00:00Z&to=2026-10-20T10:00:00Z")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_available":true`)
	svc.AssertExpectations(t)
}

func TestCheckAvailability_LocalDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}

	t.Run("whole day", func(t *testing.T) {
		svc := new(MockService)
		start := time.Date(2026, 10, 20, 0, 0, 0, 0, loc)
		end := time.Date(2026, 10, 21, 0, 0, 0, 0, loc)
		svc.On("QueryAvailability", mock.Anything, "hall-1", sameInstant(start), sameInstant(end)).
			Return(&Result{HallID: "hall-1"}, nil)

		w := serve(t, svc, loc, "/availability?hall_id=hall-1&date=2026-10-20")
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("clock times", func(t *testing.T) {
		svc := new(MockService)
		// 09:30 CEST is 07:30 UTC.
		start := time.Date(2026, 10, 20, 7, 30, 0, 0, time.UTC)
		end := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
		svc.On("QueryAvailability", mock.Anything, "hall-1", sameInstant(start), sameInstant(end)).
			Return(&Result{HallID: "hall-1"}, nil)

		w := serve(t, svc, loc, "/availability?hall_id=hall-1&date=2026-10-20&start_time=09:30&end_time=11:00")
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}

func TestCheckAvailability_BadInput(t *testing.T) {
	urls := []string{
		"/availability?hall_id=hall-1",
		"/availability?hall_id=hall-1&from=yesterday&to=2026-10-20T10:00:00Z",
		"/availability?hall_id=hall-1&date=20-10-2026",
		"/availability?hall_id=hall-1&date=2026-10-20&start_time=25:00",
	}

	for _, url := range urls {
		t.Run(url, func(t *testing.T) {
			svc := new(MockService)
			w := serve(t, svc, time.UTC, url)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "QueryAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCheckAvailability_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &booking.ValidationError{Field: "to", Message: "window end must be after its start"}, http.StatusBadRequest},
		{"unknown hall", booking.ErrNotFound, http.StatusNotFound},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("QueryAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(t, svc, time.UTC, "/availability?hall_id=hall-1&from=2026-10-20T10:00:00Z&to=2026-10-20T09:00:00Z")
			require.Equal(t, tt.status, w.Code)
		})
	}
}
