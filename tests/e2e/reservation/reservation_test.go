//go:build e2e

package reservation_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"tablebook/internal/handler/dto/request"
	"tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/middleware"
	"tablebook/tests/common/authtest"
	"tablebook/tests/common/httptest"
	"tablebook/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/v1/reservations"
	availabilityURL = "/api/v1/availability"
	blockedDatesURL = "/api/v1/admin/blocked-dates"
)

type ReservationSuite struct {
	e2e.SharedSuite
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

func (s *ReservationSuite) futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func (s *ReservationSuite) createRequest(mutate func(*request.CreateReservationRequest)) request.CreateReservationRequest {
	req := request.CreateReservationRequest{
		GuestName:   "Grace Hopper",
		GuestEmail:  "grace@example.com",
		GuestPhone:  "+1 555 0100",
		PartySize:   4,
		Date:        s.futureDate(7),
		Time:        "19:00",
		SeatingType: "indoor",
	}
	if mutate != nil {
		mutate(&req)
	}
	return req
}

func (s *ReservationSuite) slotAvailability(date, slotTime string) response.TimeSlotResponse {
	t := s.T()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, availabilityURL+"?date="+date, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var daily response.DailyAvailabilityResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &daily))
	for _, slot := range daily.TimeSlots {
		if slot.Time == slotTime {
			return slot
		}
	}
	t.Fatalf("slot %s not present on %s", slotTime, date)
	return response.TimeSlotResponse{}
}

func (s *ReservationSuite) staffToken() string {
	return authtest.SignToken(s.T(), s.Config.JWT.Secret, "staff-1", middleware.RoleStaff)
}

func (s *ReservationSuite) adminToken() string {
	return authtest.SignToken(s.T(), s.Config.JWT.Secret, "admin-1", middleware.RoleAdmin)
}

func (s *ReservationSuite) TestReservationLifecycle() {
	s.Run("create and fetch", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createRequest(nil), "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, "confirmed", created.Status)
		require.Equal(t, 4, created.PartySize)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var fetched response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &fetched))
		require.Equal(t, "Grace Hopper", fetched.GuestName)
		if diff := cmp.Diff(created, fetched, cmpopts.EquateApproxTime(time.Second)); diff != "" {
			t.Errorf("fetched reservation differs from created (-created +fetched):\n%s", diff)
		}
	})

	s.Run("cancel outside the window", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createRequest(nil), "")
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			reservationsURL+"/"+created.ID.String()+"/cancel",
			request.CancelReservationRequest{}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var cancelled response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &cancelled))
		require.Equal(t, "cancelled", cancelled.Status)
		require.NotNil(t, cancelled.CancelledAt)
	})

	s.Run("cancel inside the window is rejected", func() {
		t := s.T()

		// A same-day reservation always starts less than 24h from now.
		req := s.createRequest(func(r *request.CreateReservationRequest) {
			r.Date = s.futureDate(0)
		})
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, "")
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			reservationsURL+"/"+created.ID.String()+"/cancel", nil, "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

		var body map[string]any
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.EqualValues(t, 24, body["required_hours"])
	})

	s.Run("status update requires staff", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createRequest(nil), "")
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		statusURL := reservationsURL + "/" + created.ID.String() + "/status"
		body := request.UpdateStatusRequest{Status: "seated"}

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, statusURL, body, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, statusURL, body, s.staffToken())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &updated))
		require.Equal(t, "seated", updated.Status)

		// completed -> seated is not a legal move
		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, statusURL,
			request.UpdateStatusRequest{Status: "completed"}, s.staffToken())
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, statusURL,
			request.UpdateStatusRequest{Status: "seated"}, s.staffToken())
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("listing requires staff and filters by status", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createRequest(nil), "")
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?status=confirmed", nil, s.staffToken())
		require.Equal(t, http.StatusOK, w.Code)

		var listed []response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &listed))
		require.Len(t, listed, 1)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?status=cancelled", nil, s.staffToken())
		require.Equal(t, http.StatusOK, w.Code)
		listed = nil
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &listed))
		require.Empty(t, listed)
	})
}

// Two concurrent requests race for the last balcony seats. Exactly one
// commits; the loser sees the capacity left after the winner.
func (s *ReservationSuite) TestConcurrentCreateRace() {
	s.Run("last seats cannot be double booked", func() {
		t := s.T()

		// Balcony capacity is 16; two parties of 10 cannot both fit.
		newRequest := func(email string) request.CreateReservationRequest {
			return s.createRequest(func(r *request.CreateReservationRequest) {
				r.GuestEmail = email
				r.PartySize = 10
				r.SeatingType = "balcony"
			})
		}

		codes := make([]int, 2)
		bodies := make([]map[string]any, 2)

		var wg sync.WaitGroup
		for i, email := range []string{"first@example.com", "second@example.com"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, newRequest(email), "")
				codes[i] = w.Code
				body := map[string]any{}
				_ = httptest.DecodeResponseBody(t, w.Body, &body)
				bodies[i] = body
			}()
		}
		wg.Wait()

		winner, loser := 0, 1
		if codes[0] != http.StatusCreated {
			winner, loser = 1, 0
		}
		require.Equal(t, http.StatusCreated, codes[winner], fmt.Sprintf("codes: %v", codes))
		require.Equal(t, http.StatusConflict, codes[loser], fmt.Sprintf("codes: %v", codes))

		// The winner's 10 guests leave 6 of 16 seats.
		require.EqualValues(t, 6, bodies[loser]["remaining_seats"])

		// Only the winner occupies capacity.
		require.Equal(t, 6, s.slotAvailability(s.futureDate(7), "19:00").AvailableBalcony)
	})
}

// A cancelled party must be back in the pool on the very next read; only
// occupying statuses count against capacity.
func (s *ReservationSuite) TestCancellationReleasesCapacity() {
	s.Run("cancelled seats return to availability", func() {
		t := s.T()
		date := s.futureDate(7)

		req := s.createRequest(func(r *request.CreateReservationRequest) {
			r.PartySize = 5
			r.SeatingType = "balcony"
		})
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		slot := s.slotAvailability(date, "19:00")
		require.Equal(t, 11, slot.AvailableBalcony)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			reservationsURL+"/"+created.ID.String()+"/cancel", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		slot = s.slotAvailability(date, "19:00")
		require.Equal(t, 16, slot.AvailableBalcony)
		require.Equal(t, 40, slot.AvailableIndoor)
	})

	s.Run("no-show seats return to availability", func() {
		t := s.T()
		date := s.futureDate(7)

		req := s.createRequest(func(r *request.CreateReservationRequest) {
			r.PartySize = 8
		})
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		require.Equal(t, 32, s.slotAvailability(date, "19:00").AvailableIndoor)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch,
			reservationsURL+"/"+created.ID.String()+"/status",
			request.UpdateStatusRequest{Status: "no-show"}, s.staffToken())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.Equal(t, 40, s.slotAvailability(date, "19:00").AvailableIndoor)
	})
}

func (s *ReservationSuite) TestBlockedDates() {
	s.Run("blocking a date closes it end to end", func() {
		t := s.T()
		date := s.futureDate(10)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, blockedDatesURL,
			request.BlockDateRequest{Date: date, Reason: "private event"}, s.adminToken())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// Availability reports the block.
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, availabilityURL+"?date="+date, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var daily response.DailyAvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &daily))
		require.True(t, daily.IsBlocked)
		require.Empty(t, daily.TimeSlots)

		// Creation on the blocked date is refused.
		req := s.createRequest(func(r *request.CreateReservationRequest) { r.Date = date })
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		// Unblocking reopens it.
		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, blockedDatesURL+"/"+date, nil, s.adminToken())
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, "")
		require.Equal(t, http.StatusCreated, w.Code)
	})

	s.Run("admin routes refuse staff tokens", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, blockedDatesURL, nil, s.staffToken())
		require.Equal(t, http.StatusForbidden, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, blockedDatesURL, nil, s.adminToken())
		require.Equal(t, http.StatusOK, w.Code)
	})
}
