//go:build e2e

package reservation_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"salon-reserve/internal/handler/dto/response"
	"salon-reserve/internal/handler/middleware"
	"salon-reserve/tests/common/authtest"
	"salon-reserve/tests/common/dbtest"
	"salon-reserve/tests/common/httptest"
	"salon-reserve/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/reservations"
	statsURL        = "/api/reservations/stats"
	slotsURL        = "/api/practitioners/%s/slots"
	conflictURL     = "/api/practitioners/%s/conflict"
)

type ReservationSuite struct {
	e2e.SharedSuite
}

func (s *ReservationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

// reference rows each subtest books against
type fixture struct {
	tenantID       uuid.UUID
	practitionerID uuid.UUID
	customerID     uuid.UUID
	menuID         uuid.UUID
	optionID       uuid.UUID
	token          string
	date           string
}

func (s *ReservationSuite) seed(t *testing.T) fixture {
	t.Helper()

	tenantID := dbtest.DefaultTenantID(t, s.DB)
	f := fixture{
		tenantID:       tenantID,
		practitionerID: dbtest.CreateTestPractitioner(t, s.DB, tenantID, "Yuki Tanaka"),
		customerID:     dbtest.CreateTestCustomer(t, s.DB, tenantID, "Hanako Sato"),
		menuID:         dbtest.CreateTestMenuItem(t, s.DB, tenantID, "Cut", 4400, 40),
		optionID:       dbtest.CreateTestOptionItem(t, s.DB, tenantID, "Head Spa", 1500, 20),
		date:           time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	}
	f.token = authtest.MintToken(t, s.Config.JWT.Secret, tenantID, uuid.New(), middleware.RoleAdmin)
	return f
}

func (f fixture) createBody(start string) map[string]any {
	return map[string]any{
		"customer_id":     f.customerID.String(),
		"practitioner_id": f.practitionerID.String(),
		"date":            f.date,
		"start_time":      start,
		"menu_ids":        []string{f.menuID.String()},
	}
}

func idempotencyHeader() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.New().String()}
}

func (s *ReservationSuite) TestCreateReservation() {
	s.Run("Normal case: reservation is created with catalog snapshots", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code, "Should create reservation successfully")

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		expected := response.ReservationResponse{
			TenantID:         f.tenantID,
			CustomerID:       f.customerID,
			CustomerName:     "Hanako Sato",
			CustomerPhone:    "090-0000-0000",
			PractitionerID:   f.practitionerID,
			PractitionerName: "Yuki Tanaka",
			Date:             f.date,
			StartTime:        "10:00",
			EndTime:          "10:40",
			Status:           "pending",
			Source:           "admin",
			Subtotal:         4400,
			TotalPrice:       4400,
			DurationMin:      40,
			MenuItems: []response.MenuItemResponse{
				{MenuID: f.menuID, Name: "Cut", Price: 4400, DurationMin: 40, IsMain: true},
			},
			OptionItems: []response.OptionItemResponse{},
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.ReservationResponse{}, "ID", "CreatedAt", "UpdatedAt"),
			cmpopts.IgnoreFields(response.MenuItemResponse{}, "SortOrder"),
			cmpopts.EquateEmpty(),
		}
		require.Empty(t, cmp.Diff(expected, created, opts...))
	})

	s.Run("Options extend duration and price", func() {
		t := s.T()
		f := s.seed(t)

		body := f.createBody("10:00")
		body["option_ids"] = []string{f.optionID.String()}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, "11:00", created.EndTime)
		require.Equal(t, int32(5900), created.TotalPrice)
	})

	s.Run("Overlapping slot is rejected by the database", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:30"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusConflict, w.Code, "Overlapping reservation should be rejected")
	})

	s.Run("Back-to-back slots do not conflict", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:40"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code, "Adjacent slot should be bookable")
	})

	s.Run("Same practitioner in another tenant does not block the slot", func() {
		t := s.T()
		f := s.seed(t)

		otherTenantID := dbtest.CreateTestTenant(t, s.DB, "other-tenant", "Asia/Tokyo")
		otherPractitionerID := dbtest.CreateTestPractitioner(t, s.DB, otherTenantID, "Yuki Tanaka")
		otherCustomerID := dbtest.CreateTestCustomer(t, s.DB, otherTenantID, "Taro Suzuki")
		otherMenuID := dbtest.CreateTestMenuItem(t, s.DB, otherTenantID, "Cut", 4400, 40)
		otherToken := authtest.MintToken(t, s.Config.JWT.Secret, otherTenantID, uuid.New(), middleware.RoleAdmin)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)

		otherBody := map[string]any{
			"customer_id":     otherCustomerID.String(),
			"practitioner_id": otherPractitionerID.String(),
			"date":            f.date,
			"start_time":      "10:00",
			"menu_ids":        []string{otherMenuID.String()},
		}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, otherBody, otherToken, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code, "Tenants should not see each other's bookings")
	})

	s.Run("Cross-tenant practitioner reference is rejected", func() {
		t := s.T()
		f := s.seed(t)

		otherTenantID := dbtest.CreateTestTenant(t, s.DB, "other-tenant", "Asia/Tokyo")
		foreignPractitionerID := dbtest.CreateTestPractitioner(t, s.DB, otherTenantID, "Intruder")

		body := f.createBody("10:00")
		body["practitioner_id"] = foreignPractitionerID.String()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, f.token, idempotencyHeader())
		require.Equal(t, http.StatusNotFound, w.Code, "Foreign practitioner should be invisible")
	})

	s.Run("Concurrent overlapping requests yield exactly one booking", func() {
		t := s.T()
		f := s.seed(t)

		// every pair of these 40-minute slots overlaps, so the
		// exclusion constraint must let exactly one insert commit
		const workers = 8
		codes := make([]int, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				start := fmt.Sprintf("10:%02d", i*5)
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody(start), f.token, idempotencyHeader())
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		created, conflicted := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			}
		}
		require.Equal(t, 1, created, "exactly one request should win the slot: %v", codes)
		require.Equal(t, workers-1, conflicted, "all losers should see a conflict: %v", codes)
	})

	s.Run("Date beyond the advance window is rejected", func() {
		t := s.T()
		f := s.seed(t)

		body := f.createBody("10:00")
		body["date"] = time.Now().AddDate(0, 0, 60).Format("2006-01-02")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, f.token, idempotencyHeader())
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func (s *ReservationSuite) TestIdempotency() {
	s.Run("Replaying the same key returns the original reservation", func() {
		t := s.T()
		f := s.seed(t)

		header := idempotencyHeader()
		body := f.createBody("10:00")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, f.token, header)
		require.Equal(t, http.StatusCreated, w.Code)

		var first response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &first))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, f.token, header)
		require.Equal(t, http.StatusOK, w.Code, "Replay should not create a second reservation")

		var replay response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &replay))
		require.Equal(t, first.ID, replay.ID)
	})

	s.Run("Reusing a key with a different payload conflicts", func() {
		t := s.T()
		f := s.seed(t)

		header := idempotencyHeader()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, header)
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("13:00"), f.token, header)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Expired key is reclaimed instead of erroring", func() {
		t := s.T()
		f := s.seed(t)

		header := idempotencyHeader()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, header)
		require.Equal(t, http.StatusCreated, w.Code)
		var first response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &first))

		_, err := s.DB.Exec(context.Background(),
			`UPDATE idempotency_keys SET expires_at = now() - interval '1 hour' WHERE key = $1`,
			header["Idempotency-Key"])
		require.NoError(t, err)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("13:00"), f.token, header)
		require.Equal(t, http.StatusCreated, w.Code, "Stale key should behave like a fresh one")
		var second response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &second))
		require.NotEqual(t, first.ID, second.ID)
	})
}

func (s *ReservationSuite) TestSnapshotImmutability() {
	s.Run("Catalog price change does not rewrite booked reservations", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		dbtest.UpdateMenuItemPrice(t, s.DB, f.menuID, 9900)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)

		var fetched response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &fetched))
		require.Equal(t, int32(4400), fetched.MenuItems[0].Price, "Snapshot should keep the price at booking time")
		require.Equal(t, int32(4400), fetched.TotalPrice)
	})
}

func (s *ReservationSuite) TestStatusFlow() {
	s.Run("Pending moves through confirmed to completed", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		statusURL := reservationsURL + "/" + created.ID.String() + "/status"

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, statusURL, map[string]any{"status": "confirmed"}, f.token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, statusURL, map[string]any{"status": "completed"}, f.token)
		require.Equal(t, http.StatusNoContent, w.Code)

		// terminal: any further transition conflicts
		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, statusURL, map[string]any{"status": "confirmed"}, f.token)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Pending cannot jump straight to completed", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, reservationsURL+"/"+created.ID.String()+"/status",
			map[string]any{"status": "completed"}, f.token)
		require.Equal(t, http.StatusConflict, w.Code)
	})
}

func (s *ReservationSuite) TestReminder() {
	s.Run("Marking the reminder stamps the reservation", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Nil(t, created.ReminderSentAt)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+created.ID.String()+"/reminder", nil, f.token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)
		var fetched response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &fetched))
		require.NotNil(t, fetched.ReminderSentAt)
	})

	s.Run("Canceled reservations no longer take reminders", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+created.ID.String()+"/cancel", nil, f.token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+created.ID.String()+"/reminder", nil, f.token)
		require.Equal(t, http.StatusConflict, w.Code)
	})
}

func (s *ReservationSuite) TestCancel() {
	s.Run("Canceling frees the slot for rebooking", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+created.ID.String()+"/cancel",
			map[string]any{"reason": "customer request"}, f.token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)
		var canceled response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &canceled))
		require.Equal(t, "canceled", canceled.Status)
		require.NotNil(t, canceled.CanceledAt)

		// the exclusion constraint ignores canceled rows
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code, "Canceled slot should be rebookable")
	})

	s.Run("Canceling twice conflicts", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		cancelURL := reservationsURL + "/" + created.ID.String() + "/cancel"
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil, f.token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil, f.token)
		require.Equal(t, http.StatusConflict, w.Code)
	})
}

func (s *ReservationSuite) TestListAndStats() {
	s.Run("List returns a paged envelope scoped to the tenant", func() {
		t := s.T()
		f := s.seed(t)

		for _, start := range []string{"10:00", "11:00", "13:00"} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody(start), f.token, idempotencyHeader())
			require.Equal(t, http.StatusCreated, w.Code)
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?page=1&limit=2", nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)

		var page response.ReservationPageResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &page))
		require.Len(t, page.Data, 2)
		require.Equal(t, int64(3), page.Total)
		require.True(t, page.HasMore)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?page=2&limit=2", nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &page))
		require.Len(t, page.Data, 1)
		require.False(t, page.HasMore)
	})

	s.Run("Status filter narrows the result", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, reservationsURL+"/"+created.ID.String()+"/status",
			map[string]any{"status": "confirmed"}, f.token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("13:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?status=confirmed", nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)

		var page response.ReservationPageResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &page))
		require.Len(t, page.Data, 1)
		require.Equal(t, created.ID, page.Data[0].ID)
	})

	s.Run("Stats count by status and sum completed revenue", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		statusURL := reservationsURL + "/" + created.ID.String() + "/status"
		for _, st := range []string{"confirmed", "completed"} {
			w = httptest.PerformRequest(t, s.Router, http.MethodPatch, statusURL, map[string]any{"status": st}, f.token)
			require.Equal(t, http.StatusNoContent, w.Code)
		}

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("13:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s?from=%s&to=%s", statsURL, f.date, f.date), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)

		var stats response.StatsResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &stats))
		require.Equal(t, int64(1), stats.Completed)
		require.Equal(t, int64(1), stats.Pending)
		require.Equal(t, int64(2), stats.Total)
		require.Equal(t, int64(4400), stats.Revenue)
	})
}

func (s *ReservationSuite) TestSlotsAndConflict() {
	s.Run("Booked slots list active intervals only", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("13:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var second response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &second))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+second.ID.String()+"/cancel", nil, f.token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(slotsURL, f.practitionerID)+"?date="+f.date, nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)

		var slots []response.SlotResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &slots))
		require.Len(t, slots, 1, "Canceled reservation should not occupy a slot")
		require.Equal(t, "10:00", slots[0].StartTime)
		require.Equal(t, "10:40", slots[0].EndTime)
	})

	s.Run("Conflict pre-check matches the booking outcome", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		base := fmt.Sprintf(conflictURL, f.practitionerID)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			base+"?date="+f.date+"&start=10:30&end=11:00", nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)
		var conflict response.ConflictResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &conflict))
		require.True(t, conflict.HasConflict)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			base+"?date="+f.date+"&start=10:40&end=11:20", nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &conflict))
		require.False(t, conflict.HasConflict, "Back-to-back interval should be free")

		// excluding the reservation itself clears the conflict, for reschedule checks
		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			base+"?date="+f.date+"&start=10:00&end=10:40&exclude_id="+created.ID.String(), nil, f.token)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &conflict))
		require.False(t, conflict.HasConflict)
	})
}

func (s *ReservationSuite) TestUpdate() {
	s.Run("Full update reschedules and resolves fresh snapshots", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		body := f.createBody("14:00")
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, reservationsURL+"/"+created.ID.String(), body, f.token)
		require.Equal(t, http.StatusOK, w.Code)

		var updated response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &updated))
		require.Equal(t, created.ID, updated.ID)
		require.Equal(t, "14:00", updated.StartTime)
		require.Equal(t, "14:40", updated.EndTime)
	})

	s.Run("Reschedule onto another booking conflicts", func() {
		t := s.T()
		f := s.seed(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("10:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, f.createBody("13:00"), f.token, idempotencyHeader())
		require.Equal(t, http.StatusCreated, w.Code)
		var second response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &second))

		w = httptest.PerformRequest(t, s.Router, http.MethodPut, reservationsURL+"/"+second.ID.String(), f.createBody("10:20"), f.token)
		require.Equal(t, http.StatusConflict, w.Code)
	})
}

func (s *ReservationSuite) TestAuth() {
	s.Run("Requests without a token are rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Expired tokens are rejected", func() {
		t := s.T()
		f := s.seed(t)

		expired := authtest.MintExpiredToken(t, s.Config.JWT.Secret, f.tenantID, uuid.New(), middleware.RoleAdmin)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, expired)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
