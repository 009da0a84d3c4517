package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"clinic-booking/core/database/memdb"
	"clinic-booking/core/errors"
	"clinic-booking/core/logger"
	"clinic-booking/core/validator"
	"clinic-booking/modules/booking/dto"
	"clinic-booking/modules/booking/entity"
	"clinic-booking/modules/booking/repository"
	"clinic-booking/modules/booking/service"
	docentity "clinic-booking/modules/doctor/entity"
	docrepo "clinic-booking/modules/doctor/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type engineFunc func(ctx context.Context, requesterID, slotID string) (*entity.Booking, *errors.AppError)

func (f engineFunc) Reserve(ctx context.Context, requesterID, slotID string) (*entity.Booking, *errors.AppError) {
	return f(ctx, requesterID, slotID)
}

func newEcho(engine service.ReservationEngineInterface) *echo.Echo {
	logger.SetLogger(zap.NewNop())
	e := echo.New()
	e.Validator = validator.New()
	e.POST("/api/v1/bookings", NewBookingController(engine).CreateBooking)
	return e
}

func post(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateBookingOutcomes(t *testing.T) {
	slotID := uuid.NewString()
	body := `{"userId":"user-1","slotId":"` + slotID + `"}`

	tests := []struct {
		name       string
		appErr     *errors.AppError
		status     int
		reason     string
		retryable  bool
		retryAfter string
	}{
		{"not found", errors.NewAppError(errors.ErrSlotNotFound, "Slot not found", nil), http.StatusNotFound, dto.ReasonSlotNotFound, false, ""},
		{"already booked", errors.NewAppError(errors.ErrSlotAlreadyBooked, "Slot is already booked", nil), http.StatusConflict, dto.ReasonSlotAlreadyBooked, false, ""},
		{"transaction failed", errors.NewAppError(errors.ErrTransactionFailed, "retry", nil), http.StatusServiceUnavailable, dto.ReasonTransactionFailed, true, "1"},
		{"invalid input", errors.NewAppError(errors.ErrInvalidInput, "Requester ID is required", nil), http.StatusBadRequest, dto.ReasonInvalidRequest, false, ""},
		{"unclassified", errors.NewAppError(errors.ErrInternalServer, "db exploded", nil), http.StatusInternalServerError, dto.ReasonInternalError, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(engineFunc(func(context.Context, string, string) (*entity.Booking, *errors.AppError) {
				return nil, tt.appErr
			}))

			rec := post(e, body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.retryAfter, rec.Header().Get("Retry-After"))

			var resp dto.FailedResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, dto.StatusFailed, resp.Status)
			assert.Equal(t, tt.reason, resp.Reason)
			assert.Equal(t, tt.retryable, resp.Retryable)
			assert.NotEqual(t, "db exploded", resp.Message)
		})
	}
}

func TestCreateBookingConfirmed(t *testing.T) {
	slotID := uuid.New()
	var gotRequester, gotSlot string
	e := newEcho(engineFunc(func(ctx context.Context, requesterID, slot string) (*entity.Booking, *errors.AppError) {
		gotRequester, gotSlot = requesterID, slot
		return &entity.Booking{ID: uuid.New(), UserID: requesterID, SlotID: slotID, Status: entity.StatusConfirmed, CreatedAt: time.Now()}, nil
	}))

	rec := post(e, `{"requesterId":"req-9","slotId":"`+slotID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "req-9", gotRequester)
	assert.Equal(t, slotID.String(), gotSlot)

	var resp dto.ConfirmedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dto.StatusConfirmed, resp.Status)
	assert.Equal(t, "req-9", resp.Booking.UserID)
	assert.Equal(t, slotID.String(), resp.Booking.SlotID)
	assert.Equal(t, "CONFIRMED", resp.Booking.Status)
}

func TestCreateBookingRejectsMalformedRequests(t *testing.T) {
	called := false
	e := newEcho(engineFunc(func(context.Context, string, string) (*entity.Booking, *errors.AppError) {
		called = true
		return nil, nil
	}))

	for _, body := range []string{
		`{"userId":`,
		`{"slotId":"` + uuid.NewString() + `"}`,
		`{"userId":"user-1"}`,
		`{"userId":"user-1","slotId":"slot-1"}`,
		`{"userId":"` + strings.Repeat("u", 129) + `","slotId":"` + uuid.NewString() + `"}`,
	} {
		rec := post(e, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp dto.FailedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, dto.ReasonInvalidRequest, resp.Reason)
		assert.False(t, resp.Retryable)
	}
	assert.False(t, called)
}

func TestConcurrentBookingsOverHTTP(t *testing.T) {
	logger.SetLogger(zap.NewNop())
	catalog := docrepo.NewMemoryCatalog(memdb.New())
	doctor, err := catalog.CreateDoctor(context.Background(), &docentity.Doctor{Name: "Dr. Smith", Slug: "dr-smith"})
	require.NoError(t, err)
	slot, err := catalog.CreateSlot(context.Background(), &docentity.Slot{DoctorID: doctor.ID, StartTime: time.Now().Add(24 * time.Hour)})
	require.NoError(t, err)

	store := repository.NewMemoryReservationStore(catalog)
	e := newEcho(service.NewReservationEngine(store, nil, 2*time.Second))

	codes := make([]int, 10)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := `{"userId":"user-` + string(rune('0'+i)) + `","slotId":"` + slot.ID.String() + `"}`
			codes[i] = post(e, body).Code
		}(i)
	}
	wg.Wait()

	tally := map[int]int{}
	for _, c := range codes {
		tally[c]++
	}
	assert.Equal(t, 1, tally[http.StatusOK])
	assert.Equal(t, 9, tally[http.StatusConflict])

	bookings, err := store.ListBookingsBySlot(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}
