package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riordanmr/appts/internal/booking"
	"github.com/riordanmr/appts/internal/catalog"
)

func TestParseStylistFilter(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		raw    string
		want   *uuid.UUID
		wantOK bool
	}{
		{name: "empty means any", raw: "", want: nil, wantOK: true},
		{name: "explicit any", raw: "any", want: nil, wantOK: true},
		{name: "valid uuid", raw: id.String(), want: &id, wantOK: true},
		{name: "garbage", raw: "stylist-7", want: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseStylistFilter(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestHandleBookingError_StatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{booking.ErrInvalidDate, http.StatusBadRequest, "invalid_date"},
		{booking.ErrInvalidTime, http.StatusBadRequest, "invalid_time"},
		{booking.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
		{booking.ErrNotesTooLong, http.StatusBadRequest, "notes_too_long"},
		{booking.ErrEmptyUpdate, http.StatusBadRequest, "empty_update"},
		{booking.ErrPastClosing, http.StatusBadRequest, "past_closing"},
		{catalog.ErrServiceNotFound, http.StatusNotFound, "service_not_found"},
		{catalog.ErrStylistNotFound, http.StatusNotFound, "stylist_not_found"},
		{catalog.ErrCustomerNotFound, http.StatusNotFound, "customer_not_found"},
		{booking.ErrAppointmentNotFound, http.StatusNotFound, "appointment_not_found"},
		{booking.ErrSlotTaken, http.StatusConflict, "slot_taken"},
		{booking.ErrScheduleBusy, http.StatusConflict, "schedule_busy"},
		{errors.New("pg is on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleBookingError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}
}

func TestHandleBookingError_WrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	handleBookingError(rec, errors.Join(errors.New("recheck failed"), booking.ErrSlotTaken))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleBookingError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	handleBookingError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotContains(t, body.Details, "10.0.0.5")
}

func TestAvailabilityHandler_MissingParams(t *testing.T) {
	h := availabilityHandler(nil)

	tests := []struct {
		name  string
		query string
	}{
		{name: "no params", query: ""},
		{name: "date only", query: "date=2026-09-15"},
		{name: "service only", query: "service_id=" + uuid.NewString()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/appointments/availability?"+tt.query, nil)
			rec := httptest.NewRecorder()
			h(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAvailabilityHandler_BadIDs(t *testing.T) {
	h := availabilityHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/appointments/availability?date=2026-09-15&service_id=haircut", nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet,
		"/appointments/availability?date=2026-09-15&service_id="+uuid.NewString()+"&stylist_id=alex", nil)
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAppointmentHandler_RequestValidation(t *testing.T) {
	h := createAppointmentHandler(nil)

	valid := CreateAppointmentRequest{
		CustomerID: uuid.NewString(),
		ServiceID:  uuid.NewString(),
		Date:       "2026-09-15",
		Time:       "10:00",
	}

	tests := []struct {
		name   string
		mutate func(r *CreateAppointmentRequest)
		raw    string
	}{
		{name: "malformed json", raw: "{not json"},
		{name: "missing service", mutate: func(r *CreateAppointmentRequest) { r.ServiceID = "" }},
		{name: "missing date", mutate: func(r *CreateAppointmentRequest) { r.Date = "" }},
		{name: "missing time", mutate: func(r *CreateAppointmentRequest) { r.Time = "" }},
		{name: "bad customer id", mutate: func(r *CreateAppointmentRequest) { r.CustomerID = "casey" }},
		{name: "bad service id", mutate: func(r *CreateAppointmentRequest) { r.ServiceID = "haircut" }},
		{name: "bad stylist id", mutate: func(r *CreateAppointmentRequest) { r.StylistID = "whoever" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.raw
			if body == "" {
				reqBody := valid
				tt.mutate(&reqBody)
				raw, err := json.Marshal(reqBody)
				require.NoError(t, err)
				body = string(raw)
			}

			req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
			rec := httptest.NewRecorder()
			h(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMyAppointmentsHandler_BadCustomerID(t *testing.T) {
	h := myAppointmentsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/appointments/mine?customer_id=casey", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaffAppointmentsHandler_RequiresStylistUnlessAdmin(t *testing.T) {
	h := staffAppointmentsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/appointments/staff", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteError_Shape(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusConflict, "slot_taken", "slot no longer available")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "slot_taken", body.Error)
	assert.Equal(t, "slot no longer available", body.Details)
}
