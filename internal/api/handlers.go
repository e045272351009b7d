package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/riordanmr/appts/internal/booking"
	"github.com/riordanmr/appts/internal/catalog"
)

func availabilityHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		serviceIDStr := r.URL.Query().Get("service_id")

		if date == "" || serviceIDStr == "" {
			writeError(w, http.StatusBadRequest, "missing_parameters", "date and service_id are required")
			return
		}

		serviceID, err := uuid.Parse(serviceIDStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return
		}

		stylistID, ok := parseStylistFilter(r.URL.Query().Get("stylist_id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_stylist_id", "stylist_id must be a valid UUID or \"any\"")
			return
		}

		slots, err := svc.AvailableSlots(r.Context(), date, serviceID, stylistID)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		if slots == nil {
			slots = []string{}
		}
		writeJSON(w, http.StatusOK, AvailabilityResponse{AvailableSlots: slots})
	}
}

func createAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.ServiceID == "" || req.Date == "" || req.Time == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "service_id, date, and time are required")
			return
		}

		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id must be a valid UUID")
			return
		}

		serviceID, err := uuid.Parse(req.ServiceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return
		}

		stylistID, ok := parseStylistFilter(req.StylistID)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_stylist_id", "stylist_id must be a valid UUID or \"any\"")
			return
		}

		view, err := svc.CreateAppointment(r.Context(), booking.CreateAppointmentInput{
			CustomerID: customerID,
			StylistID:  stylistID,
			ServiceID:  serviceID,
			Date:       req.Date,
			Time:       req.Time,
			Notes:      req.Notes,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreateAppointmentResponse{
			Message:     "Appointment created successfully",
			Appointment: toAppointmentResponse(view),
		})
	}
}

func myAppointmentsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := uuid.Parse(r.URL.Query().Get("customer_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id must be a valid UUID")
			return
		}

		views, err := svc.ListForCustomer(r.Context(), customerID)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponses(views))
	}
}

func staffAppointmentsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Role enforcement happens upstream; admin callers see everything,
		// stylist callers see their own schedule.
		var stylistID *uuid.UUID
		if r.URL.Query().Get("role") != "admin" {
			id, err := uuid.Parse(r.URL.Query().Get("stylist_id"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_stylist_id", "stylist_id must be a valid UUID unless role=admin")
				return
			}
			stylistID = &id
		}

		views, err := svc.ListForStaff(r.Context(), stylistID)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponses(views))
	}
}

func updateAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req UpdateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		upd := booking.AppointmentUpdate{
			Date:  req.Date,
			Time:  req.Time,
			Notes: req.Notes,
		}
		if req.Status != nil {
			status := booking.Status(*req.Status)
			upd.Status = &status
		}

		if _, err := svc.UpdateAppointment(r.Context(), id, upd); err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Appointment updated successfully"})
	}
}

func deleteAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteAppointment(r.Context(), id); err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Appointment deleted successfully"})
	}
}

func listServicesHandler(cat catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := cat.ListActiveServices(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch services")
			return
		}

		resp := make([]ServiceResponse, 0, len(services))
		for _, s := range services {
			resp = append(resp, toServiceResponse(s))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func listStylistsHandler(cat catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stylists, err := cat.ListActiveStylists(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch stylists")
			return
		}

		resp := make([]StylistResponse, 0, len(stylists))
		for _, s := range stylists {
			resp = append(resp, toStylistResponse(s))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// parseStylistFilter maps "", "any", or a UUID to the service's stylist
// filter. The bool is false when the value is malformed.
func parseStylistFilter(raw string) (*uuid.UUID, bool) {
	if raw == "" || raw == "any" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, booking.ErrInvalidTime):
		writeError(w, http.StatusBadRequest, "invalid_time", err.Error())
	case errors.Is(err, booking.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, booking.ErrNotesTooLong):
		writeError(w, http.StatusBadRequest, "notes_too_long", err.Error())
	case errors.Is(err, booking.ErrEmptyUpdate):
		writeError(w, http.StatusBadRequest, "empty_update", err.Error())
	case errors.Is(err, booking.ErrPastClosing):
		writeError(w, http.StatusBadRequest, "past_closing", err.Error())
	case errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, catalog.ErrStylistNotFound):
		writeError(w, http.StatusNotFound, "stylist_not_found", err.Error())
	case errors.Is(err, catalog.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, booking.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.Is(err, booking.ErrScheduleBusy):
		writeError(w, http.StatusConflict, "schedule_busy", "schedule is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
