package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/riordanmr/appts/internal/booking"
	"github.com/riordanmr/appts/internal/catalog"
)

type CreateAppointmentRequest struct {
	CustomerID string `json:"customer_id"`
	ServiceID  string `json:"service_id"`
	StylistID  string `json:"stylist_id,omitempty"` // empty or "any" books any stylist
	Date       string `json:"date"`
	Time       string `json:"time"`
	Notes      string `json:"notes,omitempty"`
}

type UpdateAppointmentRequest struct {
	Date   *string `json:"date,omitempty"`
	Time   *string `json:"time,omitempty"`
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

type AvailabilityResponse struct {
	AvailableSlots []string `json:"available_slots"`
}

type AppointmentResponse struct {
	ID                    uuid.UUID  `json:"id"`
	CustomerID            uuid.UUID  `json:"customer_id"`
	CustomerName          string     `json:"customer_name,omitempty"`
	CustomerEmail         string     `json:"customer_email,omitempty"`
	CustomerPhone         *string    `json:"customer_phone,omitempty"`
	StylistID             *uuid.UUID `json:"stylist_id,omitempty"`
	StylistName           *string    `json:"stylist_name,omitempty"`
	ServiceID             uuid.UUID  `json:"service_id"`
	ServiceName           string     `json:"service_name"`
	DurationMinutes       int        `json:"duration_minutes"`
	Price                 float64    `json:"price"`
	Date                  string     `json:"date"`
	Time                  string     `json:"time"`
	Status                string     `json:"status"`
	Notes                 string     `json:"notes,omitempty"`
	ReminderSent          bool       `json:"reminder_sent"`
	DayBeforeReminderSent bool       `json:"day_before_reminder_sent"`
	CreatedAt             time.Time  `json:"created_at"`
}

type CreateAppointmentResponse struct {
	Message     string              `json:"message"`
	Appointment AppointmentResponse `json:"appointment"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
}

type StylistResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Bio  *string   `json:"bio,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(v *booking.AppointmentView) AppointmentResponse {
	return AppointmentResponse{
		ID:                    v.ID,
		CustomerID:            v.CustomerID,
		CustomerName:          v.CustomerName,
		CustomerEmail:         v.CustomerEmail,
		CustomerPhone:         v.CustomerPhone,
		StylistID:             v.StylistID,
		StylistName:           v.StylistName,
		ServiceID:             v.ServiceID,
		ServiceName:           v.ServiceName,
		DurationMinutes:       v.DurationMinutes,
		Price:                 v.Price,
		Date:                  v.Date,
		Time:                  v.Time,
		Status:                string(v.Status),
		Notes:                 v.Notes,
		ReminderSent:          v.ReminderSent,
		DayBeforeReminderSent: v.DayBeforeReminderSent,
		CreatedAt:             v.CreatedAt,
	}
}

func toAppointmentResponses(views []booking.AppointmentView) []AppointmentResponse {
	result := make([]AppointmentResponse, 0, len(views))
	for i := range views {
		result = append(result, toAppointmentResponse(&views[i]))
	}
	return result
}

func toServiceResponse(s catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
	}
}

func toStylistResponse(s catalog.Stylist) StylistResponse {
	return StylistResponse{
		ID:   s.ID,
		Name: s.Name,
		Bio:  s.Bio,
	}
}
