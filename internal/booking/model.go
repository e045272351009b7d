package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment captures the service duration and price at booking time so
// later catalog edits cannot change what was sold or shift overlap math.
type Appointment struct {
	ID                    uuid.UUID
	CustomerID            uuid.UUID
	StylistID             *uuid.UUID // nil means "any available stylist"
	ServiceID             uuid.UUID
	ServiceName           string
	DurationMinutes       int
	Price                 float64
	Date                  string // YYYY-MM-DD
	Time                  string // HH:MM, 24-hour
	Status                Status
	Notes                 string
	ReminderSent          bool
	DayBeforeReminderSent bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// AppointmentView is an Appointment with display fields joined at read time.
type AppointmentView struct {
	Appointment
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	StylistName   *string
}

// AppointmentUpdate holds the optional fields of a partial update.
// Nil fields are left untouched.
type AppointmentUpdate struct {
	Date   *string
	Time   *string
	Status *Status
	Notes  *string
}

func (u AppointmentUpdate) Empty() bool {
	return u.Date == nil && u.Time == nil && u.Status == nil && u.Notes == nil
}

// ApplyTo merges the update into a stored record.
func (u AppointmentUpdate) ApplyTo(a *Appointment) {
	if u.Date != nil {
		a.Date = *u.Date
	}
	if u.Time != nil {
		a.Time = *u.Time
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
}
