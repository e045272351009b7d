package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	InsertAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetAppointmentView(ctx context.Context, id uuid.UUID) (*AppointmentView, error)

	// For availability and the create-time overlap recheck.
	// A nil stylistID returns scheduled appointments across all stylists.
	ListScheduledOnDate(ctx context.Context, date string, stylistID *uuid.UUID) ([]Appointment, error)

	// Listings, denormalized for display
	ListViewsByCustomer(ctx context.Context, customerID uuid.UUID) ([]AppointmentView, error)
	ListViewsByStylist(ctx context.Context, stylistID *uuid.UUID) ([]AppointmentView, error)

	// Staff edits and deletes
	UpdateAppointment(ctx context.Context, id uuid.UUID, upd AppointmentUpdate) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	// Reminder flags, compare-and-set so a flag never flips back
	MarkConfirmationSent(ctx context.Context, id uuid.UUID) (bool, error)
	MarkDayBeforeReminderSent(ctx context.Context, id uuid.UUID) (bool, error)
	ListViewsNeedingDayBeforeReminder(ctx context.Context, date string) ([]AppointmentView, error)
}
