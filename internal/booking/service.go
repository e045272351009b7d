package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/riordanmr/appts/internal/catalog"
	"github.com/riordanmr/appts/internal/config"
	redisclient "github.com/riordanmr/appts/internal/redis"
)

const maxNotesLength = 1000

var (
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTime   = errors.New("invalid time, expected HH:MM")
	ErrInvalidStatus = errors.New("invalid appointment status")
	ErrNotesTooLong  = errors.New("notes cannot exceed 1000 characters")
	ErrEmptyUpdate   = errors.New("no fields to update")
	ErrPastClosing   = errors.New("appointment would not finish within business hours")
	ErrSlotTaken     = errors.New("slot no longer available")
	ErrScheduleBusy  = errors.New("schedule is currently being booked, please retry")
)

// Gateway dispatches rendered confirmations and reminders. Delivery is
// best effort from the booking flow's perspective; only the reminder
// sweep waits on the result before flipping its flag.
type Gateway interface {
	SendConfirmation(ctx context.Context, view *AppointmentView) error
	SendReminder(ctx context.Context, view *AppointmentView) error
}

type Service struct {
	catalog catalog.Repository
	repo    Repository
	locker  redisclient.Locker
	gateway Gateway
	cfg     config.Config
}

func NewService(cat catalog.Repository, repo Repository, locker redisclient.Locker, gateway Gateway, cfg config.Config) *Service {
	return &Service{
		catalog: cat,
		repo:    repo,
		locker:  locker,
		gateway: gateway,
		cfg:     cfg,
	}
}

// AvailableSlots returns the bookable HH:MM start times for a date,
// service, and optional stylist. A nil stylistID means "any available
// stylist" and conservatively treats every stylist's scheduled
// appointment as blocking.
func (s *Service) AvailableSlots(ctx context.Context, date string, serviceID uuid.UUID, stylistID *uuid.UUID) ([]string, error) {
	if err := ParseDate(date); err != nil {
		return nil, ErrInvalidDate
	}

	svc, err := s.activeService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.ListScheduledOnDate(ctx, date, stylistID)
	if err != nil {
		return nil, fmt.Errorf("list scheduled appointments: %w", err)
	}

	busy, err := busyIntervals(booked)
	if err != nil {
		return nil, err
	}

	return AvailableStartTimes(s.cfg.OpenHour, s.cfg.CloseHour, s.cfg.SlotStep, svc.DurationMinutes, busy), nil
}

type CreateAppointmentInput struct {
	CustomerID uuid.UUID
	StylistID  *uuid.UUID
	ServiceID  uuid.UUID
	Date       string
	Time       string
	Notes      string
}

// CreateAppointment books a slot. The overlap check runs a second time
// inside a schedule lock so two concurrent bookings for conflicting
// intervals cannot both win; the loser gets ErrSlotTaken.
func (s *Service) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*AppointmentView, error) {
	if err := ParseDate(in.Date); err != nil {
		return nil, ErrInvalidDate
	}
	start, err := ParseClock(in.Time)
	if err != nil {
		return nil, ErrInvalidTime
	}
	if len(in.Notes) > maxNotesLength {
		return nil, ErrNotesTooLong
	}

	if _, err := s.catalog.GetCustomerByID(ctx, in.CustomerID); err != nil {
		if errors.Is(err, catalog.ErrCustomerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load customer: %w", err)
	}

	svc, err := s.activeService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if in.StylistID != nil {
		stylist, err := s.catalog.GetStylistByID(ctx, *in.StylistID)
		if err != nil {
			if errors.Is(err, catalog.ErrStylistNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("load stylist: %w", err)
		}
		if !stylist.Active {
			return nil, catalog.ErrStylistNotFound
		}
	}

	if start+svc.DurationMinutes > s.cfg.CloseHour*60 {
		return nil, ErrPastClosing
	}

	var created *Appointment

	err = s.locker.WithScheduleLock(ctx, in.Date, in.StylistID, func(lockCtx context.Context) error {
		// Recheck inside the critical section: another booking may have
		// landed since the caller's availability query.
		booked, err := s.repo.ListScheduledOnDate(lockCtx, in.Date, in.StylistID)
		if err != nil {
			return fmt.Errorf("recheck scheduled appointments: %w", err)
		}
		busy, err := busyIntervals(booked)
		if err != nil {
			return err
		}
		requested := Interval{Start: start, End: start + svc.DurationMinutes}
		if overlapsAny(requested, busy) {
			return ErrSlotTaken
		}

		appt, err := s.repo.InsertAppointment(lockCtx, &Appointment{
			CustomerID:      in.CustomerID,
			StylistID:       in.StylistID,
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
			Date:            in.Date,
			Time:            FormatClock(start),
			Notes:           in.Notes,
		})
		if err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}

		created = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	view, err := s.repo.GetAppointmentView(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("load created appointment: %w", err)
	}

	// Fire and forget: a failed confirmation never fails the booking.
	go s.dispatchConfirmation(view)

	return view, nil
}

func (s *Service) dispatchConfirmation(view *AppointmentView) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.gateway.SendConfirmation(ctx, view); err != nil {
		log.Printf("failed to send confirmation for appointment %s: %v", view.ID, err)
		return
	}

	if _, err := s.repo.MarkConfirmationSent(ctx, view.ID); err != nil {
		log.Printf("failed to mark confirmation sent for appointment %s: %v", view.ID, err)
	}
}

// ListForCustomer returns the customer's appointments, most recent first.
func (s *Service) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]AppointmentView, error) {
	views, err := s.repo.ListViewsByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by customer: %w", err)
	}
	return views, nil
}

// ListForStaff returns one stylist's appointments in calendar order, or
// every appointment when stylistID is nil (admin view). A staff caller
// whose stylist profile does not exist gets ErrStylistNotFound.
func (s *Service) ListForStaff(ctx context.Context, stylistID *uuid.UUID) ([]AppointmentView, error) {
	if stylistID != nil {
		if _, err := s.catalog.GetStylistByID(ctx, *stylistID); err != nil {
			if errors.Is(err, catalog.ErrStylistNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("load stylist: %w", err)
		}
	}

	views, err := s.repo.ListViewsByStylist(ctx, stylistID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by stylist: %w", err)
	}
	return views, nil
}

// UpdateAppointment applies a staff edit. Rescheduling does not re-run
// the overlap check; staff edits are trusted to resolve conflicts
// manually.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, upd AppointmentUpdate) (*Appointment, error) {
	if upd.Empty() {
		return nil, ErrEmptyUpdate
	}
	if upd.Date != nil {
		if err := ParseDate(*upd.Date); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if upd.Time != nil {
		start, err := ParseClock(*upd.Time)
		if err != nil {
			return nil, ErrInvalidTime
		}
		normalized := FormatClock(start)
		upd.Time = &normalized
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if upd.Notes != nil && len(*upd.Notes) > maxNotesLength {
		return nil, ErrNotesTooLong
	}

	updated, err := s.repo.UpdateAppointment(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAppointment(ctx, id)
}

// SweepDayBeforeReminders sends a reminder for every scheduled
// appointment exactly one day out that has not been reminded yet. A
// failed dispatch is logged and skipped; the flag only flips after a
// successful send. Returns the number of reminders sent.
func (s *Service) SweepDayBeforeReminders(ctx context.Context, now time.Time) (int, error) {
	targetDate := now.AddDate(0, 0, 1).Format(DateLayout)

	views, err := s.repo.ListViewsNeedingDayBeforeReminder(ctx, targetDate)
	if err != nil {
		return 0, fmt.Errorf("list appointments needing reminder: %w", err)
	}

	sent := 0
	for i := range views {
		view := &views[i]

		if err := s.gateway.SendReminder(ctx, view); err != nil {
			log.Printf("failed to send reminder for appointment %s: %v", view.ID, err)
			continue
		}

		flipped, err := s.repo.MarkDayBeforeReminderSent(ctx, view.ID)
		if err != nil {
			log.Printf("failed to mark reminder sent for appointment %s: %v", view.ID, err)
			continue
		}
		if !flipped {
			// A concurrent sweep got there first.
			log.Printf("reminder flag already set for appointment %s", view.ID)
			continue
		}

		sent++
	}

	return sent, nil
}

func (s *Service) activeService(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	svc, err := s.catalog.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load service: %w", err)
	}
	if !svc.Active {
		return nil, catalog.ErrServiceNotFound
	}
	return svc, nil
}

func busyIntervals(booked []Appointment) ([]Interval, error) {
	intervals := make([]Interval, 0, len(booked))
	for _, appt := range booked {
		start, err := ParseClock(appt.Time)
		if err != nil {
			return nil, fmt.Errorf("stored appointment %s has bad time: %w", appt.ID, err)
		}
		intervals = append(intervals, Interval{Start: start, End: start + appt.DurationMinutes})
	}
	return intervals, nil
}
