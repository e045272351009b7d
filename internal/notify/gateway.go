package notify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/riordanmr/appts/internal/booking"
)

// Notifier fans a confirmation or reminder out to email and SMS. A
// channel with no configured sender logs the message instead, so a bare
// dev environment still shows what would have gone out.
type Notifier struct {
	email        EmailSender
	sms          SMSSender
	businessName string
}

func NewNotifier(email EmailSender, sms SMSSender, businessName string) *Notifier {
	if businessName == "" {
		businessName = "Hair Salon"
	}
	return &Notifier{
		email:        email,
		sms:          sms,
		businessName: businessName,
	}
}

func (n *Notifier) SendConfirmation(ctx context.Context, view *booking.AppointmentView) error {
	subject := fmt.Sprintf("Appointment Confirmation - %s", n.businessName)
	body := n.confirmationBody(view)
	sms := fmt.Sprintf("%s: Your appointment is confirmed for %s at %s. Service: %s",
		n.businessName, view.Date, view.Time, view.ServiceName)

	return n.dispatch(ctx, view, subject, body, sms)
}

func (n *Notifier) SendReminder(ctx context.Context, view *booking.AppointmentView) error {
	subject := fmt.Sprintf("Reminder: Appointment Tomorrow - %s", n.businessName)
	body := n.reminderBody(view)
	sms := fmt.Sprintf("%s: Reminder - Your appointment is tomorrow at %s. Service: %s",
		n.businessName, view.Time, view.ServiceName)

	return n.dispatch(ctx, view, subject, body, sms)
}

func (n *Notifier) dispatch(ctx context.Context, view *booking.AppointmentView, subject, body, sms string) error {
	var errs []error

	if n.email != nil {
		if err := n.email.Send(view.CustomerEmail, subject, body); err != nil {
			errs = append(errs, fmt.Errorf("email %s: %w", view.CustomerEmail, err))
		}
	} else {
		log.Printf("[EMAIL] to=%s subject=%q", view.CustomerEmail, subject)
	}

	if view.CustomerPhone != nil {
		if n.sms != nil {
			if err := n.sms.Send(ctx, *view.CustomerPhone, sms); err != nil {
				errs = append(errs, fmt.Errorf("sms %s: %w", *view.CustomerPhone, err))
			}
		} else {
			log.Printf("[SMS] to=%s message=%q", *view.CustomerPhone, sms)
		}
	}

	return errors.Join(errs...)
}

func (n *Notifier) confirmationBody(view *booking.AppointmentView) string {
	return fmt.Sprintf(`Hello %s,

Your appointment has been confirmed!

Service: %s
Stylist: %s
Date: %s
Time: %s

You will receive a reminder 1 day before your appointment.

Thank you for choosing %s!
`, view.CustomerName, view.ServiceName, stylistName(view), view.Date, view.Time, n.businessName)
}

func (n *Notifier) reminderBody(view *booking.AppointmentView) string {
	return fmt.Sprintf(`Hello %s,

This is a reminder about your appointment tomorrow:

Service: %s
Stylist: %s
Date: %s
Time: %s

We look forward to seeing you!

%s
`, view.CustomerName, view.ServiceName, stylistName(view), view.Date, view.Time, n.businessName)
}

func stylistName(view *booking.AppointmentView) string {
	if view.StylistName != nil && *view.StylistName != "" {
		return *view.StylistName
	}
	return "Any available stylist"
}
