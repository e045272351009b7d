package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `
	id, customer_id, stylist_id, service_id, service_name, duration_minutes,
	price, appointment_date, appointment_time, status, notes,
	reminder_sent, day_before_reminder_sent, created_at, updated_at`

const viewColumns = appointmentColumns + `,
	customer_name, customer_email, customer_phone, stylist_name`

// appointment_views joins the display fields the original record does not carry.
const viewSource = `
	(SELECT a.*,
	        c.name  AS customer_name,
	        c.email AS customer_email,
	        c.phone AS customer_phone,
	        st.name AS stylist_name
	 FROM appointments a
	 JOIN customers c ON c.id = a.customer_id
	 LEFT JOIN stylists st ON st.id = a.stylist_id) v`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var stylistID *uuid.UUID

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&stylistID,
		&a.ServiceID,
		&a.ServiceName,
		&a.DurationMinutes,
		&a.Price,
		&a.Date,
		&a.Time,
		&a.Status,
		&a.Notes,
		&a.ReminderSent,
		&a.DayBeforeReminderSent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.StylistID = stylistID
	return &a, nil
}

func scanView(row pgx.Row) (*AppointmentView, error) {
	var v AppointmentView
	var stylistID *uuid.UUID
	var phone, stylistName *string

	err := row.Scan(
		&v.ID,
		&v.CustomerID,
		&stylistID,
		&v.ServiceID,
		&v.ServiceName,
		&v.DurationMinutes,
		&v.Price,
		&v.Date,
		&v.Time,
		&v.Status,
		&v.Notes,
		&v.ReminderSent,
		&v.DayBeforeReminderSent,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.CustomerName,
		&v.CustomerEmail,
		&phone,
		&stylistName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	v.StylistID = stylistID
	v.CustomerPhone = phone
	v.StylistName = stylistName
	return &v, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func collectViews(rows pgx.Rows) ([]AppointmentView, error) {
	defer rows.Close()

	var result []AppointmentView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	return result, rows.Err()
}

// Interface methods

func (r *PgRepository) InsertAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			id, customer_id, stylist_id, service_id, service_name,
			duration_minutes, price, appointment_date, appointment_time,
			status, notes, reminder_sent, day_before_reminder_sent,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'scheduled', $10, false, false, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, a.CustomerID, a.StylistID, a.ServiceID, a.ServiceName,
		a.DurationMinutes, a.Price, a.Date, a.Time, a.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentView(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+viewColumns+`
		FROM `+viewSource+`
		WHERE v.id = $1
	`, id)
	return scanView(row)
}

func (r *PgRepository) ListScheduledOnDate(ctx context.Context, date string, stylistID *uuid.UUID) ([]Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE appointment_date = $1 AND status = 'scheduled'`
	args := []any{date}

	if stylistID != nil {
		query += ` AND stylist_id = $2`
		args = append(args, *stylistID)
	}
	query += ` ORDER BY appointment_time`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListViewsByCustomer(ctx context.Context, customerID uuid.UUID) ([]AppointmentView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+viewColumns+`
		FROM `+viewSource+`
		WHERE v.customer_id = $1
		ORDER BY v.appointment_date DESC, v.appointment_time DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	return collectViews(rows)
}

func (r *PgRepository) ListViewsByStylist(ctx context.Context, stylistID *uuid.UUID) ([]AppointmentView, error) {
	query := `
		SELECT ` + viewColumns + `
		FROM ` + viewSource
	var args []any

	if stylistID != nil {
		query += ` WHERE v.stylist_id = $1`
		args = append(args, *stylistID)
	}
	query += ` ORDER BY v.appointment_date, v.appointment_time`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectViews(rows)
}

// UpdateAppointment reads the record, merges the partial update into it in
// Go, and writes the merged fields back. No dynamic SQL assembly.
func (r *PgRepository) UpdateAppointment(ctx context.Context, id uuid.UUID, upd AppointmentUpdate) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update tx: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanAppointment(tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id))
	if err != nil {
		return nil, err
	}

	upd.ApplyTo(current)

	row := tx.QueryRow(ctx, `
		UPDATE appointments
		SET appointment_date = $2,
		    appointment_time = $3,
		    status = $4,
		    notes = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, current.Date, current.Time, current.Status, current.Notes)

	updated, err := scanAppointment(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update tx: %w", err)
	}

	return updated, nil
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) MarkConfirmationSent(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.markFlag(ctx, id, "reminder_sent")
}

func (r *PgRepository) MarkDayBeforeReminderSent(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.markFlag(ctx, id, "day_before_reminder_sent")
}

// markFlag flips a notification flag 0->1. The WHERE precondition makes
// the flip idempotent under overlapping sweep runs.
func (r *PgRepository) markFlag(ctx context.Context, id uuid.UUID, column string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET `+column+` = true,
		    updated_at = now()
		WHERE id = $1
		  AND `+column+` = false
	`, id)
	if err != nil {
		return false, fmt.Errorf("mark %s: %w", column, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgRepository) ListViewsNeedingDayBeforeReminder(ctx context.Context, date string) ([]AppointmentView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+viewColumns+`
		FROM `+viewSource+`
		WHERE v.appointment_date = $1
		  AND v.status = 'scheduled'
		  AND v.day_before_reminder_sent = false
		ORDER BY v.appointment_time
	`, date)
	if err != nil {
		return nil, err
	}
	return collectViews(rows)
}
