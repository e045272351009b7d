package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	var description *string

	err := row.Scan(
		&s.ID,
		&s.Name,
		&description,
		&s.DurationMinutes,
		&s.Price,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	s.Description = description
	return &s, nil
}

func scanStylist(row pgx.Row) (*Stylist, error) {
	var s Stylist
	var bio *string

	err := row.Scan(
		&s.ID,
		&s.Name,
		&bio,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStylistNotFound
		}
		return nil, err
	}

	s.Bio = bio
	return &s, nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var phone *string

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	c.Phone = phone
	return &c, nil
}

// Interface methods

func (r *PgRepository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, duration_minutes, price, active, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) GetStylistByID(ctx context.Context, id uuid.UUID) (*Stylist, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, bio, active, created_at, updated_at
		FROM stylists
		WHERE id = $1
	`, id)
	return scanStylist(row)
}

func (r *PgRepository) GetCustomerByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id)
	return scanCustomer(row)
}

func (r *PgRepository) ListActiveServices(ctx context.Context) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, duration_minutes, price, active, created_at, updated_at
		FROM services
		WHERE active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListActiveStylists(ctx context.Context) ([]Stylist, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, bio, active, created_at, updated_at
		FROM stylists
		WHERE active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Stylist
	for rows.Next() {
		s, err := scanStylist(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
