package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riordanmr/appts/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := createSchema(ctx, pool); err != nil {
		log.Fatalf("create schema: %v", err)
	}
	if err := seedDefaultServices(ctx, pool); err != nil {
		log.Fatalf("seed services: %v", err)
	}
	stylists, err := seedStylists(ctx, pool, 6)
	if err != nil {
		log.Fatalf("seed stylists: %v", err)
	}
	customers, err := seedCustomers(ctx, pool, 200)
	if err != nil {
		log.Fatalf("seed customers: %v", err)
	}
	if err := seedAppointments(ctx, pool, stylists, customers, 80); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func createSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS stylists (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			bio TEXT,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			duration_minutes INT NOT NULL CHECK (duration_minutes > 0),
			price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			customer_id UUID NOT NULL REFERENCES customers(id),
			stylist_id UUID REFERENCES stylists(id),
			service_id UUID NOT NULL REFERENCES services(id),
			service_name TEXT NOT NULL,
			duration_minutes INT NOT NULL CHECK (duration_minutes > 0),
			price NUMERIC(10,2) NOT NULL,
			appointment_date TEXT NOT NULL,
			appointment_time TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'scheduled'
				CHECK (status IN ('scheduled', 'completed', 'cancelled', 'no-show')),
			notes TEXT NOT NULL DEFAULT '',
			reminder_sent BOOLEAN NOT NULL DEFAULT false,
			day_before_reminder_sent BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_date_status
			ON appointments (appointment_date, status)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_customer
			ON appointments (customer_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	log.Println("schema ready")
	return nil
}

// seedDefaultServices inserts the standard menu only when the services
// table is empty.
func seedDefaultServices(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM services`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Println("services already present, skipping defaults")
		return nil
	}

	defaults := []struct {
		name        string
		description string
		duration    int
		price       float64
	}{
		{"Haircut", "Standard haircut and styling", 60, 35.00},
		{"Coloring", "Full hair coloring service", 120, 85.00},
		{"Highlights", "Partial highlights", 90, 65.00},
		{"Haircut & Style", "Haircut with advanced styling", 75, 45.00},
		{"Wash & Blow Dry", "Hair wash and blow dry", 30, 25.00},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, svc := range defaults {
		_, err := tx.Exec(ctx, `
			INSERT INTO services (id, name, description, duration_minutes, price, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, now(), now())
		`, uuid.New(), svc.name, svc.description, svc.duration, svc.price)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("default services seeded")
	return nil
}

func seedStylists(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d stylists", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		bio := fmt.Sprintf("%d years of experience. Specializes in %s.",
			gofakeit.Number(2, 20), gofakeit.RandomString([]string{"color", "cuts", "styling", "highlights"}))

		_, err := tx.Exec(ctx, `
			INSERT INTO stylists (id, name, bio, active, created_at, updated_at)
			VALUES ($1, $2, $3, true, now(), now())
		`, id, name, bio)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("stylists seeded")
	return ids, nil
}

func seedCustomers(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d customers", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()

		_, err := tx.Exec(ctx, `
			INSERT INTO customers (id, name, email, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, gofakeit.Name(), gofakeit.Email(), gofakeit.Phone())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("customers seeded")
	return ids, nil
}

// seedAppointments scatters scheduled bookings over the next two weeks.
// Stylists get non-overlapping times per day; roughly a quarter of the
// bookings go in with no stylist preference.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, stylists, customers []uuid.UUID, count int) error {
	log.Printf("seeding %d appointments", count)

	type service struct {
		id       uuid.UUID
		name     string
		duration int
		price    float64
	}

	rows, err := pool.Query(ctx, `SELECT id, name, duration_minutes, price FROM services WHERE active`)
	if err != nil {
		return err
	}
	var services []service
	for rows.Next() {
		var s service
		if err := rows.Scan(&s.id, &s.name, &s.duration, &s.price); err != nil {
			rows.Close()
			return err
		}
		services = append(services, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(services) == 0 || len(customers) == 0 {
		return fmt.Errorf("need seeded services and customers first")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// taken tracks one booked start per (day, stylist) key to keep the
	// generated schedule collision free.
	taken := make(map[string]bool)

	inserted := 0
	for attempts := 0; inserted < count && attempts < count*10; attempts++ {
		svc := services[gofakeit.Number(0, len(services)-1)]
		customer := customers[gofakeit.Number(0, len(customers)-1)]

		var stylistID *uuid.UUID
		scope := "any"
		if gofakeit.Number(0, 3) > 0 {
			id := stylists[gofakeit.Number(0, len(stylists)-1)]
			stylistID = &id
			scope = id.String()
		}

		date := time.Now().AddDate(0, 0, gofakeit.Number(1, 14)).Format("2006-01-02")
		hour := gofakeit.Number(9, 16)
		minute := gofakeit.Number(0, 1) * 30
		slot := fmt.Sprintf("%02d:%02d", hour, minute)

		key := date + "/" + scope + "/" + slot
		if taken[key] {
			continue
		}
		taken[key] = true

		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (
				id, customer_id, stylist_id, service_id, service_name,
				duration_minutes, price, appointment_date, appointment_time,
				status, notes, reminder_sent, day_before_reminder_sent,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'scheduled', '', false, false, now(), now())
		`, uuid.New(), customer, stylistID, svc.id, svc.name, svc.duration, svc.price, date, slot)
		if err != nil {
			return err
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("appointments seeded: %d", inserted)
	return nil
}
