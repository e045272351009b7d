package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/riordanmr/appts/internal/booking"
	"github.com/riordanmr/appts/internal/catalog"
)

type RouterConfig struct {
	Booking *booking.Service
	Catalog catalog.Repository
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Catalog endpoints
	r.Get("/services", listServicesHandler(cfg.Catalog))
	r.Get("/stylists", listStylistsHandler(cfg.Catalog))

	// Appointment endpoints
	r.Get("/appointments/availability", availabilityHandler(cfg.Booking))
	r.Post("/appointments", createAppointmentHandler(cfg.Booking))
	r.Get("/appointments/mine", myAppointmentsHandler(cfg.Booking))
	r.Get("/appointments/staff", staffAppointmentsHandler(cfg.Booking))
	r.Put("/appointments/{id}", updateAppointmentHandler(cfg.Booking))
	r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Booking))

	return r
}
