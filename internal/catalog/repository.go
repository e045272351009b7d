package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrStylistNotFound  = errors.New("stylist not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Repository contains the reference-data reads needed by the booking service.
type Repository interface {
	GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error)
	GetStylistByID(ctx context.Context, id uuid.UUID) (*Stylist, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	ListActiveServices(ctx context.Context) ([]Service, error)
	ListActiveStylists(ctx context.Context) ([]Stylist, error)
}
