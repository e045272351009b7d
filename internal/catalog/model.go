package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	ID              uuid.UUID
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Stylist struct {
	ID        uuid.UUID
	Name      string
	Bio       *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Customer struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
