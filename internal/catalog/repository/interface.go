package repository

import (
	"context"

	"github.com/google/uuid"

	"quoteflow_backend/internal/pricing"
)

// Service is a stored service definition: a priced offering with its
// formula, question variables, and upsell items.
type Service struct {
	ID        uuid.UUID
	Name      string
	Formula   string
	Variables []pricing.Variable
	Upsells   []pricing.Upsell
	IsActive  bool
	CreatedAt string
	UpdatedAt string
}

// CreateParams contains parameters for creating a service definition.
type CreateParams struct {
	Name      string
	Formula   string
	Variables []pricing.Variable
	Upsells   []pricing.Upsell
}

// UpdateParams contains parameters for updating a service definition.
// Nil fields keep the stored value.
type UpdateParams struct {
	ID        uuid.UUID
	Name      *string
	Formula   *string
	Variables *[]pricing.Variable
	Upsells   *[]pricing.Upsell
}

// ServiceReader provides read operations for service definitions.
type ServiceReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Service, error)
	List(ctx context.Context) ([]Service, error)
	ListActive(ctx context.Context) ([]Service, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Service, error)
}

// ServiceWriter provides write operations for service definitions.
type ServiceWriter interface {
	Create(ctx context.Context, params CreateParams) (Service, error)
	Update(ctx context.Context, params UpdateParams) (Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
}

// Repository combines all service definition repository operations.
type Repository interface {
	ServiceReader
	ServiceWriter
}
