// Package transport defines request and response DTOs for the catalog module.
package transport

import (
	"github.com/google/uuid"

	"quoteflow_backend/internal/pricing"
)

// CreateServiceRequest is the payload for creating a service definition.
type CreateServiceRequest struct {
	Name      string             `json:"name" validate:"required,min=1,max=200"`
	Formula   string             `json:"formula" validate:"required,min=1,max=2000"`
	Variables []pricing.Variable `json:"variables" validate:"dive"`
	Upsells   []pricing.Upsell   `json:"upsellItems"`
}

// UpdateServiceRequest is the payload for updating a service definition.
// Nil fields are left unchanged.
type UpdateServiceRequest struct {
	Name      *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Formula   *string             `json:"formula" validate:"omitempty,min=1,max=2000"`
	Variables *[]pricing.Variable `json:"variables"`
	Upsells   *[]pricing.Upsell   `json:"upsellItems"`
}

// ServiceResponse is the API representation of a service definition.
type ServiceResponse struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Formula   string             `json:"formula"`
	Variables []pricing.Variable `json:"variables"`
	Upsells   []pricing.Upsell   `json:"upsellItems"`
	IsActive  bool               `json:"isActive"`
	CreatedAt string             `json:"createdAt"`
	UpdatedAt string             `json:"updatedAt"`
}

// ServiceListResponse wraps a list of service definitions.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Total int               `json:"total"`
}

// DeleteServiceResponse reports the outcome of a delete request.
type DeleteServiceResponse struct {
	Status string `json:"status"`
}
