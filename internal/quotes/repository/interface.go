package repository

import (
	"context"

	"github.com/google/uuid"

	"quoteflow_backend/internal/pricing"
	"quoteflow_backend/internal/quotes/transport"
)

// Quote is a persisted quote submission: the customer, what they selected,
// and the breakdown that was shown to them at submission time.
type Quote struct {
	ID         uuid.UUID
	Customer   transport.CustomerInfo
	ServiceIDs []string
	Answers    map[string]pricing.Answers
	Services   []transport.ServicePrice
	Breakdown  pricing.Breakdown
	TotalCents int64
	CreatedAt  string
}

// CreateParams contains parameters for persisting a quote submission.
type CreateParams struct {
	Customer   transport.CustomerInfo
	ServiceIDs []string
	Answers    map[string]pricing.Answers
	Services   []transport.ServicePrice
	Breakdown  pricing.Breakdown
	TotalCents int64
}

// Repository persists and retrieves quote submissions.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Quote, error)
	GetByID(ctx context.Context, id uuid.UUID) (Quote, error)
	List(ctx context.Context, limit, offset int) ([]Quote, int, error)
}
