package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quoteflow_backend/platform/apperr"
)

const quoteNotFoundMessage = "quote not found"

// Repo implements the Repository interface with PostgreSQL. The customer,
// answers, per-service prices, and breakdown are stored as JSONB so the
// record reproduces exactly what the customer saw.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quote submission repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create persists a quote submission.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Quote, error) {
	customer, err := json.Marshal(params.Customer)
	if err != nil {
		return Quote{}, fmt.Errorf("encode customer: %w", err)
	}
	answers, err := json.Marshal(params.Answers)
	if err != nil {
		return Quote{}, fmt.Errorf("encode answers: %w", err)
	}
	services, err := json.Marshal(params.Services)
	if err != nil {
		return Quote{}, fmt.Errorf("encode services: %w", err)
	}
	breakdown, err := json.Marshal(params.Breakdown)
	if err != nil {
		return Quote{}, fmt.Errorf("encode breakdown: %w", err)
	}

	query := `
		INSERT INTO qf_quotes (customer, service_ids, answers, services, breakdown, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, customer, service_ids, answers, services, breakdown, total_cents, created_at`

	quote, err := scanQuote(r.pool.QueryRow(ctx, query,
		customer, params.ServiceIDs, answers, services, breakdown, params.TotalCents,
	))
	if err != nil {
		return Quote{}, fmt.Errorf("create quote: %w", err)
	}

	return quote, nil
}

// GetByID retrieves a quote submission by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Quote, error) {
	query := `
		SELECT id, customer, service_ids, answers, services, breakdown, total_cents, created_at
		FROM qf_quotes
		WHERE id = $1`

	quote, err := scanQuote(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, apperr.NotFound(quoteNotFoundMessage)
		}
		return Quote{}, fmt.Errorf("get quote by id: %w", err)
	}

	return quote, nil
}

// List retrieves quote submissions newest first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]Quote, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM qf_quotes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	query := `
		SELECT id, customer, service_ids, answers, services, breakdown, total_cents, created_at
		FROM qf_quotes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var results []Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quote: %w", err)
		}
		results = append(results, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate quotes: %w", err)
	}

	return results, total, nil
}

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	var customer, answers, services, breakdown []byte
	var createdAt time.Time

	err := row.Scan(
		&q.ID, &customer, &q.ServiceIDs, &answers, &services, &breakdown,
		&q.TotalCents, &createdAt,
	)
	if err != nil {
		return Quote{}, err
	}

	if err := json.Unmarshal(customer, &q.Customer); err != nil {
		return Quote{}, fmt.Errorf("decode customer: %w", err)
	}
	if err := json.Unmarshal(answers, &q.Answers); err != nil {
		return Quote{}, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal(services, &q.Services); err != nil {
		return Quote{}, fmt.Errorf("decode services: %w", err)
	}
	if err := json.Unmarshal(breakdown, &q.Breakdown); err != nil {
		return Quote{}, fmt.Errorf("decode breakdown: %w", err)
	}

	q.CreatedAt = createdAt.Format(time.RFC3339)

	return q, nil
}
