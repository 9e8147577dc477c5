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

	"quoteflow_backend/internal/pricing"
	"quoteflow_backend/platform/apperr"
)

const serviceNotFoundMessage = "service not found"

// Repo implements the Repository interface with PostgreSQL. Variables and
// upsell items are stored as JSONB documents next to the formula text.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new service definition repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a service definition by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Service, error) {
	query := `
		SELECT id, name, formula, variables, upsell_items, is_active, created_at, updated_at
		FROM qf_services
		WHERE id = $1`

	svc, err := scanService(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("get service by id: %w", err)
	}

	return svc, nil
}

// List retrieves all service definitions ordered by name.
func (r *Repo) List(ctx context.Context) ([]Service, error) {
	query := `
		SELECT id, name, formula, variables, upsell_items, is_active, created_at, updated_at
		FROM qf_services
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// ListActive retrieves only active service definitions ordered by name.
func (r *Repo) ListActive(ctx context.Context) ([]Service, error) {
	query := `
		SELECT id, name, formula, variables, upsell_items, is_active, created_at, updated_at
		FROM qf_services
		WHERE is_active = true
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active services: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// ListByIDs retrieves the service definitions matching the given IDs.
// Unknown IDs are simply absent from the result.
func (r *Repo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, formula, variables, upsell_items, is_active, created_at, updated_at
		FROM qf_services
		WHERE id = ANY($1)
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list services by ids: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// Create creates a new service definition.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Service, error) {
	variables, upsells, err := encodeDocuments(params.Variables, params.Upsells)
	if err != nil {
		return Service{}, err
	}

	query := `
		INSERT INTO qf_services (name, formula, variables, upsell_items)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, formula, variables, upsell_items, is_active, created_at, updated_at`

	svc, err := scanService(r.pool.QueryRow(ctx, query, params.Name, params.Formula, variables, upsells))
	if err != nil {
		return Service{}, fmt.Errorf("create service: %w", err)
	}

	return svc, nil
}

// Update updates an existing service definition.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Service, error) {
	var variables, upsells []byte
	var err error
	if params.Variables != nil {
		variables, err = json.Marshal(*params.Variables)
		if err != nil {
			return Service{}, fmt.Errorf("encode variables: %w", err)
		}
	}
	if params.Upsells != nil {
		upsells, err = json.Marshal(*params.Upsells)
		if err != nil {
			return Service{}, fmt.Errorf("encode upsell items: %w", err)
		}
	}

	query := `
		UPDATE qf_services SET
			name = COALESCE($2, name),
			formula = COALESCE($3, formula),
			variables = COALESCE($4, variables),
			upsell_items = COALESCE($5, upsell_items),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, formula, variables, upsell_items, is_active, created_at, updated_at`

	svc, err := scanService(r.pool.QueryRow(ctx, query, params.ID, params.Name, params.Formula, variables, upsells))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("update service: %w", err)
	}

	return svc, nil
}

// Delete removes a service definition by ID (hard delete).
// Use SetActive(false) for soft delete.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM qf_services WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}

	return nil
}

// SetActive sets the is_active flag for a service definition.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE qf_services SET is_active = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, isActive)
	if err != nil {
		return fmt.Errorf("set service active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}

	return nil
}

func encodeDocuments(variables []pricing.Variable, upsells []pricing.Upsell) ([]byte, []byte, error) {
	if variables == nil {
		variables = []pricing.Variable{}
	}
	if upsells == nil {
		upsells = []pricing.Upsell{}
	}

	encodedVars, err := json.Marshal(variables)
	if err != nil {
		return nil, nil, fmt.Errorf("encode variables: %w", err)
	}
	encodedUpsells, err := json.Marshal(upsells)
	if err != nil {
		return nil, nil, fmt.Errorf("encode upsell items: %w", err)
	}

	return encodedVars, encodedUpsells, nil
}

func scanService(row pgx.Row) (Service, error) {
	var svc Service
	var variables, upsells []byte
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&svc.ID, &svc.Name, &svc.Formula, &variables, &upsells,
		&svc.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return Service{}, err
	}

	if err := json.Unmarshal(variables, &svc.Variables); err != nil {
		return Service{}, fmt.Errorf("decode variables: %w", err)
	}
	if err := json.Unmarshal(upsells, &svc.Upsells); err != nil {
		return Service{}, fmt.Errorf("decode upsell items: %w", err)
	}

	svc.CreatedAt = createdAt.Format(time.RFC3339)
	svc.UpdatedAt = updatedAt.Format(time.RFC3339)

	return svc, nil
}

func scanServices(rows pgx.Rows) ([]Service, error) {
	var results []Service

	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		results = append(results, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}

	return results, nil
}
