// Package service implements the catalog business logic: CRUD over service
// definitions plus the structural checks that keep stored formulas evaluable.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"quoteflow_backend/internal/catalog/repository"
	"quoteflow_backend/internal/catalog/transport"
	"quoteflow_backend/internal/pricing"
	"quoteflow_backend/platform/apperr"
	"quoteflow_backend/platform/logger"
)

var allowedOperators = map[pricing.Operator]struct{}{
	pricing.OpEquals:      {},
	pricing.OpNotEquals:   {},
	pricing.OpGreaterThan: {},
	pricing.OpLessThan:    {},
	pricing.OpContains:    {},
}

// Service provides business logic for service definitions.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a service definition by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ServiceResponse, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	return toResponse(svc), nil
}

// List retrieves all service definitions (admin list).
func (s *Service) List(ctx context.Context) (transport.ServiceListResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return transport.ServiceListResponse{}, err
	}
	return toListResponse(items), nil
}

// ListActive retrieves only active service definitions (public widget list).
func (s *Service) ListActive(ctx context.Context) (transport.ServiceListResponse, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return transport.ServiceListResponse{}, err
	}
	return toListResponse(items), nil
}

// Create validates and creates a new service definition.
func (s *Service) Create(ctx context.Context, req transport.CreateServiceRequest) (transport.ServiceResponse, error) {
	def := pricing.ServiceDefinition{
		Name:      req.Name,
		Formula:   req.Formula,
		Variables: req.Variables,
		Upsells:   req.Upsells,
	}
	if err := validateDefinition(def); err != nil {
		return transport.ServiceResponse{}, err
	}

	svc, err := s.repo.Create(ctx, repository.CreateParams{
		Name:      req.Name,
		Formula:   req.Formula,
		Variables: req.Variables,
		Upsells:   req.Upsells,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service created", "id", svc.ID, "name", svc.Name)
	return toResponse(svc), nil
}

// Update validates and updates an existing service definition. The merged
// result of stored and updated fields must still be structurally sound.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateServiceRequest) (transport.ServiceResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	merged := toDefinition(current)
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Formula != nil {
		merged.Formula = *req.Formula
	}
	if req.Variables != nil {
		merged.Variables = *req.Variables
	}
	if req.Upsells != nil {
		merged.Upsells = *req.Upsells
	}
	if err := validateDefinition(merged); err != nil {
		return transport.ServiceResponse{}, err
	}

	svc, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:        id,
		Name:      req.Name,
		Formula:   req.Formula,
		Variables: req.Variables,
		Upsells:   req.Upsells,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service updated", "id", svc.ID, "name", svc.Name)
	return toResponse(svc), nil
}

// Delete removes a service definition.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (transport.DeleteServiceResponse, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return transport.DeleteServiceResponse{}, err
	}

	s.log.Info("service deleted", "id", id)
	return transport.DeleteServiceResponse{Status: "deleted"}, nil
}

// ToggleActive flips the is_active flag for a service definition.
func (s *Service) ToggleActive(ctx context.Context, id uuid.UUID) (transport.ServiceResponse, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	newActive := !svc.IsActive
	if err := s.repo.SetActive(ctx, id, newActive); err != nil {
		return transport.ServiceResponse{}, err
	}

	svc, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service active toggled", "id", id, "isActive", newActive)
	return toResponse(svc), nil
}

// DefinitionsByIDs loads the pricing definitions for the given service IDs.
// Inactive and unknown services are omitted.
func (s *Service) DefinitionsByIDs(ctx context.Context, ids []uuid.UUID) ([]pricing.ServiceDefinition, error) {
	items, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	defs := make([]pricing.ServiceDefinition, 0, len(items))
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		defs = append(defs, toDefinition(item))
	}
	return defs, nil
}

// validateDefinition rejects definitions that could not evaluate cleanly:
// unparseable formulas, malformed variable identifiers, and binding names
// that collide once multi-select options expand to composite tokens.
func validateDefinition(def pricing.ServiceDefinition) error {
	if err := pricing.ValidateFormula(def.Formula); err != nil {
		return apperr.Validation(fmt.Sprintf("invalid formula: %v", err))
	}

	variableIDs := make(map[string]struct{}, len(def.Variables))
	for _, v := range def.Variables {
		if !pricing.IsIdentifier(v.ID) {
			return apperr.Validation(fmt.Sprintf("variable id %q is not a valid formula identifier", v.ID))
		}
		if _, ok := variableIDs[v.ID]; ok {
			return apperr.Validation(fmt.Sprintf("duplicate variable id %q", v.ID))
		}
		variableIDs[v.ID] = struct{}{}

		if v.Type == pricing.VariableMultipleChoice && v.AllowMultipleSelection {
			for _, opt := range v.Options {
				if opt.ID != "" && !pricing.IsIdentifier(opt.ID) {
					return apperr.Validation(fmt.Sprintf("option id %q of variable %q is not a valid formula identifier", opt.ID, v.ID))
				}
			}
		}

		if v.ConditionalLogic != nil && v.ConditionalLogic.Enabled {
			rule := v.ConditionalLogic.Rule
			if _, ok := allowedOperators[rule.Operator]; !ok {
				return apperr.Validation(fmt.Sprintf("unknown conditional operator %q on variable %q", rule.Operator, v.ID))
			}
			if rule.VariableID == v.ID {
				return apperr.Validation(fmt.Sprintf("variable %q cannot depend on itself", v.ID))
			}
		}
	}

	for _, v := range def.Variables {
		if v.ConditionalLogic == nil || !v.ConditionalLogic.Enabled {
			continue
		}
		if _, ok := variableIDs[v.ConditionalLogic.Rule.VariableID]; !ok {
			return apperr.Validation(fmt.Sprintf("variable %q depends on unknown variable %q", v.ID, v.ConditionalLogic.Rule.VariableID))
		}
	}

	seen := make(map[string]struct{})
	for _, tok := range pricing.BindingTokens(def) {
		if _, ok := seen[tok]; ok {
			return apperr.Validation(fmt.Sprintf("binding name %q is ambiguous; rename the variable or option", tok))
		}
		seen[tok] = struct{}{}
	}

	for _, ident := range pricing.FormulaIdentifiers(def.Formula) {
		if _, ok := seen[ident]; !ok {
			return apperr.Validation(fmt.Sprintf("formula references unknown variable %q", ident))
		}
	}

	for _, up := range def.Upsells {
		if up.PercentageOfMain < 0 {
			return apperr.Validation(fmt.Sprintf("upsell %q has a negative percentage", up.Name))
		}
	}

	return nil
}

func toDefinition(svc repository.Service) pricing.ServiceDefinition {
	return pricing.ServiceDefinition{
		ID:        svc.ID.String(),
		Name:      svc.Name,
		Formula:   svc.Formula,
		Variables: svc.Variables,
		Upsells:   svc.Upsells,
	}
}

func toResponse(svc repository.Service) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:        svc.ID,
		Name:      svc.Name,
		Formula:   svc.Formula,
		Variables: svc.Variables,
		Upsells:   svc.Upsells,
		IsActive:  svc.IsActive,
		CreatedAt: svc.CreatedAt,
		UpdatedAt: svc.UpdatedAt,
	}
}

func toListResponse(items []repository.Service) transport.ServiceListResponse {
	responses := make([]transport.ServiceResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.ServiceListResponse{
		Items: responses,
		Total: len(items),
	}
}
