// Package service implements the quote orchestration: it loads service
// definitions, evaluates formulas against the customer's answers, resolves
// the travel fee, and runs the pricing pipeline. Preview and submission
// share one computation path so the persisted quote always matches what the
// customer was shown.
package service

import (
	"context"

	"github.com/google/uuid"

	"quoteflow_backend/internal/distance"
	"quoteflow_backend/internal/events"
	"quoteflow_backend/internal/pricing"
	"quoteflow_backend/internal/quotes/repository"
	"quoteflow_backend/internal/quotes/transport"
	"quoteflow_backend/platform/apperr"
	"quoteflow_backend/platform/logger"
)

// DefinitionSource loads pricing definitions for selected services.
// Implemented by the catalog service.
type DefinitionSource interface {
	DefinitionsByIDs(ctx context.Context, ids []uuid.UUID) ([]pricing.ServiceDefinition, error)
}

// DistanceResolver turns an address pair into a travel-fee contribution.
// Implemented by the distance service.
type DistanceResolver interface {
	GetDistanceInfo(ctx context.Context, businessAddress, customerAddress string, settings distance.Settings) *pricing.DistanceInfo
}

// Service provides business logic for quote previews and submissions.
type Service struct {
	repo repository.Repository
	defs DefinitionSource
	dist DistanceResolver
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new quotes service.
func New(repo repository.Repository, defs DefinitionSource, dist DistanceResolver, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, defs: defs, dist: dist, bus: bus, log: log}
}

// Preview computes a quote without persisting anything.
func (s *Service) Preview(ctx context.Context, req transport.PreviewRequest) (transport.PreviewResponse, error) {
	result, err := s.compute(ctx, req.ServiceIDs, req.Answers, req.Config)
	if err != nil {
		return transport.PreviewResponse{}, err
	}

	s.bus.Publish(ctx, events.QuotePreviewed{
		BaseEvent:  events.NewBaseEvent(),
		ServiceIDs: req.ServiceIDs,
		TotalCents: result.Breakdown.Total,
	})

	return transport.PreviewResponse{QuoteComputation: result}, nil
}

// Submit recomputes the quote server-side and persists it. The client never
// sends prices; only selections, answers, and configuration.
func (s *Service) Submit(ctx context.Context, req transport.SubmitRequest) (transport.SubmitResponse, error) {
	result, err := s.compute(ctx, req.ServiceIDs, req.Answers, req.Config)
	if err != nil {
		return transport.SubmitResponse{}, err
	}

	quote, err := s.repo.Create(ctx, repository.CreateParams{
		Customer:   req.Customer,
		ServiceIDs: req.ServiceIDs,
		Answers:    req.Answers,
		Services:   result.Services,
		Breakdown:  result.Breakdown,
		TotalCents: result.Breakdown.Total,
	})
	if err != nil {
		return transport.SubmitResponse{}, err
	}

	s.log.Info("quote submitted", "id", quote.ID, "total_cents", quote.TotalCents, "services", len(req.ServiceIDs))
	s.bus.Publish(ctx, events.QuoteSubmitted{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    quote.ID,
		ServiceIDs: req.ServiceIDs,
		TotalCents: quote.TotalCents,
		Email:      req.Customer.Email,
	})

	return transport.SubmitResponse{
		ID:               quote.ID,
		CreatedAt:        quote.CreatedAt,
		QuoteComputation: result,
	}, nil
}

// GetByID retrieves a submitted quote.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return toResponse(quote), nil
}

// List retrieves submitted quotes newest first.
func (s *Service) List(ctx context.Context, limit, offset int) (transport.QuoteListResponse, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return transport.QuoteListResponse{}, err
	}

	responses := make([]transport.QuoteResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.QuoteListResponse{Items: responses, Total: total}, nil
}

// compute is the single pricing path shared by preview and submission.
func (s *Service) compute(ctx context.Context, serviceIDs []string, answers map[string]pricing.Answers, cfg transport.PricingConfig) (transport.QuoteComputation, error) {
	ids := make([]uuid.UUID, 0, len(serviceIDs))
	for _, raw := range serviceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return transport.QuoteComputation{}, apperr.BadRequest("invalid service ID " + raw)
		}
		ids = append(ids, id)
	}

	defs, err := s.defs.DefinitionsByIDs(ctx, ids)
	if err != nil {
		return transport.QuoteComputation{}, err
	}
	if len(defs) == 0 {
		return transport.QuoteComputation{}, apperr.NotFound("no active services matched the selection")
	}

	// Formulas price in whole currency units; the pipeline runs in cents.
	services := make([]transport.ServicePrice, 0, len(defs))
	servicePrices := make(map[string]int64, len(defs))
	pricedIDs := make([]string, 0, len(defs))
	var upsells []pricing.Upsell

	for _, def := range defs {
		price, ferr := pricing.EvaluateService(def, answers[def.ID])
		if ferr != nil {
			s.log.FormulaFailure(ferr.ServiceID, ferr.Formula, ferr.Substituted, ferr.Cause.Error())
			s.bus.Publish(ctx, events.FormulaEvaluationFailed{
				BaseEvent:   events.NewBaseEvent(),
				ServiceID:   ferr.ServiceID,
				Formula:     ferr.Formula,
				Substituted: ferr.Substituted,
				Reason:      ferr.Cause.Error(),
			})
		}

		priceCents := price * 100
		services = append(services, transport.ServicePrice{
			ServiceID:  def.ID,
			Name:       def.Name,
			PriceCents: priceCents,
			Failed:     ferr != nil,
		})
		servicePrices[def.ID] = priceCents
		pricedIDs = append(pricedIDs, def.ID)
		upsells = append(upsells, def.Upsells...)
	}

	info := s.resolveDistance(ctx, cfg.Distance)

	breakdown := pricing.ComputeBreakdown(pricedIDs, servicePrices, pricing.PricingOptions{
		BundleEnabled:       cfg.BundleEnabled,
		BundlePercent:       cfg.BundlePercent,
		AllowStacking:       cfg.AllowStacking,
		Discounts:           cfg.Discounts,
		SelectedDiscountIDs: cfg.SelectedDiscountIDs,
		Upsells:             upsells,
		SelectedUpsellIDs:   cfg.SelectedUpsellIDs,
		Distance:            info,
		SalesTaxEnabled:     cfg.SalesTaxEnabled,
		TaxRatePercent:      cfg.TaxRatePercent,
	})

	return transport.QuoteComputation{
		Services:  services,
		Breakdown: breakdown,
		Distance:  info,
	}, nil
}

// resolveDistance maps the request configuration onto the distance service
// and rescales flat fees from currency units to cents. Percentage fees are
// fractions of the discounted subtotal and need no scaling.
func (s *Service) resolveDistance(ctx context.Context, cfg *transport.DistanceConfig) *pricing.DistanceInfo {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	mode := cfg.PricingType
	if mode == "" {
		mode = pricing.FeeFlat
	}

	info := s.dist.GetDistanceInfo(ctx, cfg.BusinessAddress, cfg.CustomerAddress, distance.Settings{
		Enabled:       cfg.Enabled,
		ServiceRadius: cfg.ServiceRadius,
		RatePerMile:   cfg.RatePerMile,
		PricingType:   mode,
	})
	if info == nil {
		return nil
	}

	if info.Mode == pricing.FeeFlat {
		scaled := *info
		scaled.Fee = info.Fee * 100
		return &scaled
	}
	return info
}

func toResponse(q repository.Quote) transport.QuoteResponse {
	return transport.QuoteResponse{
		ID:         q.ID,
		Customer:   q.Customer,
		ServiceIDs: q.ServiceIDs,
		Services:   q.Services,
		Breakdown:  q.Breakdown,
		TotalCents: q.TotalCents,
		CreatedAt:  q.CreatedAt,
	}
}
