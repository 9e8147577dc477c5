package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"quoteflow_backend/internal/distance"
	"quoteflow_backend/internal/events"
	"quoteflow_backend/internal/pricing"
	"quoteflow_backend/internal/quotes/repository"
	"quoteflow_backend/internal/quotes/transport"
	"quoteflow_backend/platform/apperr"
	"quoteflow_backend/platform/logger"
)

type fakeRepo struct {
	items map[uuid.UUID]repository.Quote
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]repository.Quote)}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Quote, error) {
	quote := repository.Quote{
		ID:         uuid.New(),
		Customer:   params.Customer,
		ServiceIDs: params.ServiceIDs,
		Answers:    params.Answers,
		Services:   params.Services,
		Breakdown:  params.Breakdown,
		TotalCents: params.TotalCents,
		CreatedAt:  "2026-01-01T00:00:00Z",
	}
	f.items[quote.ID] = quote
	return quote, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Quote, error) {
	quote, ok := f.items[id]
	if !ok {
		return repository.Quote{}, apperr.NotFound("quote not found")
	}
	return quote, nil
}

func (f *fakeRepo) List(context.Context, int, int) ([]repository.Quote, int, error) {
	var out []repository.Quote
	for _, quote := range f.items {
		out = append(out, quote)
	}
	return out, len(out), nil
}

type fakeDefs struct {
	defs map[string]pricing.ServiceDefinition
}

func (f *fakeDefs) DefinitionsByIDs(_ context.Context, ids []uuid.UUID) ([]pricing.ServiceDefinition, error) {
	var out []pricing.ServiceDefinition
	for _, id := range ids {
		if def, ok := f.defs[id.String()]; ok {
			out = append(out, def)
		}
	}
	return out, nil
}

type fakeDistance struct {
	info *pricing.DistanceInfo
}

func (f *fakeDistance) GetDistanceInfo(_ context.Context, _, _ string, _ distance.Settings) *pricing.DistanceInfo {
	return f.info
}

// recordingBus records published events synchronously.
type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func numberVar(id string) pricing.Variable {
	return pricing.Variable{ID: id, Label: id, Type: pricing.VariableNumber}
}

type fixture struct {
	svc  *Service
	repo *fakeRepo
	bus  *recordingBus
}

func newFixture(defs map[string]pricing.ServiceDefinition, info *pricing.DistanceInfo) fixture {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := New(repo, &fakeDefs{defs: defs}, &fakeDistance{info: info}, bus, logger.New("development"))
	return fixture{svc: svc, repo: repo, bus: bus}
}

func TestPreviewComputesCents(t *testing.T) {
	id := uuid.New().String()
	fx := newFixture(map[string]pricing.ServiceDefinition{
		id: {
			ID:        id,
			Name:      "Window Cleaning",
			Formula:   "base + windows * rate",
			Variables: []pricing.Variable{numberVar("base"), numberVar("windows"), numberVar("rate")},
		},
	}, nil)

	resp, err := fx.svc.Preview(context.Background(), transport.PreviewRequest{
		ServiceIDs: []string{id},
		Answers: map[string]pricing.Answers{
			id: {"base": 50.0, "windows": 10.0, "rate": 5.0},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Services) != 1 {
		t.Fatalf("expected 1 service line, got %d", len(resp.Services))
	}
	if resp.Services[0].PriceCents != 10000 {
		t.Fatalf("expected 10000 cents, got %d", resp.Services[0].PriceCents)
	}
	if resp.Breakdown.Total != 10000 {
		t.Fatalf("expected total 10000, got %d", resp.Breakdown.Total)
	}
}

func TestPreviewFormulaFailureDegradesToZero(t *testing.T) {
	good := uuid.New().String()
	bad := uuid.New().String()
	fx := newFixture(map[string]pricing.ServiceDefinition{
		good: {ID: good, Name: "Good", Formula: "100"},
		bad:  {ID: bad, Name: "Bad", Formula: "price / 0", Variables: []pricing.Variable{numberVar("price")}},
	}, nil)

	resp, err := fx.svc.Preview(context.Background(), transport.PreviewRequest{
		ServiceIDs: []string{good, bad},
		Answers:    map[string]pricing.Answers{bad: {"price": 10.0}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var badLine *transport.ServicePrice
	for i := range resp.Services {
		if resp.Services[i].ServiceID == bad {
			badLine = &resp.Services[i]
		}
	}
	if badLine == nil {
		t.Fatal("failed service missing from response")
	}
	if !badLine.Failed || badLine.PriceCents != 0 {
		t.Fatalf("failed service must price at zero, got %+v", badLine)
	}
	if resp.Breakdown.Total != 10000 {
		t.Fatalf("sibling service must still price, got total %d", resp.Breakdown.Total)
	}

	var sawFailure bool
	for _, event := range fx.bus.published {
		if failure, ok := event.(events.FormulaEvaluationFailed); ok {
			sawFailure = true
			if failure.ServiceID != bad {
				t.Fatalf("failure event for wrong service %q", failure.ServiceID)
			}
		}
	}
	if !sawFailure {
		t.Fatal("expected a formula failure event")
	}
}

func TestPreviewScalesFlatDistanceFeeToCents(t *testing.T) {
	id := uuid.New().String()
	fx := newFixture(map[string]pricing.ServiceDefinition{
		id: {ID: id, Name: "Flat", Formula: "200"},
	}, &pricing.DistanceInfo{DistanceMiles: 14, Fee: 35, Mode: pricing.FeeFlat})

	resp, err := fx.svc.Preview(context.Background(), transport.PreviewRequest{
		ServiceIDs: []string{id},
		Config: transport.PricingConfig{
			Distance: &transport.DistanceConfig{Enabled: true, BusinessAddress: "HQ", CustomerAddress: "Far"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Breakdown.DistanceFee != 3500 {
		t.Fatalf("expected flat fee 3500 cents, got %d", resp.Breakdown.DistanceFee)
	}
	if resp.Breakdown.Total != 23500 {
		t.Fatalf("expected total 23500, got %d", resp.Breakdown.Total)
	}
}

func TestPreviewPercentageDistanceFee(t *testing.T) {
	id := uuid.New().String()
	fx := newFixture(map[string]pricing.ServiceDefinition{
		id: {ID: id, Name: "Pct", Formula: "200"},
	}, &pricing.DistanceInfo{DistanceMiles: 14, Fee: 0.04, Mode: pricing.FeePercentage})

	resp, err := fx.svc.Preview(context.Background(), transport.PreviewRequest{
		ServiceIDs: []string{id},
		Config: transport.PricingConfig{
			Distance: &transport.DistanceConfig{Enabled: true, BusinessAddress: "HQ", CustomerAddress: "Far", PricingType: pricing.FeePercentage},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 4% of the 20000-cent discounted subtotal.
	if resp.Breakdown.DistanceFee != 800 {
		t.Fatalf("expected percentage fee 800 cents, got %d", resp.Breakdown.DistanceFee)
	}
}

func TestPreviewDistanceDisabledSkipsResolver(t *testing.T) {
	id := uuid.New().String()
	fx := newFixture(map[string]pricing.ServiceDefinition{
		id: {ID: id, Name: "NoTravel", Formula: "100"},
	}, &pricing.DistanceInfo{Fee: 999, Mode: pricing.FeeFlat})

	resp, err := fx.svc.Preview(context.Background(), transport.PreviewRequest{
		ServiceIDs: []string{id},
		Config: transport.PricingConfig{
			Distance: &transport.DistanceConfig{Enabled: false, BusinessAddress: "HQ", CustomerAddress: "Far"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Breakdown.DistanceFee != 0 {
		t.Fatalf("disabled distance must add no fee, got %d", resp.Breakdown.DistanceFee)
	}
	if resp.Distance != nil {
		t.Fatalf("disabled distance must report nil info, got %+v", resp.Distance)
	}
}

func TestPreviewRejectsInvalidServiceID(t *testing.T) {
	fx := newFixture(nil, nil)

	_, err := fx.svc.Preview(context.Background(), transport.PreviewRequest{
		ServiceIDs: []string{"not-a-uuid"},
	})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestPreviewNoMatchingServices(t *testing.T) {
	fx := newFixture(nil, nil)

	_, err := fx.svc.Preview(context.Background(), transport.PreviewRequest{
		ServiceIDs: []string{uuid.New().String()},
	})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitPersistsAndPublishes(t *testing.T) {
	id := uuid.New().String()
	fx := newFixture(map[string]pricing.ServiceDefinition{
		id: {ID: id, Name: "Deep Clean", Formula: "150"},
	}, nil)

	resp, err := fx.svc.Submit(context.Background(), transport.SubmitRequest{
		ServiceIDs: []string{id},
		Customer:   transport.CustomerInfo{Name: "Pat", Email: "pat@example.com"},
		Config: transport.PricingConfig{
			SalesTaxEnabled: true,
			TaxRatePercent:  10,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Breakdown.Total != 16500 {
		t.Fatalf("expected total 16500, got %d", resp.Breakdown.Total)
	}

	stored, err := fx.svc.GetByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.TotalCents != resp.Breakdown.Total {
		t.Fatalf("stored total %d does not match response %d", stored.TotalCents, resp.Breakdown.Total)
	}
	if stored.Customer.Email != "pat@example.com" {
		t.Fatalf("customer not persisted, got %+v", stored.Customer)
	}

	var sawSubmitted bool
	for _, event := range fx.bus.published {
		if submitted, ok := event.(events.QuoteSubmitted); ok {
			sawSubmitted = true
			if submitted.QuoteID != resp.ID || submitted.TotalCents != resp.Breakdown.Total {
				t.Fatalf("submission event mismatch: %+v", submitted)
			}
		}
	}
	if !sawSubmitted {
		t.Fatal("expected a quote submitted event")
	}
}
