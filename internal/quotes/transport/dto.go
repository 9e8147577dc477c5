// Package transport defines request and response DTOs for the quotes module.
// All monetary amounts in responses are integer cents.
package transport

import (
	"github.com/google/uuid"

	"quoteflow_backend/internal/pricing"
)

// DistanceConfig is the travel-fee portion of the widget configuration.
type DistanceConfig struct {
	Enabled         bool            `json:"enabled"`
	BusinessAddress string          `json:"businessAddress"`
	CustomerAddress string          `json:"customerAddress"`
	ServiceRadius   float64         `json:"serviceRadius" validate:"gte=0"`
	RatePerMile     float64         `json:"ratePerMile" validate:"gte=0"`
	PricingType     pricing.FeeMode `json:"pricingType" validate:"omitempty,oneof=flat percentage"`
}

// PricingConfig is the business configuration the widget sends along with
// every preview or submission. Discounts are defined by the business and
// selected by the customer; upsells come from the service definitions.
type PricingConfig struct {
	BundleEnabled       bool               `json:"bundleEnabled"`
	BundlePercent       float64            `json:"bundlePercent" validate:"gte=0,lte=100"`
	AllowStacking       bool               `json:"allowDiscountStacking"`
	Discounts           []pricing.Discount `json:"discounts"`
	SelectedDiscountIDs []string           `json:"selectedDiscountIds"`
	SelectedUpsellIDs   []string           `json:"selectedUpsellIds"`
	SalesTaxEnabled     bool               `json:"salesTaxEnabled"`
	TaxRatePercent      float64            `json:"taxRatePercent" validate:"gte=0"`
	Distance            *DistanceConfig    `json:"distance,omitempty"`
}

// PreviewRequest asks for a price without persisting anything.
// Answers are keyed by service ID, then by variable ID.
type PreviewRequest struct {
	ServiceIDs []string                   `json:"serviceIds" validate:"required,min=1,dive,uuid"`
	Answers    map[string]pricing.Answers `json:"answers"`
	Config     PricingConfig              `json:"config"`
}

// CustomerInfo identifies the submitting customer.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=40"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// SubmitRequest prices and persists a quote.
type SubmitRequest struct {
	ServiceIDs []string                   `json:"serviceIds" validate:"required,min=1,dive,uuid"`
	Answers    map[string]pricing.Answers `json:"answers"`
	Config     PricingConfig              `json:"config"`
	Customer   CustomerInfo               `json:"customer" validate:"required"`
}

// ServicePrice is the evaluated price of one selected service.
type ServicePrice struct {
	ServiceID  string `json:"serviceId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	// Failed marks a service whose formula could not be evaluated; it
	// contributes zero to the quote instead of blocking it.
	Failed bool `json:"failed,omitempty"`
}

// QuoteComputation is the full result of one pricing run.
type QuoteComputation struct {
	Services  []ServicePrice        `json:"services"`
	Breakdown pricing.Breakdown     `json:"breakdown"`
	Distance  *pricing.DistanceInfo `json:"distanceInfo"`
}

// PreviewResponse is the preview endpoint payload.
type PreviewResponse struct {
	QuoteComputation
}

// SubmitResponse is returned after a quote is persisted.
type SubmitResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt string    `json:"createdAt"`
	QuoteComputation
}

// QuoteResponse is the stored representation of a submitted quote.
type QuoteResponse struct {
	ID         uuid.UUID         `json:"id"`
	Customer   CustomerInfo      `json:"customer"`
	ServiceIDs []string          `json:"serviceIds"`
	Services   []ServicePrice    `json:"services"`
	Breakdown  pricing.Breakdown `json:"breakdown"`
	TotalCents int64             `json:"totalCents"`
	CreatedAt  string            `json:"createdAt"`
}

// QuoteListResponse wraps a list of submitted quotes.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Total int             `json:"total"`
}
