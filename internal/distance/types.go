package distance

import "quoteflow_backend/internal/pricing"

// Settings is the business configuration for travel fees.
type Settings struct {
	Enabled       bool            `json:"enabled"`
	ServiceRadius float64         `json:"serviceRadius" validate:"min=0"`
	RatePerMile   float64         `json:"ratePerMile" validate:"min=0"`
	PricingType   pricing.FeeMode `json:"pricingType" validate:"omitempty,oneof=flat percentage"`
}

// PreviewRequest asks for the travel-fee contribution of one address pair.
type PreviewRequest struct {
	BusinessAddress string   `json:"businessAddress" validate:"required,max=500"`
	CustomerAddress string   `json:"customerAddress" validate:"required,max=500"`
	Settings        Settings `json:"settings"`
}

// PreviewResponse carries the computed distance info. DistanceInfo is null
// when no travel fee applies (feature off, in-area, or lookup failure).
type PreviewResponse struct {
	DistanceInfo *pricing.DistanceInfo `json:"distanceInfo"`
}

// lookupRequest is the wire request to the distance collaborator.
type lookupRequest struct {
	BusinessAddress string `json:"businessAddress"`
	CustomerAddress string `json:"customerAddress"`
}

// lookupResponse is the wire response from the distance collaborator.
type lookupResponse struct {
	DistanceMiles float64 `json:"distanceMiles"`
}
