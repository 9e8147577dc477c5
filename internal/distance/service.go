package distance

import (
	"context"
	"fmt"
	"strings"

	"quoteflow_backend/internal/pricing"
	"quoteflow_backend/platform/logger"
)

// Service converts raw mileage into the travel-fee contribution consumed by
// the pricing pipeline.
type Service struct {
	lookup Lookup
	log    *logger.Logger
}

// NewService creates a distance service around the given collaborator.
func NewService(lookup Lookup, log *logger.Logger) *Service {
	return &Service{lookup: lookup, log: log}
}

// GetDistanceInfo returns the travel-fee contribution for an address pair,
// or nil when no fee applies. nil deliberately covers three states the
// product treats identically: feature disabled, addresses missing, and
// customer within the service radius. Lookup failures also degrade to nil
// so an unreachable collaborator never blocks a quote.
//
// The returned info is tagged with the customer address so callers can
// discard results that a newer address edit has superseded.
func (s *Service) GetDistanceInfo(ctx context.Context, businessAddress, customerAddress string, settings Settings) *pricing.DistanceInfo {
	if !settings.Enabled {
		return nil
	}
	if strings.TrimSpace(businessAddress) == "" || strings.TrimSpace(customerAddress) == "" {
		return nil
	}

	miles, err := s.lookup.DistanceMiles(ctx, businessAddress, customerAddress)
	if err != nil {
		s.log.DistanceLookupFailure(customerAddress, err)
		return nil
	}

	if miles <= settings.ServiceRadius {
		return nil
	}

	extraMiles := miles - settings.ServiceRadius
	info := &pricing.DistanceInfo{
		DistanceMiles: miles,
		AddressTag:    customerAddress,
	}

	switch settings.PricingType {
	case pricing.FeePercentage:
		info.Mode = pricing.FeePercentage
		info.Fee = settings.RatePerMile * extraMiles
		info.Message = fmt.Sprintf("A %.1f%% travel surcharge applies for %.1f miles beyond our service area", info.Fee*100, extraMiles)
	default:
		info.Mode = pricing.FeeFlat
		info.Fee = extraMiles * settings.RatePerMile
		info.Message = fmt.Sprintf("A travel fee applies for %.1f miles beyond our service area", extraMiles)
	}

	return info
}
