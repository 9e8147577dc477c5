package pricing

// ComputeBreakdown aggregates per-service prices into the final itemized
// total. The stage order is fixed and every stage rounds at the point its
// amount enters the breakdown, so the parts always sum exactly to Total:
//
//  1. subtotal: per-service prices clamped at 0, summed
//  2. bundle discount (only when bundling is on and >1 service selected)
//  3. customer discounts, each a percentage of the undiscounted subtotal
//  4. discounted subtotal (floored at 0 by capping the discount amounts)
//  5. distance fee (flat, or percentage of the post-discount subtotal)
//  6. upsells, percentages of the undiscounted subtotal
//  7-9. taxable amount, tax, total
//
// Missing configuration (no discounts, nil distance info, zero tax rate)
// degrades to zero contribution, never to an error.
func ComputeBreakdown(selectedServiceIDs []string, servicePrices map[string]int64, opts PricingOptions) Breakdown {
	var subtotal int64
	for _, id := range selectedServiceIDs {
		if price := servicePrices[id]; price > 0 {
			subtotal += price
		}
	}
	subtotalFloat := float64(subtotal)

	var bundleDiscount int64
	if opts.BundleEnabled && len(selectedServiceIDs) > 1 && opts.BundlePercent > 0 {
		bundleDiscount = roundMinor(subtotalFloat * opts.BundlePercent / 100)
		if bundleDiscount > subtotal {
			bundleDiscount = subtotal
		}
	}

	// Customer discounts never compound: each is a percentage of the
	// undiscounted subtotal. Amounts are capped so the running discounted
	// subtotal cannot go below zero.
	remaining := subtotal - bundleDiscount
	applied := make([]AppliedDiscount, 0)
	var discountTotal int64
	for _, d := range selectedDiscounts(opts) {
		amount := roundMinor(subtotalFloat * d.Percentage / 100)
		if amount > remaining {
			amount = remaining
		}
		if amount < 0 {
			amount = 0
		}
		applied = append(applied, AppliedDiscount{
			ID:         d.ID,
			Name:       d.Name,
			Percentage: d.Percentage,
			Amount:     amount,
		})
		discountTotal += amount
		remaining -= amount
	}

	discountedSubtotal := subtotal - bundleDiscount - discountTotal

	var distanceFee int64
	if opts.Distance != nil {
		switch opts.Distance.Mode {
		case FeePercentage:
			distanceFee = roundMinor(float64(discountedSubtotal) * opts.Distance.Fee)
		default:
			distanceFee = roundMinor(opts.Distance.Fee)
		}
		if distanceFee < 0 {
			distanceFee = 0
		}
	}

	upsells := make([]AppliedUpsell, 0)
	var upsellTotal int64
	for _, u := range selectedUpsells(opts) {
		amount := roundMinor(subtotalFloat * u.PercentageOfMain / 100)
		if amount < 0 {
			amount = 0
		}
		upsells = append(upsells, AppliedUpsell{
			ID:         u.ID,
			Name:       u.Name,
			Percentage: u.PercentageOfMain,
			Amount:     amount,
		})
		upsellTotal += amount
	}

	taxableAmount := discountedSubtotal + distanceFee + upsellTotal

	var taxAmount int64
	if opts.SalesTaxEnabled && opts.TaxRatePercent > 0 {
		taxAmount = roundMinor(float64(taxableAmount) * opts.TaxRatePercent / 100)
	}

	return Breakdown{
		Subtotal:          subtotal,
		BundleDiscount:    bundleDiscount,
		CustomerDiscounts: applied,
		DiscountTotal:     discountTotal,
		DistanceFee:       distanceFee,
		Upsells:           upsells,
		UpsellTotal:       upsellTotal,
		TaxAmount:         taxAmount,
		Total:             taxableAmount + taxAmount,
	}
}

// selectedDiscounts resolves the customer's selected discount ids against
// the business-defined list, keeping only active entries. When stacking is
// disallowed only the first selection applies.
func selectedDiscounts(opts PricingOptions) []Discount {
	if len(opts.Discounts) == 0 || len(opts.SelectedDiscountIDs) == 0 {
		return nil
	}

	byID := make(map[string]Discount, len(opts.Discounts))
	for _, d := range opts.Discounts {
		byID[d.ID] = d
	}

	out := make([]Discount, 0, len(opts.SelectedDiscountIDs))
	for _, id := range opts.SelectedDiscountIDs {
		d, ok := byID[id]
		if !ok || !d.IsActive {
			continue
		}
		out = append(out, d)
		if !opts.AllowStacking {
			break
		}
	}
	return out
}

func selectedUpsells(opts PricingOptions) []Upsell {
	if len(opts.Upsells) == 0 || len(opts.SelectedUpsellIDs) == 0 {
		return nil
	}

	byID := make(map[string]Upsell, len(opts.Upsells))
	for _, u := range opts.Upsells {
		byID[u.ID] = u
	}

	out := make([]Upsell, 0, len(opts.SelectedUpsellIDs))
	for _, id := range opts.SelectedUpsellIDs {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}
