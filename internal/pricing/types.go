// Package pricing implements the quote calculation engine: conditional
// variable visibility, answer normalization, formula evaluation, and the
// multi-service pricing pipeline. Every public operation is a pure function
// of its inputs, which is what keeps preview and submission in agreement.
package pricing

import "math"

// VariableType is the closed set of input field types a service variable
// can have. Normalization switches exhaustively over this set so a new
// type surfaces at compile time instead of silently pricing as zero.
type VariableType string

const (
	VariableNumber         VariableType = "number"
	VariableSlider         VariableType = "slider"
	VariableSelect         VariableType = "select"
	VariableDropdown       VariableType = "dropdown"
	VariableMultipleChoice VariableType = "multiple-choice"
	VariableCheckbox       VariableType = "checkbox"
	VariableText           VariableType = "text"
)

// Option is one selectable choice of a select/dropdown/multiple-choice
// variable. Select variables prefer Multiplier over NumericValue; the other
// choice types use NumericValue only.
type Option struct {
	ID           string   `json:"id,omitempty"`
	Value        string   `json:"value"`
	NumericValue *float64 `json:"numericValue,omitempty"`
	Multiplier   *float64 `json:"multiplier,omitempty"`
}

// Operator is the comparison applied by a conditional visibility rule.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpContains    Operator = "contains"
)

// ConditionalRule references another variable's raw answer.
type ConditionalRule struct {
	VariableID string      `json:"variableId"`
	Operator   Operator    `json:"operator"`
	Value      interface{} `json:"value"`
}

// ConditionalLogic controls whether a variable is shown to the customer.
type ConditionalLogic struct {
	Enabled bool            `json:"enabled"`
	Rule    ConditionalRule `json:"rule"`
}

// Variable is one customer-facing input field of a service.
type Variable struct {
	ID                     string            `json:"id"`
	Label                  string            `json:"label,omitempty"`
	Type                   VariableType      `json:"type"`
	Options                []Option          `json:"options,omitempty"`
	AllowMultipleSelection bool              `json:"allowMultipleSelection,omitempty"`
	ConditionalLogic       *ConditionalLogic `json:"conditionalLogic,omitempty"`
}

// Upsell is a service-scoped add-on priced as a percentage of the
// undiscounted subtotal.
type Upsell struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	PercentageOfMain float64 `json:"percentageOfMain"`
	Category         string  `json:"category,omitempty"`
}

// ServiceDefinition is one priceable unit: a formula plus the variables
// that feed it. Immutable for the duration of one quote session.
type ServiceDefinition struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Formula   string     `json:"formula"`
	Variables []Variable `json:"variables"`
	Upsells   []Upsell   `json:"upsellItems,omitempty"`
}

// Answers maps variable id to the raw answer for one service. Values come
// from JSON, so they arrive as string, float64, bool, or []interface{}.
type Answers map[string]interface{}

// Discount is a business-defined discount the customer can opt into.
type Discount struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	IsActive   bool    `json:"isActive"`
}

// FeeMode selects how a distance fee contributes to the pipeline.
type FeeMode string

const (
	// FeeFlat means DistanceInfo.Fee is already a currency amount.
	FeeFlat FeeMode = "flat"
	// FeePercentage means DistanceInfo.Fee is a decimal fraction applied
	// to the post-discount subtotal.
	FeePercentage FeeMode = "percentage"
)

// DistanceInfo is the travel-fee contribution produced by the distance
// adapter. A nil *DistanceInfo means no travel fee applies: feature off,
// addresses missing, or the customer is inside the service radius.
type DistanceInfo struct {
	DistanceMiles float64 `json:"distanceMiles"`
	Fee           float64 `json:"fee"`
	Mode          FeeMode `json:"mode"`
	Message       string  `json:"message,omitempty"`
	// AddressTag echoes the customer address the lookup was computed for,
	// so callers can discard results superseded by a newer address edit.
	AddressTag string `json:"addressTag,omitempty"`
}

// PricingOptions carries the business configuration consumed by the
// pipeline. Zero values degrade to "no effect" rather than errors.
type PricingOptions struct {
	BundleEnabled       bool
	BundlePercent       float64
	AllowStacking       bool
	Discounts           []Discount
	SelectedDiscountIDs []string
	Upsells             []Upsell
	SelectedUpsellIDs   []string
	Distance            *DistanceInfo
	SalesTaxEnabled     bool
	TaxRatePercent      float64
}

// AppliedDiscount is one customer discount line of the breakdown.
type AppliedDiscount struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Amount     int64   `json:"amount"`
}

// AppliedUpsell is one upsell line of the breakdown.
type AppliedUpsell struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Amount     int64   `json:"amount"`
}

// Breakdown is the itemized record of one pipeline run. Every component is
// rounded at the point it is added, so the parts always sum exactly:
// Subtotal - BundleDiscount - DiscountTotal + DistanceFee + UpsellTotal +
// TaxAmount == Total.
type Breakdown struct {
	Subtotal          int64             `json:"subtotal"`
	BundleDiscount    int64             `json:"bundleDiscount"`
	CustomerDiscounts []AppliedDiscount `json:"customerDiscounts"`
	DiscountTotal     int64             `json:"discountTotal"`
	DistanceFee       int64             `json:"distanceFee"`
	Upsells           []AppliedUpsell   `json:"upsells"`
	UpsellTotal       int64             `json:"upsellTotal"`
	TaxAmount         int64             `json:"taxAmount"`
	Total             int64             `json:"total"`
}

// roundMinor rounds a float amount to the nearest minor currency unit.
// Half-away-from-zero, used at every rounding point in the engine.
func roundMinor(v float64) int64 {
	return int64(math.Round(v))
}
