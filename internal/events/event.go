// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"quoteflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Quote Domain Events
// =============================================================================

// QuoteSubmitted is published when a customer submits a priced quote.
type QuoteSubmitted struct {
	BaseEvent
	QuoteID    uuid.UUID `json:"quoteId"`
	ServiceIDs []string  `json:"serviceIds"`
	TotalCents int64     `json:"totalCents"`
	Email      string    `json:"email,omitempty"`
}

func (e QuoteSubmitted) EventName() string { return "quotes.quote.submitted" }

// QuotePreviewed is published for every successful preview computation.
// Subscribers use it for funnel analytics; it carries no customer identity.
type QuotePreviewed struct {
	BaseEvent
	ServiceIDs []string `json:"serviceIds"`
	TotalCents int64    `json:"totalCents"`
}

func (e QuotePreviewed) EventName() string { return "quotes.quote.previewed" }

// FormulaEvaluationFailed is published when a stored formula could not be
// evaluated for a preview or submission. The service priced at zero; the
// definition likely needs operator attention.
type FormulaEvaluationFailed struct {
	BaseEvent
	ServiceID   string `json:"serviceId"`
	Formula     string `json:"formula"`
	Substituted string `json:"substituted"`
	Reason      string `json:"reason"`
}

func (e FormulaEvaluationFailed) EventName() string { return "quotes.formula.evaluation_failed" }
