package pricing

import (
	"fmt"
	"math"
)

// FormulaError records a recoverable evaluation failure for diagnostics.
// The affected service prices at zero; sibling services are unaffected.
type FormulaError struct {
	ServiceID   string
	Formula     string
	Substituted string
	Cause       error
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("formula evaluation failed for service %s: %v", e.ServiceID, e.Cause)
}

func (e *FormulaError) Unwrap() error {
	return e.Cause
}

// EvaluateService computes the rounded integer price of one service from
// the customer's answers. It never returns a Go error to the caller: a
// broken formula yields price 0 and a non-nil *FormulaError so one bad
// service cannot block pricing of the others.
func EvaluateService(svc ServiceDefinition, answers Answers) (int64, *FormulaError) {
	bindings := buildBindings(svc, answers)

	fail := func(substituted string, cause error) (int64, *FormulaError) {
		return 0, &FormulaError{
			ServiceID:   svc.ID,
			Formula:     svc.Formula,
			Substituted: substituted,
			Cause:       cause,
		}
	}

	tokens, err := lexFormula(svc.Formula)
	if err != nil {
		return fail("", err)
	}
	substituted := renderSubstituted(tokens, bindings)

	node, err := parseFormula(tokens)
	if err != nil {
		return fail(substituted, err)
	}

	value, err := evalExpr(node, bindings)
	if err != nil {
		return fail(substituted, err)
	}

	return int64(math.Round(value)), nil
}

// buildBindings resolves every variable of the service to a number keyed by
// its formula token. Multi-select variables with per-option tokens are
// bound first: each option's composite token resolves to its numeric value
// when selected and 0 otherwise, while the aggregate token stays inert.
func buildBindings(svc ServiceDefinition, answers Answers) map[string]float64 {
	bindings := make(map[string]float64, len(svc.Variables))

	for _, v := range svc.Variables {
		if v.Type != VariableMultipleChoice || !v.AllowMultipleSelection {
			continue
		}

		raw := answers[v.ID]
		if !ResolveVisibility(v, answers) {
			raw = DefaultForHidden(v)
		}
		selected, _ := toStringSlice(raw)

		for _, opt := range v.Options {
			if opt.ID == "" {
				continue
			}
			bound := float64(0)
			if opt.NumericValue != nil && containsString(selected, opt.Value) {
				bound = *opt.NumericValue
			}
			bindings[v.ID+"_"+opt.ID] = bound
		}
		// The aggregate token may still appear in the formula; it must
		// resolve rather than fail evaluation.
		bindings[v.ID] = 0
	}

	for _, v := range svc.Variables {
		if v.Type == VariableMultipleChoice && v.AllowMultipleSelection {
			continue
		}
		visible := ResolveVisibility(v, answers)
		bindings[v.ID] = Normalize(v, answers[v.ID], visible)
	}

	return bindings
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
