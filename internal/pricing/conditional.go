package pricing

import (
	"strconv"
	"strings"
)

// ResolveVisibility decides whether a variable is currently visible.
// A variable without conditional logic is always visible. A rule that
// references a variable with no answer, or that cannot be compared,
// evaluates to "condition not met" rather than failing: a misconfigured
// conditional must never block pricing.
func ResolveVisibility(v Variable, answers Answers) bool {
	if v.ConditionalLogic == nil || !v.ConditionalLogic.Enabled {
		return true
	}

	rule := v.ConditionalLogic.Rule
	raw, ok := answers[rule.VariableID]
	if !ok || raw == nil {
		return false
	}

	switch rule.Operator {
	case OpEquals:
		return looseEqual(raw, rule.Value)
	case OpNotEquals:
		return !looseEqual(raw, rule.Value)
	case OpGreaterThan:
		a, aok := toNumber(raw)
		b, bok := toNumber(rule.Value)
		return aok && bok && a > b
	case OpLessThan:
		a, aok := toNumber(raw)
		b, bok := toNumber(rule.Value)
		return aok && bok && a < b
	case OpContains:
		return answerContains(raw, rule.Value)
	default:
		return false
	}
}

// DefaultForHidden returns the inert answer a hidden variable contributes.
// Hidden variables still flow through normalization so the formula always
// receives a number for their token.
func DefaultForHidden(v Variable) interface{} {
	switch v.Type {
	case VariableCheckbox:
		return false
	case VariableSelect, VariableDropdown:
		if len(v.Options) > 0 {
			return v.Options[0].Value
		}
		return ""
	case VariableMultipleChoice:
		return []interface{}{}
	case VariableNumber, VariableSlider:
		return float64(0)
	case VariableText:
		return ""
	}
	return nil
}

// looseEqual compares a raw answer against a rule value: numerically when
// both sides coerce to numbers, otherwise as trimmed strings.
func looseEqual(a, b interface{}) bool {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		return an == bn
	}
	return strings.TrimSpace(toString(a)) == strings.TrimSpace(toString(b))
}

// answerContains reports membership of the rule value in an array answer,
// or substring containment for string answers.
func answerContains(raw, want interface{}) bool {
	needle := toString(want)
	if values, ok := toStringSlice(raw); ok {
		for _, value := range values {
			if value == needle {
				return true
			}
		}
		return false
	}
	if text, ok := raw.(string); ok {
		return strings.Contains(text, needle)
	}
	return false
}

// toNumber coerces a raw answer to a float64. Booleans map to 1/0 so
// checkbox answers can participate in comparisons.
func toNumber(raw interface{}) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case bool:
		if value {
			return 1, true
		}
		return 0, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func toString(raw interface{}) string {
	switch value := raw.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	default:
		return ""
	}
}

// toStringSlice normalizes array answers, which arrive as []interface{}
// from JSON or []string from internal callers.
func toStringSlice(raw interface{}) ([]string, bool) {
	switch values := raw.(type) {
	case []string:
		return values, true
	case []interface{}:
		out := make([]string, 0, len(values))
		for _, item := range values {
			out = append(out, toString(item))
		}
		return out, true
	default:
		return nil, false
	}
}
