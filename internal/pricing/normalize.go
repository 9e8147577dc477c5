package pricing

import "math"

// Normalize converts one variable's raw answer into the single number its
// formula token resolves to. Hidden variables are normalized from their
// inert default, never from the customer's (stale) raw answer. The formula
// must never receive NaN or a missing value, so every branch lands on a
// finite number.
func Normalize(v Variable, raw interface{}, visible bool) float64 {
	if !visible {
		raw = DefaultForHidden(v)
	}

	switch v.Type {
	case VariableCheckbox:
		if checked, ok := raw.(bool); ok && checked {
			return 1
		}
		return 0

	case VariableSelect:
		opt := findOption(v.Options, singleValue(raw))
		if opt == nil {
			return 0
		}
		if opt.Multiplier != nil {
			return *opt.Multiplier
		}
		if opt.NumericValue != nil {
			return *opt.NumericValue
		}
		return 0

	case VariableDropdown:
		opt := findOption(v.Options, singleValue(raw))
		if opt == nil || opt.NumericValue == nil {
			return 0
		}
		return *opt.NumericValue

	case VariableMultipleChoice:
		// With per-option tokens the aggregate token stays inert; the
		// options are bound individually during formula evaluation.
		if v.AllowMultipleSelection {
			return 0
		}
		selected, ok := toStringSlice(raw)
		if !ok {
			return 0
		}
		var sum float64
		for _, opt := range v.Options {
			if opt.NumericValue == nil {
				continue
			}
			for _, value := range selected {
				if value == opt.Value {
					sum += *opt.NumericValue
					break
				}
			}
		}
		return sum

	case VariableNumber, VariableSlider:
		parsed, ok := toNumber(raw)
		if !ok || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0
		}
		return parsed

	case VariableText:
		return 0
	}

	return 0
}

// singleValue extracts the lookup key for single-select types. A slice
// answer here is a UI bug; take the first element rather than failing.
func singleValue(raw interface{}) string {
	if values, ok := toStringSlice(raw); ok {
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}
	return toString(raw)
}

func findOption(options []Option, value string) *Option {
	if value == "" {
		return nil
	}
	for i := range options {
		if options[i].Value == value {
			return &options[i]
		}
	}
	return nil
}
