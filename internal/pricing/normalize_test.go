package pricing

import "testing"

func fptr(v float64) *float64 { return &v }

func TestNormalizeCheckbox(t *testing.T) {
	v := Variable{ID: "stairs", Type: VariableCheckbox}
	if got := Normalize(v, true, true); got != 1 {
		t.Fatalf("checked checkbox should normalize to 1, got %v", got)
	}
	if got := Normalize(v, false, true); got != 0 {
		t.Fatalf("unchecked checkbox should normalize to 0, got %v", got)
	}
	if got := Normalize(v, "yes", true); got != 0 {
		t.Fatalf("non-bool checkbox answer should normalize to 0, got %v", got)
	}
}

func TestNormalizeSelectPrefersMultiplier(t *testing.T) {
	v := Variable{
		ID:   "tier",
		Type: VariableSelect,
		Options: []Option{
			{Value: "std", Multiplier: fptr(1.5), NumericValue: fptr(99)},
			{Value: "eco", NumericValue: fptr(0.8)},
		},
	}
	if got := Normalize(v, "std", true); got != 1.5 {
		t.Fatalf("select should prefer multiplier, got %v", got)
	}
	if got := Normalize(v, "eco", true); got != 0.8 {
		t.Fatalf("select should fall back to numericValue, got %v", got)
	}
	if got := Normalize(v, "missing", true); got != 0 {
		t.Fatalf("unknown option should normalize to 0, got %v", got)
	}
}

func TestNormalizeDropdownIgnoresMultiplier(t *testing.T) {
	v := Variable{
		ID:   "region",
		Type: VariableDropdown,
		Options: []Option{
			{Value: "north", NumericValue: fptr(25), Multiplier: fptr(9)},
			{Value: "south"},
		},
	}
	if got := Normalize(v, "north", true); got != 25 {
		t.Fatalf("dropdown should use numericValue only, got %v", got)
	}
	if got := Normalize(v, "south", true); got != 0 {
		t.Fatalf("option without numericValue should normalize to 0, got %v", got)
	}
}

func TestNormalizeSingleSelectArrayAnswer(t *testing.T) {
	// A slice answer on a single-select widget is a UI bug; the first
	// element is used for the lookup.
	v := Variable{
		ID:      "region",
		Type:    VariableDropdown,
		Options: []Option{{Value: "north", NumericValue: fptr(25)}},
	}
	if got := Normalize(v, []interface{}{"north", "south"}, true); got != 25 {
		t.Fatalf("array answer should use first element, got %v", got)
	}
}

func TestNormalizeMultipleChoiceSum(t *testing.T) {
	v := Variable{
		ID:   "addons",
		Type: VariableMultipleChoice,
		Options: []Option{
			{Value: "wax", NumericValue: fptr(10)},
			{Value: "polish", NumericValue: fptr(15)},
			{Value: "seal", NumericValue: fptr(20)},
		},
	}
	if got := Normalize(v, []interface{}{"wax", "seal"}, true); got != 30 {
		t.Fatalf("multiple-choice should sum selected numericValues, got %v", got)
	}
	if got := Normalize(v, "wax", true); got != 0 {
		t.Fatalf("non-array multiple-choice answer should normalize to 0, got %v", got)
	}
}

func TestNormalizeMultiSelectAggregateIsInert(t *testing.T) {
	v := Variable{
		ID:                     "addons",
		Type:                   VariableMultipleChoice,
		AllowMultipleSelection: true,
		Options:                []Option{{ID: "w", Value: "wax", NumericValue: fptr(10)}},
	}
	if got := Normalize(v, []interface{}{"wax"}, true); got != 0 {
		t.Fatalf("aggregate token of a per-option variable must resolve to 0, got %v", got)
	}
}

func TestNormalizeNumberCoercion(t *testing.T) {
	v := Variable{ID: "area", Type: VariableNumber}
	if got := Normalize(v, float64(12.5), true); got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
	if got := Normalize(v, "42", true); got != 42 {
		t.Fatalf("numeric string should coerce, got %v", got)
	}
	if got := Normalize(v, "not a number", true); got != 0 {
		t.Fatalf("non-numeric answer should normalize to 0, got %v", got)
	}
	if got := Normalize(v, nil, true); got != 0 {
		t.Fatalf("missing answer should normalize to 0, got %v", got)
	}
}

func TestNormalizeHiddenUsesDefault(t *testing.T) {
	v := Variable{ID: "area", Type: VariableNumber}
	// The raw answer must be ignored when the variable is hidden.
	if got := Normalize(v, float64(999), false); got != 0 {
		t.Fatalf("hidden number should normalize its default 0, got %v", got)
	}

	sel := Variable{
		ID:      "tier",
		Type:    VariableSelect,
		Options: []Option{{Value: "base", NumericValue: fptr(5)}, {Value: "plus", NumericValue: fptr(50)}},
	}
	// Hidden select normalizes the first option, not the raw answer.
	if got := Normalize(sel, "plus", false); got != 5 {
		t.Fatalf("hidden select should normalize its first option, got %v", got)
	}
}

func TestNormalizeTextIsZero(t *testing.T) {
	v := Variable{ID: "notes", Type: VariableText}
	if got := Normalize(v, "anything at all", true); got != 0 {
		t.Fatalf("text variables contribute 0, got %v", got)
	}
}
