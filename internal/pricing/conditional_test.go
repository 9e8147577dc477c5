package pricing

import "testing"

func conditionalVar(op Operator, target string, want interface{}) Variable {
	return Variable{
		ID:   "extra",
		Type: VariableNumber,
		ConditionalLogic: &ConditionalLogic{
			Enabled: true,
			Rule:    ConditionalRule{VariableID: target, Operator: op, Value: want},
		},
	}
}

func TestResolveVisibilityDisabledLogic(t *testing.T) {
	v := Variable{ID: "plain", Type: VariableNumber}
	if !ResolveVisibility(v, Answers{}) {
		t.Fatal("variable without conditional logic must be visible")
	}

	v.ConditionalLogic = &ConditionalLogic{Enabled: false}
	if !ResolveVisibility(v, Answers{}) {
		t.Fatal("disabled conditional logic must leave the variable visible")
	}
}

func TestResolveVisibilityOperators(t *testing.T) {
	answers := Answers{
		"kind":  "deluxe",
		"rooms": float64(4),
		"tags":  []interface{}{"pets", "stairs"},
	}

	if !ResolveVisibility(conditionalVar(OpEquals, "kind", "deluxe"), answers) {
		t.Fatal("equals should match")
	}
	if ResolveVisibility(conditionalVar(OpEquals, "kind", "basic"), answers) {
		t.Fatal("equals should not match a different value")
	}
	if !ResolveVisibility(conditionalVar(OpNotEquals, "kind", "basic"), answers) {
		t.Fatal("notEquals should match a different value")
	}
	if !ResolveVisibility(conditionalVar(OpGreaterThan, "rooms", float64(3)), answers) {
		t.Fatal("greaterThan should match 4 > 3")
	}
	if ResolveVisibility(conditionalVar(OpGreaterThan, "rooms", float64(4)), answers) {
		t.Fatal("greaterThan should not match 4 > 4")
	}
	if !ResolveVisibility(conditionalVar(OpLessThan, "rooms", "10"), answers) {
		t.Fatal("lessThan should coerce string rule values")
	}
	if !ResolveVisibility(conditionalVar(OpContains, "tags", "pets"), answers) {
		t.Fatal("contains should match array membership")
	}
	if ResolveVisibility(conditionalVar(OpContains, "tags", "piano"), answers) {
		t.Fatal("contains should not match a missing entry")
	}
}

func TestResolveVisibilityNumericEquality(t *testing.T) {
	// "4" and 4 must compare equal: the form layer sends numbers as strings
	// for some widgets.
	answers := Answers{"rooms": "4"}
	if !ResolveVisibility(conditionalVar(OpEquals, "rooms", float64(4)), answers) {
		t.Fatal("numeric string should equal the number 4")
	}
}

func TestResolveVisibilityMissingVariableIsSafe(t *testing.T) {
	v := conditionalVar(OpEquals, "no_such_variable", "x")
	if ResolveVisibility(v, Answers{"kind": "deluxe"}) {
		t.Fatal("rule referencing an unknown variable must evaluate to not-met")
	}

	if ResolveVisibility(conditionalVar(OpGreaterThan, "kind", float64(1)), Answers{"kind": "deluxe"}) {
		t.Fatal("non-numeric comparison must evaluate to not-met")
	}
}

func TestDefaultForHidden(t *testing.T) {
	if got := DefaultForHidden(Variable{Type: VariableCheckbox}); got != false {
		t.Fatalf("checkbox default should be false, got %v", got)
	}
	if got := DefaultForHidden(Variable{Type: VariableNumber}); got != float64(0) {
		t.Fatalf("number default should be 0, got %v", got)
	}
	sel := Variable{Type: VariableSelect, Options: []Option{{Value: "first"}, {Value: "second"}}}
	if got := DefaultForHidden(sel); got != "first" {
		t.Fatalf("select default should be the first option value, got %v", got)
	}
	if got := DefaultForHidden(Variable{Type: VariableDropdown}); got != "" {
		t.Fatalf("dropdown without options should default to empty, got %v", got)
	}
	if values, ok := DefaultForHidden(Variable{Type: VariableMultipleChoice}).([]interface{}); !ok || len(values) != 0 {
		t.Fatal("multiple-choice default should be an empty selection")
	}
}
