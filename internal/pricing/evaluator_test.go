package pricing

import (
	"strings"
	"testing"
)

// Scenario from the product docs: base 50, size 10, rate select "std" => 5,
// substituted "50 + 10 * 5", price 100.
func TestEvaluateServiceBasicScenario(t *testing.T) {
	svc := ServiceDefinition{
		ID:      "cleaning",
		Formula: "base + size * rate",
		Variables: []Variable{
			{ID: "base", Type: VariableNumber},
			{ID: "size", Type: VariableNumber},
			{ID: "rate", Type: VariableSelect, Options: []Option{{Value: "std", NumericValue: fptr(5)}}},
		},
	}
	answers := Answers{"base": float64(50), "size": float64(10), "rate": "std"}

	price, ferr := EvaluateService(svc, answers)
	if ferr != nil {
		t.Fatalf("unexpected formula error: %v", ferr)
	}
	if price != 100 {
		t.Fatalf("expected price 100, got %d", price)
	}
}

func TestEvaluateServiceCompositeTokens(t *testing.T) {
	svc := ServiceDefinition{
		ID:      "detailing",
		Formula: "base + addons_wax + addons_seal + addons",
		Variables: []Variable{
			{ID: "base", Type: VariableNumber},
			{
				ID:                     "addons",
				Type:                   VariableMultipleChoice,
				AllowMultipleSelection: true,
				Options: []Option{
					{ID: "wax", Value: "wax", NumericValue: fptr(10)},
					{ID: "seal", Value: "seal", NumericValue: fptr(20)},
				},
			},
		},
	}
	answers := Answers{"base": float64(100), "addons": []interface{}{"wax"}}

	price, ferr := EvaluateService(svc, answers)
	if ferr != nil {
		t.Fatalf("unexpected formula error: %v", ferr)
	}
	// wax selected => 10, seal unselected => 0, aggregate token inert => 0
	if price != 110 {
		t.Fatalf("expected price 110, got %d", price)
	}
}

func TestEvaluateServiceBaseAndCompositeTokensIndependent(t *testing.T) {
	// A variable named "addons" and composite tokens "addons_wax" must not
	// interfere even though one is a prefix of the other.
	svc := ServiceDefinition{
		ID:      "prefix-safety",
		Formula: "addons_wax * 2 + addons",
		Variables: []Variable{
			{
				ID:                     "addons",
				Type:                   VariableMultipleChoice,
				AllowMultipleSelection: true,
				Options:                []Option{{ID: "wax", Value: "wax", NumericValue: fptr(7)}},
			},
		},
	}
	price, ferr := EvaluateService(svc, Answers{"addons": []interface{}{"wax"}})
	if ferr != nil {
		t.Fatalf("unexpected formula error: %v", ferr)
	}
	if price != 14 {
		t.Fatalf("expected price 14, got %d", price)
	}
}

func TestEvaluateServiceHiddenVariableIgnoresRawAnswer(t *testing.T) {
	svc := ServiceDefinition{
		ID:      "conditional",
		Formula: "base + extra",
		Variables: []Variable{
			{ID: "base", Type: VariableNumber},
			{
				ID:   "extra",
				Type: VariableNumber,
				ConditionalLogic: &ConditionalLogic{
					Enabled: true,
					Rule:    ConditionalRule{VariableID: "base", Operator: OpGreaterThan, Value: float64(100)},
				},
			},
		},
	}

	// Condition false: extra contributes its default 0, not the raw 500.
	price, ferr := EvaluateService(svc, Answers{"base": float64(50), "extra": float64(500)})
	if ferr != nil {
		t.Fatalf("unexpected formula error: %v", ferr)
	}
	if price != 50 {
		t.Fatalf("hidden variable leaked its raw answer: expected 50, got %d", price)
	}

	// Changing the hidden raw answer must not change the result.
	again, _ := EvaluateService(svc, Answers{"base": float64(50), "extra": float64(9999)})
	if again != price {
		t.Fatalf("hidden raw answer changed the price: %d vs %d", again, price)
	}

	// Condition true: the raw answer applies.
	visible, _ := EvaluateService(svc, Answers{"base": float64(150), "extra": float64(500)})
	if visible != 650 {
		t.Fatalf("expected 650 when condition holds, got %d", visible)
	}
}

func TestEvaluateServiceRounding(t *testing.T) {
	svc := ServiceDefinition{
		ID:        "rounding",
		Formula:   "price / 3",
		Variables: []Variable{{ID: "price", Type: VariableNumber}},
	}
	price, ferr := EvaluateService(svc, Answers{"price": float64(100)})
	if ferr != nil {
		t.Fatalf("unexpected formula error: %v", ferr)
	}
	if price != 33 {
		t.Fatalf("expected 33, got %d", price)
	}
}

func TestEvaluateServiceErrorsDegradeToZero(t *testing.T) {
	cases := []struct {
		name    string
		formula string
		cause   string
	}{
		{"unresolved identifier", "base + unknown_token", "unresolved identifier"},
		{"parse error", "base + * 2", "unexpected token"},
		{"division by zero", "base / 0", "division by zero"},
		{"lex error", "base $ 2", "unexpected character"},
	}

	for _, tc := range cases {
		svc := ServiceDefinition{
			ID:        "bad",
			Formula:   tc.formula,
			Variables: []Variable{{ID: "base", Type: VariableNumber}},
		}
		price, ferr := EvaluateService(svc, Answers{"base": float64(10)})
		if price != 0 {
			t.Fatalf("%s: broken formula must price at 0, got %d", tc.name, price)
		}
		if ferr == nil {
			t.Fatalf("%s: expected a FormulaError", tc.name)
		}
		if ferr.ServiceID != "bad" || ferr.Formula != tc.formula {
			t.Fatalf("%s: FormulaError missing context: %+v", tc.name, ferr)
		}
		if !strings.Contains(ferr.Cause.Error(), tc.cause) {
			t.Fatalf("%s: expected cause containing %q, got %v", tc.name, tc.cause, ferr.Cause)
		}
	}
}

func TestEvaluateServiceSubstitutionSafety(t *testing.T) {
	// Every identifier must be resolved; no well-formed service may leave
	// a token unbound regardless of which answers are present.
	svc := ServiceDefinition{
		ID:      "safety",
		Formula: "a + b + c",
		Variables: []Variable{
			{ID: "a", Type: VariableNumber},
			{ID: "b", Type: VariableCheckbox},
			{ID: "c", Type: VariableSelect, Options: []Option{{Value: "x", NumericValue: fptr(3)}}},
		},
	}
	// No answers at all: everything defaults, nothing unresolved.
	price, ferr := EvaluateService(svc, Answers{})
	if ferr != nil {
		t.Fatalf("empty answers must not produce an evaluation error: %v", ferr)
	}
	if price != 0 {
		t.Fatalf("expected 0 with no answers, got %d", price)
	}
}
