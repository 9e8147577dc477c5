package pricing

import (
	"strings"
	"testing"
)

func evalSource(t *testing.T, source string, bindings map[string]float64) (float64, error) {
	t.Helper()
	tokens, err := lexFormula(source)
	if err != nil {
		return 0, err
	}
	node, err := parseFormula(tokens)
	if err != nil {
		return 0, err
	}
	return evalExpr(node, bindings)
}

func TestExprArithmetic(t *testing.T) {
	cases := []struct {
		source string
		want   float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 4", 2.5},
		{"-5 + 3", -2},
		{"2 * -3", -6},
		{"100 - 20 - 30", 50},
		{"1.5 * 4", 6},
	}

	for _, tc := range cases {
		got, err := evalSource(t, tc.source, nil)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.source, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.source, tc.want, got)
		}
	}
}

func TestExprIdentifierBinding(t *testing.T) {
	bindings := map[string]float64{"base": 50, "size": 10, "rate": 5}
	got, err := evalSource(t, "base + size * rate", bindings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestExprUnresolvedIdentifier(t *testing.T) {
	_, err := evalSource(t, "base + missing", map[string]float64{"base": 1})
	if err == nil {
		t.Fatal("expected error for unresolved identifier")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Fatalf("error should name the identifier, got: %v", err)
	}
}

func TestExprDivisionByZero(t *testing.T) {
	if _, err := evalSource(t, "10 / 0", nil); err == nil {
		t.Fatal("expected division by zero error")
	}
	if _, err := evalSource(t, "10 / x", map[string]float64{"x": 0}); err == nil {
		t.Fatal("expected division by zero error through a binding")
	}
}

func TestExprParseErrors(t *testing.T) {
	bad := []string{
		"1 +",
		"(1 + 2",
		"1 2",
		"* 3",
		"a @ b",
		"",
	}
	for _, source := range bad {
		if _, err := evalSource(t, source, map[string]float64{"a": 1, "b": 2}); err == nil {
			t.Fatalf("%q: expected parse error", source)
		}
	}
}

func TestExprCompositeIdentifiersDoNotCollide(t *testing.T) {
	// "size" and "size_xl" are distinct identifiers; binding one must not
	// affect the other.
	bindings := map[string]float64{"size": 2, "size_xl": 30}
	got, err := evalSource(t, "size + size_xl", bindings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 32 {
		t.Fatalf("expected 32, got %v", got)
	}
}

func TestRenderSubstituted(t *testing.T) {
	tokens, err := lexFormula("base + size * rate")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	got := renderSubstituted(tokens, map[string]float64{"base": 50, "size": 10, "rate": 5})
	if got != "50 + 10 * 5" {
		t.Fatalf("expected substituted text %q, got %q", "50 + 10 * 5", got)
	}
}
