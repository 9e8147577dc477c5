package pricing

// ValidateFormula checks that a formula lexes and parses. It does not
// resolve identifiers; unknown references are a definition-level concern.
func ValidateFormula(formula string) error {
	tokens, err := lexFormula(formula)
	if err != nil {
		return err
	}
	_, err = parseFormula(tokens)
	return err
}

// FormulaIdentifiers returns the distinct identifiers a formula references,
// in first-appearance order. A formula that fails to lex yields nil.
func FormulaIdentifiers(formula string) []string {
	tokens, err := lexFormula(formula)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var idents []string
	for _, t := range tokens {
		if t.kind != tokIdent {
			continue
		}
		if _, ok := seen[t.text]; ok {
			continue
		}
		seen[t.text] = struct{}{}
		idents = append(idents, t.text)
	}
	return idents
}

// IsIdentifier reports whether s is usable as a formula identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

// BindingTokens returns every binding name the evaluator will produce for
// the definition, in declaration order. Multi-select variables contribute
// one composite token per option plus the aggregate token.
func BindingTokens(def ServiceDefinition) []string {
	var tokens []string
	for _, v := range def.Variables {
		tokens = append(tokens, v.ID)
		if v.Type == VariableMultipleChoice && v.AllowMultipleSelection {
			for _, opt := range v.Options {
				if opt.ID == "" {
					continue
				}
				tokens = append(tokens, v.ID+"_"+opt.ID)
			}
		}
	}
	return tokens
}
