// Package formulas parses and evaluates infix arithmetic over non-negative
// numbers and variables with the operators + - * / and parentheses.
package formulas

import (
	"sort"
	"strings"
)

// Normalizer maps a variable as written to its canonical name.
type Normalizer func(variable string) string

// Validator accepts or rejects a normalized variable name.
type Validator func(variable string) bool

// Lookup resolves a normalized variable. ok is false when the variable is
// undefined.
type Lookup func(variable string) (value float64, ok bool)

// Formula is an immutable, validated expression. The zero value is the empty
// formula, which evaluates to 0.
type Formula struct {
	tokens    []token
	variables []string
	text      string
}

func Identity(variable string) string {
	return variable
}

func AcceptAll(string) bool {
	return true
}

// New parses source keeping variable names as written.
func New(source string) (Formula, error) {
	return Parse(source, Identity, AcceptAll)
}

// Parse tokenizes and validates source. Every variable is replaced by
// normalize(variable), which must still be a variable and pass validate.
func Parse(source string, normalize Normalizer, validate Validator) (Formula, error) {
	if normalize == nil {
		normalize = Identity
	}
	if validate == nil {
		validate = AcceptAll
	}

	tokens := tokenize(source)
	if len(tokens) == 0 {
		return Formula{}, newFormatError("formula is empty")
	}

	if err := checkSyntax(tokens); err != nil {
		return Formula{}, err
	}

	seen := map[string]bool{}
	variables := make([]string, 0)
	for i, tok := range tokens {
		if tok.kind != tokenVariable {
			continue
		}

		normalized := normalize(tok.text)
		if !variableRegex.MatchString(normalized) {
			return Formula{}, newFormatError("normalized form %q of variable %q is not a variable", normalized, tok.text)
		}
		if !validate(normalized) {
			return Formula{}, newFormatError("variable %q is not valid", normalized)
		}

		tokens[i].text = normalized
		if !seen[normalized] {
			seen[normalized] = true
			variables = append(variables, normalized)
		}
	}
	sort.Strings(variables)

	var text strings.Builder
	for _, tok := range tokens {
		text.WriteString(tok.text)
	}

	return Formula{tokens: tokens, variables: variables, text: text.String()}, nil
}

// checkSyntax enforces the token-adjacency and parenthesis rules.
func checkSyntax(tokens []token) error {
	for _, tok := range tokens {
		if tok.kind == tokenInvalid {
			return newFormatError("illegal token %q", tok.text)
		}
	}

	first := tokens[0]
	if !isOperand(first.kind) && first.kind != tokenLeftParen {
		return newFormatError("formula must start with a number, a variable or an opening parenthesis, got %q", first.text)
	}

	last := tokens[len(tokens)-1]
	if !isOperand(last.kind) && last.kind != tokenRightParen {
		return newFormatError("formula must end with a number, a variable or a closing parenthesis, got %q", last.text)
	}

	depth := 0
	for i, tok := range tokens {
		if i > 0 {
			previous := tokens[i-1]
			switch previous.kind {
			case tokenLeftParen, tokenOperator:
				if !isOperand(tok.kind) && tok.kind != tokenLeftParen {
					return newFormatError("%q after %q must be a number, a variable or an opening parenthesis", tok.text, previous.text)
				}
			default:
				if tok.kind != tokenOperator && tok.kind != tokenRightParen {
					return newFormatError("%q after %q must be an operator or a closing parenthesis", tok.text, previous.text)
				}
			}
		}

		switch tok.kind {
		case tokenLeftParen:
			depth++
		case tokenRightParen:
			depth--
			if depth < 0 {
				return newFormatError("closing parenthesis at token %d has no opening parenthesis", i+1)
			}
		}
	}

	if depth != 0 {
		return newFormatError("%d parenthesis left unclosed", depth)
	}

	return nil
}

// Variables returns the distinct normalized variables, sorted.
func (f Formula) Variables() []string {
	return append([]string{}, f.variables...)
}

// Tokens returns the normalized token texts in order.
func (f Formula) Tokens() []string {
	texts := make([]string, len(f.tokens))
	for i, tok := range f.tokens {
		texts[i] = tok.text
	}
	return texts
}

// String is the canonical form; parsing it again yields an equal formula.
func (f Formula) String() string {
	if len(f.tokens) == 0 {
		return "0"
	}
	return f.text
}

func (f Formula) Equal(other Formula) bool {
	return f.String() == other.String()
}

func (f Formula) IsEmpty() bool {
	return len(f.tokens) == 0
}
