package formulas

import "fmt"

func precedence(operator string) int {
	if operator == "*" || operator == "/" {
		return 2
	}
	return 1
}

// Evaluate computes f with the usual precedence and left associativity.
// It fails with *EvaluationError on division by zero or an undefined variable.
func (f Formula) Evaluate(lookup Lookup) (float64, error) {
	if len(f.tokens) == 0 {
		return 0, nil
	}

	values := make([]float64, 0, len(f.tokens)/2+1)
	operators := make([]string, 0, len(f.tokens)/2)

	apply := func() error {
		operator := operators[len(operators)-1]
		operators = operators[:len(operators)-1]

		right := values[len(values)-1]
		left := values[len(values)-2]
		values = values[:len(values)-2]

		var result float64
		switch operator {
		case "+":
			result = left + right
		case "-":
			result = left - right
		case "*":
			result = left * right
		case "/":
			if right == 0 {
				return &EvaluationError{Reason: "division by zero"}
			}
			result = left / right
		}

		values = append(values, result)
		return nil
	}

	for _, tok := range f.tokens {
		switch tok.kind {
		case tokenNumber:
			values = append(values, tok.number)

		case tokenVariable:
			var value float64
			ok := false
			if lookup != nil {
				value, ok = lookup(tok.text)
			}
			if !ok {
				return 0, &EvaluationError{Reason: fmt.Sprintf("variable %s is not defined", tok.text)}
			}
			values = append(values, value)

		case tokenLeftParen:
			operators = append(operators, tok.text)

		case tokenRightParen:
			for operators[len(operators)-1] != "(" {
				if err := apply(); err != nil {
					return 0, err
				}
			}
			operators = operators[:len(operators)-1]

		case tokenOperator:
			for len(operators) > 0 {
				top := operators[len(operators)-1]
				if top == "(" || precedence(top) < precedence(tok.text) {
					break
				}
				if err := apply(); err != nil {
					return 0, err
				}
			}
			operators = append(operators, tok.text)
		}
	}

	for len(operators) > 0 {
		if err := apply(); err != nil {
			return 0, err
		}
	}

	return values[0], nil
}
