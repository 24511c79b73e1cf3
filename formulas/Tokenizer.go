package formulas

import (
	"regexp"
	"strconv"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokenInvalid tokenKind = iota
	tokenLeftParen
	tokenRightParen
	tokenOperator
	tokenVariable
	tokenNumber
)

type token struct {
	kind   tokenKind
	text   string
	number float64
}

// Submatch groups follow the token kinds above; the last one is whitespace.
var tokenRegex = regexp.MustCompile(
	`\A(?:(\()|(\))|([+\-*/])|([a-zA-Z][0-9a-zA-Z]*)|((?:\d+\.\d*|\d*\.\d+|\d+)(?:[eE][+\-]?\d+)?)|(\s+))`,
)

var variableRegex = regexp.MustCompile(`\A[a-zA-Z][0-9a-zA-Z]*\z`)

// tokenize splits source into tokens, dropping whitespace. A character that
// starts no legal token becomes a single tokenInvalid.
func tokenize(source string) []token {
	tokens := make([]token, 0, len(source)/2+1)

	for position := 0; position < len(source); {
		match := tokenRegex.FindStringSubmatchIndex(source[position:])
		if match == nil {
			_, width := utf8.DecodeRuneInString(source[position:])
			tokens = append(tokens, token{kind: tokenInvalid, text: source[position : position+width]})
			position += width
			continue
		}

		text := source[position : position+match[1]]
		position += match[1]

		switch {
		case match[2] >= 0:
			tokens = append(tokens, token{kind: tokenLeftParen, text: text})
		case match[4] >= 0:
			tokens = append(tokens, token{kind: tokenRightParen, text: text})
		case match[6] >= 0:
			tokens = append(tokens, token{kind: tokenOperator, text: text})
		case match[8] >= 0:
			tokens = append(tokens, token{kind: tokenVariable, text: text})
		case match[10] >= 0:
			number, err := strconv.ParseFloat(text, 64)
			if err != nil {
				tokens = append(tokens, token{kind: tokenInvalid, text: text})
			} else {
				tokens = append(tokens, token{kind: tokenNumber, text: text, number: number})
			}
		}
	}

	return tokens
}

func isOperand(kind tokenKind) bool {
	return kind == tokenNumber || kind == tokenVariable
}
