// Package expression detects and evaluates plain arithmetic typed by the user.
//
// Only numeric literals, + - * /, parentheses and whitespace are accepted. The
// character whitelist is checked again by Evaluate regardless of what
// IsExpression said about the same input.
package expression

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrInvalidCharacters   = errors.New("invalid characters in expression")
	ErrMalformedExpression = errors.New("malformed expression")
)

// EvalError describes why an expression could not be evaluated.
// Kind is ErrInvalidCharacters or ErrMalformedExpression.
type EvalError struct {
	Kind error
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %q: %v", e.Kind, e.Expr, e.Err)
	}
	return fmt.Sprintf("%v: %q", e.Kind, e.Expr)
}

func (e *EvalError) Is(target error) bool {
	return target == e.Kind
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

const (
	invalidCharactersMessage = "Please use only numbers and basic math operators (+, -, *, /, parentheses)."
	malformedMessage         = "I couldn't calculate that. Please check your math expression."
)

func isOperator(r rune) bool {
	return r == '+' || r == '-' || r == '*' || r == '/'
}

func isAllowed(r rune) bool {
	return (r >= '0' && r <= '9') || unicode.IsSpace(r) || isOperator(r) || r == '(' || r == ')' || r == '.'
}

// IsExpression reports whether the trimmed input is made only of allowed
// characters and contains at least one operator.
func IsExpression(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	hasOperator := false
	for _, r := range s {
		if !isAllowed(r) {
			return false
		}
		if isOperator(r) {
			hasOperator = true
		}
	}
	return hasOperator
}

func sanitize(raw string) string {
	return strings.Map(func(r rune) rune {
		if isAllowed(r) {
			return r
		}
		return -1
	}, raw)
}

// Evaluate computes the value of raw with the usual precedence rules.
func Evaluate(raw string) (float64, error) {
	if sanitize(raw) != raw {
		return 0, &EvalError{Kind: ErrInvalidCharacters, Expr: raw}
	}

	p := &parser{input: raw}
	v, err := p.parse()
	if err != nil {
		return 0, &EvalError{Kind: ErrMalformedExpression, Expr: raw, Err: err}
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &EvalError{Kind: ErrMalformedExpression, Expr: raw, Err: errors.New("result is not a finite number")}
	}
	return v, nil
}

// FormatNumber renders v in its shortest decimal form.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Describe evaluates raw and returns the sentence shown to the user,
// including guidance when the expression is rejected.
func Describe(raw string) string {
	v, err := Evaluate(raw)
	switch {
	case errors.Is(err, ErrInvalidCharacters):
		return invalidCharactersMessage
	case err != nil:
		return malformedMessage
	}
	return "The result is: " + FormatNumber(v)
}
