package jsonload

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference reports a reference that is not a string or URL.
	ErrInvalidReference = errors.New("jsonload: reference must be a string or URL")
	// ErrFallbackCycle reports a fallback chain that revisits a location.
	ErrFallbackCycle = errors.New("jsonload: fallback cycle")
	// ErrFallbackDepth reports a fallback chain longer than the configured limit.
	ErrFallbackDepth = errors.New("jsonload: fallback depth exceeded")
	// ErrImporterUnavailable is returned by importers the build does not include.
	ErrImporterUnavailable = errors.New("jsonload: importer unavailable")
)

// ValidationPrefix starts the message of every validation failure.
const ValidationPrefix = "jsonload: validation failed"

// ReferenceError describes a rejected reference argument.
type ReferenceError struct {
	Reference any
}

func (e *ReferenceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if s, ok := e.Reference.(string); ok && s == "" {
		return ErrInvalidReference.Error() + ", got empty string"
	}
	return fmt.Sprintf("%s, got %T", ErrInvalidReference.Error(), e.Reference)
}

func (e *ReferenceError) Unwrap() error {
	return ErrInvalidReference
}

// ValidationError wraps a failure raised by a validator or validation rule.
type ValidationError struct {
	Location string
	Err      error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", ValidationPrefix, e.Err)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LoadError reports that no strategy could load Location.
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("jsonload: load %s: %v", e.Location, e.Err)
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnsupportedTypeError reports a declared type that no importer accepted.
type UnsupportedTypeError struct {
	Type     string
	Location string
}

func (e *UnsupportedTypeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("jsonload: unsupported type %q for %s", e.Type, e.Location)
}

// RuleError captures a failed validation rule alongside its engine.
type RuleError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s rule %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *RuleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapRuleError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		if ruleErr.Engine == "" {
			ruleErr.Engine = engine
		}
		if ruleErr.Expr == "" {
			ruleErr.Expr = expr
		}
		return ruleErr
	}
	return &RuleError{Engine: engine, Expr: expr, Err: err}
}

func wrapValidationError(location string, err error) error {
	if err == nil {
		return nil
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return err
	}
	return &ValidationError{Location: location, Err: err}
}
