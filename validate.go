package jsonload

import (
	"fmt"
	"unicode"

	exprlang "github.com/expr-lang/expr"
	celgo "github.com/google/cel-go/cel"
)

// rule is a boolean expression that must hold for a loaded document.
type rule interface {
	check(document any) error
}

// WithRule validates documents with an expr-lang boolean expression. Object
// documents expose their top-level keys as variables; the whole value is
// available as document.
func WithRule(expression string) Option {
	return func(cfg *loadConfig) {
		cfg.rules = append(cfg.rules, exprRule{expression: expression})
	}
}

// WithCELRule validates documents with a CEL boolean expression using the
// same variables as WithRule.
func WithCELRule(expression string) Option {
	return func(cfg *loadConfig) {
		cfg.rules = append(cfg.rules, celRule{expression: expression})
	}
}

func (cfg loadConfig) validate(location string, value any) error {
	for _, fn := range cfg.validators {
		if err := callValidator(fn, value); err != nil {
			return wrapValidationError(location, err)
		}
	}
	for _, r := range cfg.rules {
		if err := r.check(value); err != nil {
			return wrapValidationError(location, err)
		}
	}
	return nil
}

// callValidator turns a panicking validator into an error.
func callValidator(fn Validator, value any) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if e, ok := recovered.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", recovered)
		}
	}()
	return fn(value)
}

// validateTyped invokes Validate on typed values that provide it.
func validateTyped[T any](value T) error {
	if v, ok := any(value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	if v, ok := any(&value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

func ruleEnvironment(document any) map[string]any {
	env := map[string]any{}
	if object, ok := document.(map[string]any); ok {
		for key, value := range object {
			env[key] = value
		}
	}
	env["document"] = document
	return env
}

func requireTrue(result any) error {
	passed, ok := result.(bool)
	if !ok {
		return fmt.Errorf("expected boolean result, got %T", result)
	}
	if !passed {
		return fmt.Errorf("evaluated to false")
	}
	return nil
}

type exprRule struct {
	expression string
}

func (r exprRule) check(document any) error {
	if r.expression == "" {
		return wrapRuleError("expr", "", fmt.Errorf("expression must not be empty"))
	}
	program, err := exprlang.Compile(r.expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return wrapRuleError("expr", r.expression, err)
	}
	result, err := exprlang.Run(program, ruleEnvironment(document))
	if err != nil {
		return wrapRuleError("expr", r.expression, err)
	}
	return wrapRuleError("expr", r.expression, requireTrue(result))
}

type celRule struct {
	expression string
}

func (r celRule) check(document any) error {
	if r.expression == "" {
		return wrapRuleError("cel", "", fmt.Errorf("expression must not be empty"))
	}
	activation := ruleEnvironment(document)
	opts := make([]celgo.EnvOption, 0, len(activation))
	for key := range activation {
		if !celIdentifier(key) {
			delete(activation, key)
			continue
		}
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return wrapRuleError("cel", r.expression, err)
	}
	ast, issues := env.Compile(r.expression)
	if issues != nil && issues.Err() != nil {
		return wrapRuleError("cel", r.expression, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return wrapRuleError("cel", r.expression, err)
	}
	out, _, err := program.Eval(activation)
	if err != nil {
		return wrapRuleError("cel", r.expression, err)
	}
	return wrapRuleError("cel", r.expression, requireTrue(out.Value()))
}

var celReserved = map[string]struct{}{
	"false": {}, "in": {}, "null": {}, "true": {},
	"as": {}, "break": {}, "const": {}, "continue": {}, "else": {},
	"for": {}, "function": {}, "if": {}, "import": {}, "let": {},
	"loop": {}, "package": {}, "namespace": {}, "return": {},
	"var": {}, "void": {}, "while": {},
}

// celIdentifier reports whether key can be declared as a CEL variable. Other
// keys stay reachable through document.
func celIdentifier(key string) bool {
	if key == "" {
		return false
	}
	if _, reserved := celReserved[key]; reserved {
		return false
	}
	for i, r := range key {
		if r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r)) {
			continue
		}
		if i > 0 && r < unicode.MaxASCII && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
