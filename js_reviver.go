package jsonload

import (
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"
)

// WithJSReviver uses a JavaScript function as the reviver. source must
// evaluate to a function of (key, value); returning undefined removes the
// entry as JSON.parse does. An exception thrown by the function fails the
// load.
func WithJSReviver(source string) Option {
	program, compileErr := goja.Compile("reviver", "("+source+")", false)
	return func(cfg *loadConfig) {
		if compileErr != nil {
			cfg.err = fmt.Errorf("jsonload: compile reviver: %w", compileErr)
			return
		}
		vm := goja.New()
		value, err := vm.RunProgram(program)
		if err != nil {
			cfg.err = fmt.Errorf("jsonload: evaluate reviver: %w", err)
			return
		}
		fn, ok := goja.AssertFunction(value)
		if !ok {
			cfg.err = fmt.Errorf("jsonload: reviver source must evaluate to a function, got %s", value.ExportType())
			return
		}
		r := &jsReviver{vm: vm, fn: fn}
		cfg.reviver = r.revive
		cfg.reviverErr = r.failure
	}
}

// jsReviver owns one goja runtime; it is used by a single load call at a time.
type jsReviver struct {
	vm  *goja.Runtime
	fn  goja.Callable
	err error
}

func (r *jsReviver) revive(key string, value any) (any, bool) {
	if r.err != nil {
		return value, true
	}
	result, err := r.fn(goja.Undefined(), r.vm.ToValue(key), r.vm.ToValue(value))
	if err != nil {
		r.err = fmt.Errorf("jsonload: reviver: %w", err)
		return value, true
	}
	if goja.IsUndefined(result) {
		return nil, false
	}
	normalized, err := normalizeExport(result.Export())
	if err != nil {
		r.err = fmt.Errorf("jsonload: reviver result: %w", err)
		return value, true
	}
	return normalized, true
}

// failure reports the first exception of the document just revived and
// clears it, so the next document starts clean.
func (r *jsReviver) failure() error {
	err := r.err
	r.err = nil
	return err
}

// normalizeExport maps goja exports (int64 numbers, typed maps) onto the
// encoding/json data model.
func normalizeExport(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, float64:
		return v, nil
	case int64:
		return float64(v), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
