// Package jsonload loads JSON documents addressed relative to the source file
// that asks for them.
//
// A relative reference such as "./fixtures/sample.json" is resolved against
// the directory of the calling Go file, found by walking the live call stack
// past this module's own frames. Absolute paths and URLs are used as given.
//
// Load tries up to three strategies in order: an attribute import through the
// type registry, an assertion import through an embedded JS runtime (js_eval
// build tag) and a raw file read. LoadSync only performs the raw read. Both
// apply the optional reviver, hand back an independent copy of the document,
// run validators and retry with the fallback reference when loading fails.
//
// Code that loads many documents can bind the caller directory once with Here
// or For and skip stack inspection entirely.
package jsonload

import (
	"context"
)

// Result is the outcome of LoadAsync.
type Result struct {
	Value any
	Err   error
}

// Load resolves ref relative to the calling file and loads it with all
// strategies. ref is a string (relative path, absolute path or URL) or a
// *url.URL.
func Load(ctx context.Context, ref any, opts ...Option) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return newDispatch(applyOptions(opts), false).start(ctx, ref)
}

// LoadSync resolves ref like Load and reads it with blocking I/O, using the
// raw-read strategy only.
func LoadSync(ref any, opts ...Option) (any, error) {
	return newDispatch(applyOptions(opts), true).start(context.Background(), ref)
}

// LoadAsync runs Load on a new goroutine. The caller is identified before the
// goroutine starts, so relative references and fallbacks behave as with Load. The channel
// receives exactly one Result and is then closed.
func LoadAsync(ctx context.Context, ref any, opts ...Option) <-chan Result {
	if ctx == nil {
		ctx = context.Background()
	}
	out := make(chan Result, 1)
	d := newDispatch(applyOptions(opts), false)
	if d.cfg.err != nil {
		out <- Result{Err: d.cfg.err}
		close(out)
		return out
	}
	parsed, err := parseReference(ref)
	if err != nil {
		out <- Result{Err: err}
		close(out)
		return out
	}
	loc := d.resolver.resolve(parsed, d.mode)
	if d.cfg.hasFallback {
		// A relative fallback is resolved on the new goroutine, where the
		// caller's frames are gone.
		d.resolver.sample()
	}
	go func() {
		defer close(out)
		value, err := d.run(ctx, parsed, loc, 0)
		out <- Result{Value: value, Err: err}
	}()
	return out
}
