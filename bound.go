package jsonload

import (
	"context"
	"net/url"
	"path/filepath"
	"runtime"
)

// Loader resolves relative references against a fixed directory. It never
// inspects the call stack.
type Loader struct {
	dir  string
	opts []Option
}

// Here binds a Loader to the directory of the file calling Here. Call it once
// during package initialization:
//
//	var docs = jsonload.Here()
func Here(opts ...Option) *Loader {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return For(".", opts...)
	}
	return For(filepath.Dir(file), opts...)
}

// For binds a Loader to dir. Relative directories are made absolute against
// the working directory.
func For(dir string, opts ...Option) *Loader {
	if dir == "" {
		dir = "."
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &Loader{
		dir:  filepath.Clean(dir) + string(filepath.Separator),
		opts: append([]Option(nil), opts...),
	}
}

// Dir returns the directory references are resolved against.
func (l *Loader) Dir() string {
	return filepath.Clean(l.dir)
}

func (l *Loader) options(opts []Option) []Option {
	combined := make([]Option, 0, len(l.opts)+len(opts)+1)
	combined = append(combined, WithBase(l.dir))
	combined = append(combined, l.opts...)
	return append(combined, opts...)
}

// Load is the bound form of the package-level Load.
func (l *Loader) Load(ctx context.Context, ref any, opts ...Option) (any, error) {
	return Load(ctx, ref, l.options(opts)...)
}

// LoadSync is the bound form of the package-level LoadSync.
func (l *Loader) LoadSync(ref any, opts ...Option) (any, error) {
	return LoadSync(ref, l.options(opts)...)
}

// Resolve is the bound form of the package-level Resolve.
func (l *Loader) Resolve(ref any, opts ...Option) (string, error) {
	return Resolve(ref, l.options(opts)...)
}

// ResolveURL is the bound form of the package-level ResolveURL.
func (l *Loader) ResolveURL(ref any, opts ...Option) (*url.URL, error) {
	return ResolveURL(ref, l.options(opts)...)
}
