package jsonload

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-jsonload/internal/callsite"
)

// sampleBaseFiles inspects the live call stack for the calling file.
var sampleBaseFiles = func() (primary, fallback string) {
	return callsite.BaseFile(1, callsite.DefaultTree())
}

var fileExists = func(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// resolver turns references into locations. The call stack is sampled at
// most once per resolver so that every reference of one load call, fallbacks
// included, resolves against the same caller.
type resolver struct {
	base     string
	sampled  bool
	primary  string
	fallback string
}

func newResolver(cfg loadConfig) *resolver {
	return &resolver{base: cfg.base}
}

func (r *resolver) sample() {
	if r.sampled || r.base != "" {
		return
	}
	r.primary, r.fallback = sampleBaseFiles()
	r.sampled = true
}

func (r *resolver) resolve(ref reference, mode resolveMode) Location {
	if loc, ok := shortCircuit(ref, mode); ok {
		return loc
	}
	if r.base != "" {
		dir := baseDir(r.base)
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		return locationFor(filepath.Join(dir, filepath.FromSlash(ref.raw)), mode)
	}

	r.sample()
	candidate := locationFor(joinBase(r.primary, ref.raw), mode)
	if existsOnDisk(candidate) {
		return candidate
	}
	return locationFor(joinBase(r.fallback, ref.raw), mode)
}

// shortCircuit handles references that need no caller context.
func shortCircuit(ref reference, mode resolveMode) (Location, bool) {
	if ref.url != nil {
		if mode == modePath {
			if path, ok := urlToPath(ref.url); ok {
				return Location{Path: filepath.Clean(path)}, true
			}
		}
		return Location{URL: ref.url}, true
	}
	if filepath.IsAbs(ref.raw) {
		return locationFor(filepath.Clean(ref.raw), mode), true
	}
	return Location{}, false
}

func locationFor(path string, mode resolveMode) Location {
	if mode == modeURL {
		return Location{URL: pathToURL(path)}
	}
	return Location{Path: path}
}

func joinBase(file, ref string) string {
	return filepath.Join(filepath.Dir(file), filepath.FromSlash(ref))
}

// baseDir interprets an explicit base: file URLs are converted, trailing
// separators and existing directories are used as is, anything else names a
// file whose directory is used.
func baseDir(base string) string {
	if u, ok := qualifiedURL(base); ok {
		if path, ok := urlToPath(u); ok {
			if strings.HasSuffix(u.Path, "/") {
				return path
			}
			base = path
		}
	}
	if strings.HasSuffix(base, "/") || strings.HasSuffix(base, string(filepath.Separator)) {
		return filepath.Clean(base)
	}
	if info, err := os.Stat(base); err == nil && info.IsDir() {
		return base
	}
	return filepath.Dir(base)
}

// Resolve returns the filesystem path ref refers to, relative references
// being resolved against the directory of the calling source file. Absolute
// paths are returned cleaned; URLs with a file scheme are converted to paths
// and other URLs are returned as strings.
func Resolve(ref any, opts ...Option) (string, error) {
	parsed, err := parseReference(ref)
	if err != nil {
		return "", err
	}
	cfg := applyOptions(opts)
	return newResolver(cfg).resolve(parsed, modePath).String(), nil
}

// ResolveURL is Resolve in URL mode: the result is always a URL, file
// locations using the file scheme.
func ResolveURL(ref any, opts ...Option) (*url.URL, error) {
	parsed, err := parseReference(ref)
	if err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)
	loc := newResolver(cfg).resolve(parsed, modeURL)
	return loc.URL, nil
}
