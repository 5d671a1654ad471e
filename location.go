package jsonload

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Location is a resolved load target. Path is set for filesystem targets;
// URL is set in URL mode and for references with a non-file scheme.
type Location struct {
	Path string
	URL  *url.URL
}

// String returns the URL when present, otherwise the path.
func (l Location) String() string {
	if l.URL != nil {
		return l.URL.String()
	}
	return l.Path
}

// FilePath returns the filesystem path backing the location.
func (l Location) FilePath() (string, bool) {
	if l.Path != "" {
		return l.Path, true
	}
	if l.URL != nil {
		return urlToPath(l.URL)
	}
	return "", false
}

type resolveMode int

const (
	modePath resolveMode = iota
	modeURL
)

// reference is a validated, not yet resolved reference argument.
type reference struct {
	raw string
	url *url.URL
}

func (r reference) String() string {
	if r.url != nil {
		return r.url.String()
	}
	return r.raw
}

func parseReference(ref any) (reference, error) {
	switch v := ref.(type) {
	case string:
		if v == "" {
			return reference{}, &ReferenceError{Reference: ref}
		}
		if u, ok := qualifiedURL(v); ok {
			return reference{raw: v, url: u}, nil
		}
		return reference{raw: v}, nil
	case *url.URL:
		if v == nil {
			return reference{}, &ReferenceError{Reference: ref}
		}
		copied := *v
		return reference{raw: v.String(), url: &copied}, nil
	case url.URL:
		copied := v
		return reference{raw: v.String(), url: &copied}, nil
	default:
		return reference{}, &ReferenceError{Reference: ref}
	}
}

// qualifiedURL reports whether s carries a URL scheme. Single letter schemes
// are Windows drive letters, not URLs.
func qualifiedURL(s string) (*url.URL, bool) {
	if !strings.Contains(s, ":") {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || len(u.Scheme) < 2 {
		return nil, false
	}
	return u, true
}

func pathToURL(path string) *url.URL {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return &url.URL{Scheme: "file", Path: slashed}
}

func urlToPath(u *url.URL) (string, bool) {
	if u == nil || u.Scheme != "file" {
		return "", false
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	if p == "" {
		return "", false
	}
	if filepath.Separator == '\\' && len(p) > 2 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}

func existsOnDisk(loc Location) bool {
	path, ok := loc.FilePath()
	if !ok {
		return false
	}
	return fileExists(path)
}
