package callsite

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// ManifestFile marks the root directory of a Go module.
const ManifestFile = "go.mod"

var (
	boundaryOnce sync.Once
	boundaryDir  string
)

// Boundary returns the root directory of the module that ships this package,
// or "" when it cannot be located (for example binaries built with
// -trimpath). The lookup runs once per process and is never invalidated.
func Boundary() string {
	boundaryOnce.Do(func() {
		_, file, _, ok := runtime.Caller(0)
		if !ok || !filepath.IsAbs(file) {
			return
		}
		boundaryDir = LocateBoundary(file, ManifestFile)
	})
	return boundaryDir
}

// LocateBoundary walks parent directories of self until one contains marker.
// It returns "" once the filesystem root is reached without a match.
func LocateBoundary(self, marker string) string {
	if self == "" {
		return ""
	}
	if marker == "" {
		marker = ManifestFile
	}
	dir := filepath.Dir(filepath.Clean(self))
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
