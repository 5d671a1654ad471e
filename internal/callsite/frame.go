package callsite

import (
	"path"
	"runtime"
	"strings"
)

const (
	initialDepth = 64
	maxDepth     = 1024
)

// Frame is one entry of a sampled call stack. Index is the ordinal position
// in the sample, 0 being the deepest call.
type Frame struct {
	Index    int
	File     string
	Function string
	Line     int
}

// Sample returns the active call frames, deepest first. Sample itself is never
// included; skip drops that many additional callers, so Sample(0) starts at
// the function calling Sample.
func Sample(skip int) []Frame {
	if skip < 0 {
		skip = 0
	}
	pcs := make([]uintptr, initialDepth)
	n := runtime.Callers(skip+2, pcs)
	for n == len(pcs) && len(pcs) < maxDepth {
		pcs = make([]uintptr, len(pcs)*2)
		n = runtime.Callers(skip+2, pcs)
	}
	if n == 0 {
		return nil
	}
	iter := runtime.CallersFrames(pcs[:n])
	frames := make([]Frame, 0, n)
	for {
		rf, more := iter.Next()
		frames = append(frames, Frame{
			Index:    len(frames),
			File:     rf.File,
			Function: rf.Function,
			Line:     rf.Line,
		})
		if !more {
			break
		}
	}
	return frames
}

// IsRuntimeInternal reports whether the frame belongs to the Go runtime or
// standard library, or carries no source location at all. Module paths
// without a dot, such as "myapp/lib", are not standard library.
func (f Frame) IsRuntimeInternal() bool {
	if f.File == "" || f.Function == "" {
		return true
	}
	if stdlibSource != "" && strings.HasPrefix(f.File, stdlibSource+"/") {
		return true
	}
	return isStdlibPackage(packagePath(f.Function))
}

// stdlibSource is GOROOT/src as recorded in the runtime's own frames. It is
// "" when those paths are not absolute, e.g. with -trimpath.
var stdlibSource = func() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(1, pcs)
	iter := runtime.CallersFrames(pcs[:n])
	for {
		rf, more := iter.Next()
		if strings.HasPrefix(rf.Function, "runtime.") && (strings.HasPrefix(rf.File, "/") || isDrivePath(rf.File)) {
			return path.Dir(path.Dir(rf.File))
		}
		if !more {
			return ""
		}
	}
}()

func isDrivePath(file string) bool {
	return len(file) > 2 && file[1] == ':' && file[2] == '/'
}

// packagePath extracts the import path from a fully qualified function name
// such as "github.com/org/repo/pkg.(*T).Method".
func packagePath(function string) string {
	lastSlash := strings.LastIndex(function, "/")
	rest := function[lastSlash+1:]
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return function
	}
	return function[:lastSlash+1+dot]
}

// stdlibRoots lists the top-level import path elements of the standard
// library.
var stdlibRoots = map[string]struct{}{
	"archive": {}, "bufio": {}, "bytes": {}, "cmp": {}, "compress": {},
	"container": {}, "context": {}, "crypto": {}, "database": {}, "debug": {},
	"embed": {}, "encoding": {}, "errors": {}, "expvar": {}, "flag": {},
	"fmt": {}, "go": {}, "hash": {}, "html": {}, "image": {}, "index": {},
	"internal": {}, "io": {}, "iter": {}, "log": {}, "maps": {}, "math": {},
	"mime": {}, "net": {}, "os": {}, "path": {}, "plugin": {}, "reflect": {},
	"regexp": {}, "runtime": {}, "slices": {}, "sort": {}, "strconv": {},
	"strings": {}, "structs": {}, "sync": {}, "syscall": {}, "testing": {},
	"text": {}, "time": {}, "unicode": {}, "unique": {}, "unsafe": {},
	"vendor": {}, "weak": {},
}

func isStdlibPackage(pkg string) bool {
	if pkg == "" {
		return true
	}
	first, _, _ := strings.Cut(pkg, "/")
	_, ok := stdlibRoots[first]
	return ok
}
