package callsite

import (
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultEntry is the library entry file expected at the boundary root.
const DefaultEntry = "jsonload.go"

// DefaultInternalDirs lists the subtrees of the boundary that hold library
// implementation code in addition to the root package itself.
var DefaultInternalDirs = []string{"internal"}

var selfFile, selfDir = func() (string, string) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", ""
	}
	return file, filepath.Dir(file)
}()

// Tree describes the library's own source layout as seen in stack frames.
type Tree struct {
	// Root is the package boundary; "" disables tree detection.
	Root string
	// Dirs are boundary-relative directories considered library internals.
	Dirs []string
	// Entry is the base name of the entry file at Root.
	Entry string
	// Self is the directory holding the selector's own source files.
	Self string
}

// DefaultTree describes this module using the cached boundary.
func DefaultTree() Tree {
	return Tree{
		Root:  Boundary(),
		Dirs:  DefaultInternalDirs,
		Entry: DefaultEntry,
		Self:  selfDir,
	}
}

// Contains reports whether file is non-test library source: a Go file in the
// boundary root package or below one of the internal directories.
func (t Tree) Contains(file string) bool {
	if t.Root == "" || !isLibrarySource(file) {
		return false
	}
	rel, err := filepath.Rel(t.Root, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	dir := filepath.Dir(rel)
	if dir == "." {
		return true
	}
	for _, internal := range t.Dirs {
		internal = filepath.Clean(internal)
		if dir == internal || strings.HasPrefix(dir, internal+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IsEntry reports whether file is the library entry file at the boundary root.
func (t Tree) IsEntry(file string) bool {
	if t.Root == "" || t.Entry == "" || file == "" {
		return false
	}
	return filepath.Dir(file) == t.Root && filepath.Base(file) == t.Entry
}

// IsSelf reports whether file belongs to the selector's own package.
func (t Tree) IsSelf(file string) bool {
	if t.Self == "" || file == "" || !isLibrarySource(file) {
		return false
	}
	return filepath.Dir(file) == t.Self
}

func (t Tree) skip(f Frame) bool {
	return f.IsRuntimeInternal() || t.IsSelf(f.File)
}

// scanState carries the flags of the previous considered frame.
type scanState struct {
	inTree  bool
	atEntry bool
	// exitedEntry records a transition out of the entry file. Nothing
	// branches on it; selection only follows the tree transition.
	exitedEntry bool
}

// SelectPrimary returns the first frame, scanning deepest first, whose file
// lies outside the library tree while the previous considered frame lay
// inside it. Runtime frames and the selector's own files are ignored and do
// not update the previous state.
func SelectPrimary(frames []Frame, tree Tree) (Frame, bool) {
	var prev scanState
	for _, frame := range frames {
		if tree.skip(frame) {
			continue
		}
		inTree := tree.Contains(frame.File)
		atEntry := tree.IsEntry(frame.File)
		if prev.atEntry && !atEntry {
			prev.exitedEntry = true
		}
		if prev.inTree && !inTree {
			return frame, true
		}
		prev.inTree = inTree
		prev.atEntry = atEntry
	}
	return Frame{}, false
}

// SelectFallback returns the first frame that is neither runtime internal nor
// part of the selector's own package. When nothing qualifies it returns a
// frame naming the selector's own source file.
func SelectFallback(frames []Frame, tree Tree) Frame {
	for _, frame := range frames {
		if !tree.skip(frame) {
			return frame
		}
	}
	return Frame{Index: -1, File: selfFile}
}

// BaseFile samples the stack starting at the caller of BaseFile, dropping
// skip additional frames, and returns the primary and fallback base files.
// primary equals fallback when no tree transition was found.
func BaseFile(skip int, tree Tree) (primary, fallback string) {
	frames := Sample(skip + 1)
	fb := SelectFallback(frames, tree)
	if frame, ok := SelectPrimary(frames, tree); ok {
		return frame.File, fb.File
	}
	return fb.File, fb.File
}

func isLibrarySource(file string) bool {
	return strings.HasSuffix(file, ".go") && !strings.HasSuffix(file, "_test.go")
}
