package callsite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTree = Tree{
	Root:  "/lib",
	Dirs:  []string{"internal"},
	Entry: "jsonload.go",
	Self:  "/lib/internal/callsite",
}

func frames(entries ...[2]string) []Frame {
	out := make([]Frame, 0, len(entries))
	for i, entry := range entries {
		out = append(out, Frame{Index: i, File: entry[0], Function: entry[1]})
	}
	return out
}

func TestSelectPrimaryReturnsFirstFrameOutsideTree(t *testing.T) {
	stack := frames(
		[2]string{"/lib/internal/callsite/select.go", "github.com/goliatone/go-jsonload/internal/callsite.BaseFile"},
		[2]string{"/lib/resolve.go", "github.com/goliatone/go-jsonload.Resolve"},
		[2]string{"/lib/jsonload.go", "github.com/goliatone/go-jsonload.Load"},
		[2]string{"/project/src/lib/utils/utils.go", "example.com/project/lib/utils.Settings"},
		[2]string{"/project/main.go", "main.main"},
	)

	frame, ok := SelectPrimary(stack, testTree)
	require.True(t, ok)
	assert.Equal(t, "/project/src/lib/utils/utils.go", frame.File)
	assert.Equal(t, 3, frame.Index)
}

func TestSelectPrimaryIgnoresRuntimeFramesBetweenTransitions(t *testing.T) {
	stack := frames(
		[2]string{"/lib/loader.go", "github.com/goliatone/go-jsonload.Load"},
		[2]string{"/usr/local/go/src/reflect/value.go", "reflect.Value.Call"},
		[2]string{"", ""},
		[2]string{"/app/handler.go", "example.com/app.handle"},
	)

	frame, ok := SelectPrimary(stack, testTree)
	require.True(t, ok)
	assert.Equal(t, "/app/handler.go", frame.File)
}

func TestSelectPrimaryDotlessModuleCaller(t *testing.T) {
	stack := frames(
		[2]string{"/lib/resolve.go", "github.com/goliatone/go-jsonload.Resolve"},
		[2]string{"/app/lib/where.go", "myapp/lib.Where"},
		[2]string{"/app/main.go", "main.main"},
		[2]string{"/usr/local/go/src/runtime/proc.go", "runtime.main"},
	)

	frame, ok := SelectPrimary(stack, testTree)
	require.True(t, ok)
	assert.Equal(t, "/app/lib/where.go", frame.File)

	primary := frames(
		[2]string{"/lib/loader.go", "github.com/goliatone/go-jsonload.Load"},
		[2]string{"/work/project/handler.go", "project.Handle"},
	)
	frame, ok = SelectPrimary(primary, testTree)
	require.True(t, ok)
	assert.Equal(t, "/work/project/handler.go", frame.File)
}

func TestSelectPrimaryWithoutTransition(t *testing.T) {
	stack := frames(
		[2]string{"/app/a.go", "example.com/app.a"},
		[2]string{"/app/b.go", "example.com/app.b"},
	)
	_, ok := SelectPrimary(stack, testTree)
	assert.False(t, ok)

	_, ok = SelectPrimary(nil, testTree)
	assert.False(t, ok)
}

func TestSelectPrimaryTreatsLibraryTestsAsCallers(t *testing.T) {
	stack := frames(
		[2]string{"/lib/loader.go", "github.com/goliatone/go-jsonload.Load"},
		[2]string{"/lib/loader_test.go", "github.com/goliatone/go-jsonload.TestLoad"},
		[2]string{"/usr/local/go/src/testing/testing.go", "testing.tRunner"},
	)
	frame, ok := SelectPrimary(stack, testTree)
	require.True(t, ok)
	assert.Equal(t, "/lib/loader_test.go", frame.File)
}

func TestSelectPrimaryEntryTransitionDoesNotSelect(t *testing.T) {
	stack := frames(
		[2]string{"/lib/jsonload.go", "github.com/goliatone/go-jsonload.Load"},
		[2]string{"/lib/bound.go", "github.com/goliatone/go-jsonload.(*Loader).Load"},
		[2]string{"/lib/internal/hydrate/decoder.go", "github.com/goliatone/go-jsonload/internal/hydrate.Decode"},
	)
	_, ok := SelectPrimary(stack, testTree)
	assert.False(t, ok, "leaving the entry file while staying in the tree must not select a frame")
}

func TestSelectFallback(t *testing.T) {
	stack := frames(
		[2]string{"/lib/internal/callsite/frame.go", "github.com/goliatone/go-jsonload/internal/callsite.Sample"},
		[2]string{"/usr/local/go/src/runtime/proc.go", "runtime.main"},
		[2]string{"/lib/loader.go", "github.com/goliatone/go-jsonload.Load"},
		[2]string{"/app/main.go", "main.main"},
	)
	assert.Equal(t, "/lib/loader.go", SelectFallback(stack, testTree).File)

	onlyRuntime := frames(
		[2]string{"/usr/local/go/src/runtime/proc.go", "runtime.main"},
	)
	last := SelectFallback(onlyRuntime, testTree)
	assert.Equal(t, selfFile, last.File)
	assert.Equal(t, -1, last.Index)
}

func TestTreeContains(t *testing.T) {
	cases := []struct {
		file string
		want bool
	}{
		{"/lib/loader.go", true},
		{"/lib/internal/clone/clone.go", true},
		{"/lib/loader_test.go", false},
		{"/lib/examples/basic/main.go", false},
		{"/lib/internalish/x.go", false},
		{"/library/x.go", false},
		{"/lib/testdata/sample.json", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := testTree.Contains(tc.file); got != tc.want {
			t.Fatalf("Contains(%q) = %v, want %v", tc.file, got, tc.want)
		}
	}

	if (Tree{}).Contains("/lib/loader.go") {
		t.Fatalf("tree without root must not contain anything")
	}
}

func TestTreeIsEntry(t *testing.T) {
	assert.True(t, testTree.IsEntry("/lib/jsonload.go"))
	assert.False(t, testTree.IsEntry("/lib/internal/jsonload.go"))
	assert.False(t, testTree.IsEntry("/lib/loader.go"))
}

func TestIsRuntimeInternal(t *testing.T) {
	cases := []struct {
		frame Frame
		want  bool
	}{
		{Frame{File: "/go/src/runtime/proc.go", Function: "runtime.goexit"}, true},
		{Frame{File: "/go/src/testing/testing.go", Function: "testing.tRunner"}, true},
		{Frame{File: "/go/src/net/http/server.go", Function: "net/http.(*conn).serve"}, true},
		{Frame{File: "/app/main.go", Function: "main.main"}, false},
		{Frame{File: "/tmp/x.go", Function: "command-line-arguments.run"}, false},
		{Frame{File: "/app/x.go", Function: "example.com/app/pkg.(*T).Run.func1"}, false},
		{Frame{File: "", Function: "example.com/app.run"}, true},
		{Frame{File: "/app/lib/x.go", Function: "myapp/lib.Where"}, false},
		{Frame{File: "/app/x.go", Function: "project.run"}, false},
		{Frame{File: "/app/main.go", Function: "main.main.func1"}, false},
	}
	for _, tc := range cases {
		if got := tc.frame.IsRuntimeInternal(); got != tc.want {
			t.Fatalf("IsRuntimeInternal(%+v) = %v, want %v", tc.frame, got, tc.want)
		}
	}
}

func TestStdlibSourceFromRuntimeFrames(t *testing.T) {
	if stdlibSource == "" {
		t.Skip("runtime frames carry no absolute paths")
	}
	assert.True(t, strings.HasSuffix(stdlibSource, "/src"), stdlibSource)

	frame := Frame{File: stdlibSource + "/encoding/json/decode.go", Function: "encoding/json.(*decodeState).unmarshal"}
	assert.True(t, frame.IsRuntimeInternal())

	stack := Sample(0)
	var sawRuntime bool
	for _, f := range stack {
		if strings.HasPrefix(f.Function, "testing.") || strings.HasPrefix(f.Function, "runtime.") {
			sawRuntime = true
			assert.True(t, f.IsRuntimeInternal(), f.Function)
		}
	}
	assert.True(t, sawRuntime)
	assert.False(t, stack[0].IsRuntimeInternal(), stack[0].Function)
}

func TestLocateBoundary(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", ManifestFile), []byte("module x\n"), 0o644))

	got := LocateBoundary(filepath.Join(nested, "file.go"), "")
	assert.Equal(t, filepath.Join(root, "a"), got)

	assert.Equal(t, "", LocateBoundary(filepath.Join(nested, "file.go"), "no-such-marker.toml"))
	assert.Equal(t, "", LocateBoundary("", ""))
}

func TestBoundaryIsModuleRoot(t *testing.T) {
	root := Boundary()
	require.NotEmpty(t, root)
	_, err := os.Stat(filepath.Join(root, ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, root, Boundary(), "boundary must be stable across calls")
	assert.Equal(t, filepath.Join(root, "internal", "callsite"), selfDir)
}

func TestSampleStartsAtCaller(t *testing.T) {
	stack := Sample(0)
	require.NotEmpty(t, stack)
	assert.True(t, strings.HasSuffix(stack[0].Function, "TestSampleStartsAtCaller"), stack[0].Function)
	assert.True(t, strings.HasSuffix(stack[0].File, "callsite_test.go"))
	for i, frame := range stack {
		assert.Equal(t, i, frame.Index)
	}

	helper := func() []Frame { return Sample(1) }
	skipped := helper()
	require.NotEmpty(t, skipped)
	assert.True(t, strings.HasSuffix(skipped[0].Function, "TestSampleStartsAtCaller"), skipped[0].Function)
}

func TestBaseFileFromTest(t *testing.T) {
	primary, fallback := BaseFile(0, DefaultTree())
	assert.True(t, strings.HasSuffix(fallback, "callsite_test.go"), fallback)
	assert.Equal(t, fallback, primary)
}
