package testcaller_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-jsonload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thisDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Dir(file)
}

func fixture() map[string]any {
	return map[string]any{
		"foo":    "bar",
		"nested": map[string]any{"ok": true},
	}
}

func TestLoadRelativeToThisPackage(t *testing.T) {
	value, err := jsonload.Load(context.Background(), "./fixtures/sample.json")
	require.NoError(t, err)
	assert.Equal(t, fixture(), value)

	value, err = jsonload.LoadSync("./fixtures/sample.json")
	require.NoError(t, err)
	assert.Equal(t, fixture(), value)

	res := <-jsonload.LoadAsync(context.Background(), "./fixtures/sample.json")
	require.NoError(t, res.Err)
	assert.Equal(t, fixture(), res.Value)
}

func TestResolveRelativeToThisPackage(t *testing.T) {
	path, err := jsonload.Resolve("./fixtures/sample.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(thisDir(t), "fixtures", "sample.json"), path)
}

func TestFallbackResolvesAgainstThisPackage(t *testing.T) {
	value, err := jsonload.Load(context.Background(), "./fixtures/nonexistent.json",
		jsonload.WithFallback("./fixtures/sample.json"),
	)
	require.NoError(t, err)
	assert.Equal(t, fixture(), value)
}

func TestMissingReferenceUsesFallbackCandidate(t *testing.T) {
	root := filepath.Dir(filepath.Dir(thisDir(t)))

	path, err := jsonload.Resolve("./fixtures/nonexistent.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "fixtures", "nonexistent.json"), path)

	_, err = jsonload.LoadSync("./fixtures/nonexistent.json")
	var loadErr *jsonload.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, path, loadErr.Location)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestIntoFromThisPackage(t *testing.T) {
	type doc struct {
		Foo string `json:"foo"`
	}
	got, err := jsonload.Into[doc](context.Background(), "./fixtures/sample.json")
	require.NoError(t, err)
	assert.Equal(t, "bar", got.Foo)
}

func TestFallbackAfterAbsoluteReference(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	fallback := jsonload.WithFallback("./fixtures/sample.json")

	value, err := jsonload.Load(context.Background(), missing, fallback)
	require.NoError(t, err)
	assert.Equal(t, fixture(), value)

	res := <-jsonload.LoadAsync(context.Background(), missing, fallback)
	require.NoError(t, res.Err)
	assert.Equal(t, fixture(), res.Value)

	value, err = jsonload.LoadSync(missing, fallback)
	require.NoError(t, err)
	assert.Equal(t, fixture(), value)
}

func TestAsyncFallbackAfterURLReference(t *testing.T) {
	missing := "file://" + filepath.ToSlash(filepath.Join(t.TempDir(), "missing.json"))
	res := <-jsonload.LoadAsync(context.Background(), missing, jsonload.WithFallback("./fixtures/sample.json"))
	require.NoError(t, res.Err)
	assert.Equal(t, fixture(), res.Value)
}
