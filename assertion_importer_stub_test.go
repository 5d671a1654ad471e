//go:build !js_eval

package jsonload

import (
	"context"
	"errors"
	"testing"
)

func TestAssertionImporterUnavailable(t *testing.T) {
	if assertionImporterAvailable() {
		t.Fatalf("expected the stub importer")
	}
	_, err := NewAssertionImporter().Import(context.Background(), Location{Path: "testdata/sample.json"}, DefaultType)
	if !errors.Is(err, ErrImporterUnavailable) {
		t.Fatalf("expected ErrImporterUnavailable, got %v", err)
	}
}
