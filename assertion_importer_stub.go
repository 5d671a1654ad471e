//go:build !js_eval

package jsonload

import "context"

type assertionImporter struct{}

// NewAssertionImporter is unavailable without the js_eval build tag; the
// returned importer always reports ErrImporterUnavailable.
func NewAssertionImporter() Importer {
	return assertionImporter{}
}

func (assertionImporter) Import(context.Context, Location, string) (any, error) {
	return nil, ErrImporterUnavailable
}

func assertionImporterAvailable() bool {
	return false
}
