//go:build js_eval

package jsonload

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
)

type assertionImporter struct{}

// NewAssertionImporter returns the second-tier importer. The target text is
// handed to JSON.parse inside an embedded goja runtime once the declared type
// has been asserted to be DefaultType.
func NewAssertionImporter() Importer {
	return assertionImporter{}
}

func (assertionImporter) Import(_ context.Context, loc Location, typ string) (any, error) {
	if typ != DefaultType {
		return nil, fmt.Errorf("jsonload: type assertion %q not supported", typ)
	}
	data, err := readLocation(loc)
	if err != nil {
		return nil, err
	}
	vm := goja.New()
	if err := vm.Set("source", string(data)); err != nil {
		return nil, err
	}
	value, err := vm.RunString("JSON.parse(source)")
	if err != nil {
		return nil, err
	}
	return normalizeExport(value.Export())
}

func assertionImporterAvailable() bool {
	return true
}
