package jsonload

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Strategy names one tier of the loader.
type Strategy string

const (
	// StrategyAttributeImport decodes through the type registry.
	StrategyAttributeImport Strategy = "attribute-import"
	// StrategyAssertionImport decodes through the embedded JS runtime.
	StrategyAssertionImport Strategy = "assertion-import"
	// StrategyRawRead reads the file and parses it as JSON.
	StrategyRawRead Strategy = "raw-read"
)

// Importer obtains a document for a resolved location and declared type.
// Import errors are treated as "this importer cannot handle the target" and
// never surface to the caller.
type Importer interface {
	Import(ctx context.Context, loc Location, typ string) (any, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(ctx context.Context, loc Location, typ string) (any, error)

// Import implements Importer.
func (f ImporterFunc) Import(ctx context.Context, loc Location, typ string) (any, error) {
	if f == nil {
		return nil, ErrImporterUnavailable
	}
	return f(ctx, loc, typ)
}

// DecodeFunc turns raw bytes of a declared type into a document.
type DecodeFunc func(data []byte) (any, error)

// TypeRegistry maps declared types to decoders.
type TypeRegistry struct {
	mu       sync.RWMutex
	decoders map[string]DecodeFunc
}

// NewTypeRegistry constructs an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		decoders: make(map[string]DecodeFunc),
	}
}

// DefaultTypeRegistry returns a registry that only knows DefaultType.
func DefaultTypeRegistry() *TypeRegistry {
	registry := NewTypeRegistry()
	_ = registry.Register(DefaultType, func(data []byte) (any, error) {
		return parseJSON(data, nil)
	})
	return registry
}

// Register stores fn under typ guarding against duplicates.
func (r *TypeRegistry) Register(typ string, fn DecodeFunc) error {
	if fn == nil {
		return fmt.Errorf("jsonload: decoder for type %q is nil", typ)
	}
	if typ == "" {
		return fmt.Errorf("jsonload: type name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.decoders == nil {
		r.decoders = make(map[string]DecodeFunc)
	}
	key := strings.ToLower(typ)
	if _, exists := r.decoders[key]; exists {
		return fmt.Errorf("jsonload: type %q already registered", typ)
	}
	r.decoders[key] = fn
	return nil
}

// Lookup returns the decoder registered for typ.
func (r *TypeRegistry) Lookup(typ string) (DecodeFunc, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.decoders[strings.ToLower(typ)]
	return fn, ok
}

// Clone returns a shallow copy of the registry.
func (r *TypeRegistry) Clone() *TypeRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &TypeRegistry{
		decoders: make(map[string]DecodeFunc, len(r.decoders)),
	}
	for typ, fn := range r.decoders {
		clone.decoders[typ] = fn
	}
	return clone
}

// Types returns registered type names sorted alphabetically.
func (r *TypeRegistry) Types() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.decoders))
	for typ := range r.decoders {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

type attributeImporter struct {
	registry *TypeRegistry
}

// NewAttributeImporter returns the first-tier importer: the declared type
// selects a decoder from registry and the target file is decoded with it.
func NewAttributeImporter(registry *TypeRegistry) Importer {
	if registry == nil {
		registry = DefaultTypeRegistry()
	}
	return &attributeImporter{registry: registry}
}

func (i *attributeImporter) Import(_ context.Context, loc Location, typ string) (any, error) {
	decode, ok := i.registry.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("jsonload: no decoder registered for type %q", typ)
	}
	data, err := readLocation(loc)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// readRaw is the last tier: read the file and parse it, reviving while
// parsing.
func readRaw(loc Location, reviver Reviver) (any, error) {
	data, err := readLocation(loc)
	if err != nil {
		return nil, err
	}
	return parseJSON(data, reviver)
}

func readLocation(loc Location) ([]byte, error) {
	path, ok := loc.FilePath()
	if !ok {
		return nil, fmt.Errorf("jsonload: cannot read %s: not a file location", loc)
	}
	return os.ReadFile(path)
}
