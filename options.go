package jsonload

import (
	"github.com/goliatone/go-jsonload/pkg/activity"
)

// DefaultType is the declared content type used when none is given.
const DefaultType = "json"

// DefaultMaxFallbackDepth bounds the number of fallback hops per call.
const DefaultMaxFallbackDepth = 8

// Option configures a single load or resolve call.
type Option func(*loadConfig)

// Reviver transforms every key/value pair of a parsed document, innermost
// values first, finishing with the root under the empty key. Returning
// keep=false removes the key from its object; array elements become nil.
type Reviver func(key string, value any) (replacement any, keep bool)

// Validator inspects a loaded document and reports why it is unacceptable.
type Validator func(value any) error

type loadConfig struct {
	base             string
	typ              string
	fallback         any
	hasFallback      bool
	reviver          Reviver
	validators       []Validator
	rules            []rule
	modern           Importer
	legacy           Importer
	registry         *TypeRegistry
	logger           Logger
	activityHooks    activity.Hooks
	maxFallbackDepth int
	strict           bool
	useNumber        bool
	reviverErr       func() error
	err              error
}

func applyOptions(opts []Option) loadConfig {
	cfg := loadConfig{
		typ:              DefaultType,
		logger:           noopLogger{},
		maxFallbackDepth: DefaultMaxFallbackDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.typ == "" {
		cfg.typ = DefaultType
	}
	if cfg.registry == nil {
		cfg.registry = DefaultTypeRegistry()
	}
	if cfg.modern == nil {
		cfg.modern = NewAttributeImporter(cfg.registry)
	}
	if cfg.legacy == nil {
		cfg.legacy = NewAssertionImporter()
	}
	return cfg
}

// WithBase resolves relative references against dir instead of the calling
// file's directory. dir may be a directory path, a file path (its directory
// is used) or a file URL.
func WithBase(dir string) Option {
	return func(cfg *loadConfig) {
		cfg.base = dir
	}
}

// WithType declares the content type of the target. Types other than
// DefaultType skip the raw-read strategy.
func WithType(typ string) Option {
	return func(cfg *loadConfig) {
		cfg.typ = typ
	}
}

// WithFallback sets the reference loaded when every strategy fails for the
// primary target. The fallback is loaded with the same options.
func WithFallback(ref any) Option {
	return func(cfg *loadConfig) {
		cfg.fallback = ref
		cfg.hasFallback = ref != nil
	}
}

// WithReviver applies fn to every key/value pair of the document.
func WithReviver(fn Reviver) Option {
	return func(cfg *loadConfig) {
		cfg.reviver = fn
		cfg.reviverErr = nil
	}
}

// WithValidator appends a validation function. Validators run in order on
// the caller's copy of the document; the first error fails the load.
func WithValidator(fn Validator) Option {
	return func(cfg *loadConfig) {
		if fn != nil {
			cfg.validators = append(cfg.validators, fn)
		}
	}
}

// WithImporters replaces the attribute and assertion import strategies. A nil
// importer keeps the default for that tier.
func WithImporters(modern, legacy Importer) Option {
	return func(cfg *loadConfig) {
		if modern != nil {
			cfg.modern = modern
		}
		if legacy != nil {
			cfg.legacy = legacy
		}
	}
}

// WithTypeRegistry configures the decoders used by the attribute importer.
func WithTypeRegistry(registry *TypeRegistry) Option {
	return func(cfg *loadConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

// WithMaxFallbackDepth bounds fallback hops per call. With values below one
// any attempted fallback fails with ErrFallbackDepth.
func WithMaxFallbackDepth(depth int) Option {
	return func(cfg *loadConfig) {
		cfg.maxFallbackDepth = depth
	}
}

// WithStrict rejects unknown fields when decoding into typed values with Into.
func WithStrict() Option {
	return func(cfg *loadConfig) {
		cfg.strict = true
	}
}

// WithUseNumber decodes numbers held in interface-typed fields as
// json.Number when decoding into typed values with Into.
func WithUseNumber() Option {
	return func(cfg *loadConfig) {
		cfg.useNumber = true
	}
}

// WithActivityHooks attaches activity hooks notified about load outcomes.
// Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *loadConfig) {
		cfg.activityHooks = normalized
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
