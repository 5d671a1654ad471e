package jsonload

import (
	"context"

	"github.com/goliatone/go-jsonload/internal/hydrate"
)

// Into loads ref with Load and decodes the document into T. When T (or *T)
// implements Validate() error, it runs after decoding and failures are
// reported as *ValidationError.
func Into[T any](ctx context.Context, ref any, opts ...Option) (T, error) {
	value, err := Load(ctx, ref, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return hydrateInto[T](value, ref, applyOptions(opts))
}

// IntoSync is Into on top of LoadSync.
func IntoSync[T any](ref any, opts ...Option) (T, error) {
	value, err := LoadSync(ref, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return hydrateInto[T](value, ref, applyOptions(opts))
}

// IntoWith decodes with a bound Loader.
func IntoWith[T any](ctx context.Context, l *Loader, ref any, opts ...Option) (T, error) {
	return Into[T](ctx, ref, l.options(opts)...)
}

func hydrateInto[T any](value any, ref any, cfg loadConfig) (T, error) {
	var decoderOpts []hydrate.DecoderOption[T]
	if cfg.strict {
		decoderOpts = append(decoderOpts, hydrate.WithDisallowUnknownFields[T]())
	}
	if cfg.useNumber {
		decoderOpts = append(decoderOpts, hydrate.WithUseNumber[T]())
	}
	location := referenceLabel(ref)
	result, err := hydrate.NewDecoder(decoderOpts...).Decode(hydrate.Context{Location: location}, value)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := validateTyped(result); err != nil {
		var zero T
		return zero, wrapValidationError(location, err)
	}
	return result, nil
}

func referenceLabel(ref any) string {
	parsed, err := parseReference(ref)
	if err != nil {
		return ""
	}
	return parsed.String()
}
