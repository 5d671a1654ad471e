package jsonload

import (
	"context"
	"fmt"

	"github.com/goliatone/go-jsonload/internal/overlay"
)

// LoadMerged loads every reference with Load and deep-merges the documents,
// ordered from strongest to weakest. All references resolve against the same
// caller. Each layer gets the reviver and fallback of opts; validators and
// rules run once, on the merged document.
func LoadMerged(ctx context.Context, refs []any, opts ...Option) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := applyOptions(opts)
	layerCfg := cfg
	layerCfg.validators = nil
	layerCfg.rules = nil

	shared := newResolver(cfg)
	layers := make([]any, 0, len(refs))
	for _, ref := range refs {
		d := newDispatch(layerCfg, false)
		d.resolver = shared
		value, err := d.start(ctx, ref)
		if err != nil {
			return nil, err
		}
		layers = append(layers, value)
	}

	merged := overlay.Merge(layers...)
	if err := cfg.validate(fmt.Sprintf("%d layers", len(layers)), merged); err != nil {
		return nil, err
	}
	return merged, nil
}
