package jsonload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-jsonload/internal/clone"
	"github.com/goliatone/go-jsonload/pkg/activity"
	"github.com/google/uuid"
)

// dispatch carries the state of one load call across fallback hops.
type dispatch struct {
	cfg      loadConfig
	resolver *resolver
	mode     resolveMode
	blocking bool
	id       string
	visited  map[string]struct{}
	emitter  *activity.Emitter
}

func newDispatch(cfg loadConfig, blocking bool) *dispatch {
	mode := modeURL
	if blocking {
		mode = modePath
	}
	return &dispatch{
		cfg:      cfg,
		resolver: newResolver(cfg),
		mode:     mode,
		blocking: blocking,
		id:       uuid.NewString(),
		visited:  map[string]struct{}{},
		emitter:  activity.NewEmitter(cfg.activityHooks, activity.DefaultChannel),
	}
}

func (d *dispatch) start(ctx context.Context, ref any) (any, error) {
	if d.cfg.err != nil {
		return nil, d.cfg.err
	}
	parsed, err := parseReference(ref)
	if err != nil {
		return nil, err
	}
	return d.run(ctx, parsed, d.resolver.resolve(parsed, d.mode), 0)
}

func (d *dispatch) run(ctx context.Context, ref reference, loc Location, depth int) (any, error) {
	d.visited[loc.String()] = struct{}{}
	started := time.Now()

	value, strategy, err := d.attempt(ctx, loc)
	if err == nil {
		value, err = d.finish(value, strategy, loc)
		d.record(ctx, ref, loc, strategy, depth, started, err, false)
		return value, err
	}
	if ctx.Err() != nil || !d.cfg.hasFallback {
		d.record(ctx, ref, loc, "", depth, started, err, false)
		return nil, err
	}

	next, parseErr := parseReference(d.cfg.fallback)
	if parseErr != nil {
		d.record(ctx, ref, loc, "", depth, started, err, false)
		return nil, parseErr
	}
	nextLoc := d.resolver.resolve(next, d.mode)
	if _, seen := d.visited[nextLoc.String()]; seen {
		err = fmt.Errorf("%w: %w", ErrFallbackCycle, err)
		d.record(ctx, ref, loc, "", depth, started, err, false)
		return nil, err
	}
	if depth+1 > d.cfg.maxFallbackDepth {
		err = fmt.Errorf("%w: %w", ErrFallbackDepth, err)
		d.record(ctx, ref, loc, "", depth, started, err, false)
		return nil, err
	}
	d.record(ctx, ref, loc, "", depth, started, err, true)
	d.emit(ctx, activity.BuildDocumentFallbackEvent(activity.DocumentEventInput{
		LoadID:     d.id,
		Reference:  ref.String(),
		Location:   loc.String(),
		Depth:      depth,
		FallbackTo: nextLoc.String(),
		Err:        err,
	}))
	return d.run(ctx, next, nextLoc, depth+1)
}

// attempt runs the strategies in order. Import failures are swallowed; only
// the raw read reports why loading failed.
func (d *dispatch) attempt(ctx context.Context, loc Location) (any, Strategy, error) {
	if !d.blocking {
		tiers := []struct {
			strategy Strategy
			importer Importer
		}{
			{StrategyAttributeImport, d.cfg.modern},
			{StrategyAssertionImport, d.cfg.legacy},
		}
		for _, tier := range tiers {
			if err := ctx.Err(); err != nil {
				return nil, "", err
			}
			if value, err := tier.importer.Import(ctx, loc, d.cfg.typ); err == nil {
				return value, tier.strategy, nil
			}
		}
	}
	if d.cfg.typ != DefaultType {
		return nil, "", &UnsupportedTypeError{Type: d.cfg.typ, Location: loc.String()}
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	value, err := readRaw(loc, d.cfg.reviver)
	if err != nil {
		return nil, "", &LoadError{Location: loc.String(), Err: err}
	}
	return value, StrategyRawRead, nil
}

// finish revives, copies and validates a document obtained by strategy.
func (d *dispatch) finish(value any, strategy Strategy, loc Location) (any, error) {
	if d.cfg.reviver != nil && strategy != StrategyRawRead {
		revived, err := reviveValue(value, d.cfg.reviver)
		if err != nil {
			return nil, &LoadError{Location: loc.String(), Err: err}
		}
		value = revived
	}
	if d.cfg.reviverErr != nil {
		if err := d.cfg.reviverErr(); err != nil {
			return nil, &LoadError{Location: loc.String(), Err: err}
		}
	}
	value = clone.Value(value)
	if err := d.cfg.validate(loc.String(), value); err != nil {
		return nil, err
	}
	return value, nil
}

func (d *dispatch) record(ctx context.Context, ref reference, loc Location, strategy Strategy, depth int, started time.Time, err error, fallback bool) {
	d.cfg.logger.LogLoad(LoadEvent{
		ID:        d.id,
		Reference: ref.String(),
		Location:  loc.String(),
		Strategy:  strategy,
		Depth:     depth,
		Fallback:  fallback,
		Duration:  time.Since(started),
		Err:       err,
	})
	if fallback {
		return
	}
	input := activity.DocumentEventInput{
		LoadID:    d.id,
		Reference: ref.String(),
		Location:  loc.String(),
		Strategy:  string(strategy),
		Depth:     depth,
		Err:       err,
	}
	if err != nil {
		d.emit(ctx, activity.BuildDocumentFailedEvent(input))
		return
	}
	d.emit(ctx, activity.BuildDocumentLoadedEvent(input))
}

// emit notifies activity hooks. Hook failures never fail a load.
func (d *dispatch) emit(ctx context.Context, event activity.Event) {
	if !d.emitter.Enabled() {
		return
	}
	_ = d.emitter.Emit(context.WithoutCancel(ctx), event)
}

// IsValidation reports whether err came from a validator or validation rule.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
