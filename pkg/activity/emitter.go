package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "jsonload"

// Emitter stamps a default channel on events and fans them out to hooks.
type Emitter struct {
	hooks   Hooks
	channel string
}

// NewEmitter drops nil hooks. An empty channel selects DefaultChannel.
func NewEmitter(hooks Hooks, channel string) *Emitter {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	normalized := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			normalized = append(normalized, hook)
		}
	}
	return &Emitter{hooks: normalized, channel: channel}
}

// Enabled reports whether any hook would receive events.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit forwards the event to all hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}
