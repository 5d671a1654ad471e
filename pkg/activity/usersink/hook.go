// Package usersink forwards load activity to a go-users ActivitySink.
package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-jsonload/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts activity events to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
	// TenantID is stamped on every record when set.
	TenantID uuid.UUID
}

// Notify forwards complete events to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := h.record(activity.NormalizeEvent(event))
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// record maps a load event onto an ActivityRecord. The actor doubles as the
// user; events without a verb or document location are not recorded.
func (h Hook) record(event activity.Event) (usertypes.ActivityRecord, bool) {
	if event.Verb == "" || event.ObjectID == "" {
		return usertypes.ActivityRecord{}, false
	}
	actorID := parseUUID(event.ActorID)
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return usertypes.ActivityRecord{
		ActorID:    actorID,
		UserID:     actorID,
		TenantID:   h.TenantID,
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       event.Metadata,
		OccurredAt: occurredAt,
	}, true
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
