package activity

import (
	"strings"
	"time"
)

// ObjectTypeDocument is the object type of every load event.
const ObjectTypeDocument = "document"

// Verbs emitted for document loads.
const (
	VerbDocumentLoaded   = "document.loaded"
	VerbDocumentFallback = "document.fallback"
	VerbDocumentFailed   = "document.failed"
)

// DocumentEventInput describes the common fields of load events.
type DocumentEventInput struct {
	LoadID     string
	ActorID    string
	Reference  string
	Location   string
	Strategy   string
	Depth      int
	FallbackTo string
	Err        error
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildDocumentLoadedEvent constructs the event for a successful load.
func BuildDocumentLoadedEvent(input DocumentEventInput) Event {
	return buildDocumentEvent(VerbDocumentLoaded, input)
}

// BuildDocumentFallbackEvent constructs the event for a fallback hop.
func BuildDocumentFallbackEvent(input DocumentEventInput) Event {
	return buildDocumentEvent(VerbDocumentFallback, input)
}

// BuildDocumentFailedEvent constructs the event for a failed load.
func BuildDocumentFailedEvent(input DocumentEventInput) Event {
	return buildDocumentEvent(VerbDocumentFailed, input)
}

func buildDocumentEvent(verb string, input DocumentEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.LoadID != "" {
		set("load_id", input.LoadID)
	}
	if input.Reference != "" {
		set("reference", input.Reference)
	}
	if input.Strategy != "" {
		set("strategy", input.Strategy)
	}
	if input.Depth > 0 {
		set("depth", input.Depth)
	}
	if input.FallbackTo != "" {
		set("fallback_to", input.FallbackTo)
	}
	if input.Err != nil {
		set("error", input.Err.Error())
	}

	objectID := strings.TrimSpace(input.Location)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Reference)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		ObjectType: ObjectTypeDocument,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
