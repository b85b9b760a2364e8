package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-base/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Data keys describing the component in a record.
const (
	DataClass   = "class"
	DataLineage = "lineage"
)

// Hook records component activity in a go-users ActivitySink. Identity ids
// that are not UUIDs are recorded as uuid.Nil.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify converts the event into an ActivityRecord and logs it.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = activity.Normalize(event)
	if !event.Complete() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, Record(event))
}

// Record maps a normalized event onto an ActivityRecord. The component class
// and lineage travel in Data next to the event metadata.
func Record(event activity.Event) usertypes.ActivityRecord {
	data := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if event.Component.Class != "" {
		data[DataClass] = event.Component.Class
	}
	if len(event.Component.Lineage) > 0 {
		data[DataLineage] = append([]string(nil), event.Component.Lineage...)
	}
	return usertypes.ActivityRecord{
		ActorID:    parseUUID(event.Actor.ActorID),
		UserID:     parseUUID(event.Actor.UserID),
		TenantID:   parseUUID(event.Actor.TenantID),
		Verb:       event.Verb,
		ObjectType: activity.ObjectTypeComponent,
		ObjectID:   event.Component.ID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
