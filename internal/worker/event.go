package worker

import (
	"encoding/json"
	"errors"
	"fmt"

	"searchbridge/internal/convert"
)

var errMalformed = errors.New("malformed event")

// Event is one document change published to an indexing topic.
type Event struct {
	Op          string         `json:"op"`
	Index       string         `json:"index"`
	ID          string         `json:"id"`
	Doc         map[string]any `json:"doc,omitempty"`
	Routing     string         `json:"routing,omitempty"`
	DocAsUpsert bool           `json:"doc_as_upsert,omitempty"`
}

// ParseEvent decodes and validates a message value.
func ParseEvent(value []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(value, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if ev.Index == "" {
		return Event{}, fmt.Errorf("%w: index is required", errMalformed)
	}
	switch ev.Op {
	case convert.ActionIndex, convert.ActionCreate:
		if ev.Doc == nil {
			return Event{}, fmt.Errorf("%w: %s requires doc", errMalformed, ev.Op)
		}
	case convert.ActionUpdate:
		if ev.ID == "" || ev.Doc == nil {
			return Event{}, fmt.Errorf("%w: update requires id and doc", errMalformed)
		}
	case convert.ActionDelete:
		if ev.ID == "" {
			return Event{}, fmt.Errorf("%w: delete requires id", errMalformed)
		}
	default:
		return Event{}, fmt.Errorf("%w: unknown op %q", errMalformed, ev.Op)
	}
	return ev, nil
}

// Operation renders the event as a bulk operation map.
func (ev Event) Operation() map[string]any {
	meta := map[string]any{"_index": ev.Index}
	if ev.ID != "" {
		meta["_id"] = ev.ID
	}
	if ev.Routing != "" {
		meta["routing"] = ev.Routing
	}
	op := map[string]any{ev.Op: meta}
	switch ev.Op {
	case convert.ActionIndex, convert.ActionCreate:
		op["doc"] = ev.Doc
	case convert.ActionUpdate:
		op["doc"] = ev.Doc
		if ev.DocAsUpsert {
			op["doc_as_upsert"] = true
		}
	}
	return op
}
