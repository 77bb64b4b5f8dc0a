// Package events provides a minimal in-process event mechanism that lets
// services request background work without depending on the job runner.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobRequestEvent represents a request to create a background job.
// It carries the job type and a JSON payload without any direct
// dependency on the job package.
type JobRequestEvent struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Type indicates the job type that should be created.
	Type string `json:"type"`

	// Payload contains the job-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *JobRequestEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewJobRequestEvent creates a JobRequestEvent with the given type and payload.
func NewJobRequestEvent(eventType string, payload interface{}) (*JobRequestEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &JobRequestEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler processes events and takes appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *JobRequestEvent) error
}

// EventEmitter publishes events to registered handlers, letting services
// emit without direct knowledge of who handles the event.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *JobRequestEvent) error
}
