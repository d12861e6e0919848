package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChangeKind names which value changed.
type ChangeKind string

// Change kinds
const (
	FocusChanged ChangeKind = "focus"
	RealmChanged ChangeKind = "realm"
)

// ChangeEvent reports that the focus or realm number changed. It carries the
// full snapshot after the change so consumers never read shared state.
type ChangeEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Seq increases by one for every event published by a store
	Seq uint64 `json:"seq"`

	// Kind tells which value changed
	Kind ChangeKind `json:"kind"`

	// Focus and Realm are the values after the change; 0 means no focus
	// chosen yet and -1 means no realm computed yet.
	Focus int `json:"focus"`
	Realm int `json:"realm"`

	// OccurredAt is the timestamp when the change was applied
	OccurredAt time.Time `json:"occurred_at"`
}

// NewChangeEvent creates a ChangeEvent with a fresh ID.
func NewChangeEvent(seq uint64, kind ChangeKind, focus, realm int, at time.Time) *ChangeEvent {
	return &ChangeEvent{
		ID:         uuid.New(),
		Seq:        seq,
		Kind:       kind,
		Focus:      focus,
		Realm:      realm,
		OccurredAt: at.UTC(),
	}
}

// Aligned reports whether a focus has been chosen, a realm computed, and
// the two are equal.
func (e *ChangeEvent) Aligned() bool {
	return e.Focus > 0 && e.Realm >= 0 && e.Focus == e.Realm
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ChangeEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *ChangeEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *ChangeEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ChangeEvent) error
}
