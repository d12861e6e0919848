package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewChangeEvent(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	event := NewChangeEvent(3, RealmChanged, 7, 4, at)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, uint64(3), event.Seq)
	assert.Equal(t, RealmChanged, event.Kind)
	assert.Equal(t, 7, event.Focus)
	assert.Equal(t, 4, event.Realm)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
	assert.True(t, event.OccurredAt.Equal(at))

	other := NewChangeEvent(3, RealmChanged, 7, 4, at)
	assert.NotEqual(t, event.ID, other.ID)
}

func TestChangeEventAligned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		focus int
		realm int
		want  bool
	}{
		{"equal", 7, 7, true},
		{"different", 7, 3, false},
		{"no focus", 0, 0, false},
		{"no realm", 5, -1, false},
		{"master realm never equals a focus", 2, 22, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewChangeEvent(1, FocusChanged, tt.focus, tt.realm, time.Now())
			assert.Equal(t, tt.want, event.Aligned())
		})
	}
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// Events received by this handler, in order
	Events []*ChangeEvent
	// Error to return from HandleEvent
	HandlerError error
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(_ context.Context, event *ChangeEvent) error {
	h.Events = append(h.Events, event)
	return h.HandlerError
}
