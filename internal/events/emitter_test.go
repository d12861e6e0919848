package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	// Create a minimal logger that discards output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event := NewChangeEvent(1, FocusChanged, 3, -1, time.Now())

		// Should not error even with no handlers
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		handler := &MockEventHandler{}
		emitter.RegisterHandler(handler)

		require.NoError(t, emitter.EmitEvent(context.Background(), NewChangeEvent(1, FocusChanged, 7, -1, time.Now())))
		assert.Len(t, handler.Events, 1)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := NewChangeEvent(1, RealmChanged, 3, 5, time.Now())
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		require.Len(t, handler1.Events, 1)
		require.Len(t, handler2.Events, 1)
		assert.Same(t, event, handler1.Events[0])
		assert.Same(t, event, handler2.Events[0])
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		failingHandler := &MockEventHandler{HandlerError: errors.New("handler error")}
		laterFailure := &MockEventHandler{HandlerError: errors.New("second error")}
		successHandler := &MockEventHandler{}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(laterFailure)
		emitter.RegisterHandler(successHandler)

		err := emitter.EmitEvent(context.Background(), NewChangeEvent(1, RealmChanged, 3, 5, time.Now()))
		require.Error(t, err)
		assert.Equal(t, "handler error", err.Error())

		// Every handler still received the event
		assert.Len(t, failingHandler.Events, 1)
		assert.Len(t, laterFailure.Events, 1)
		assert.Len(t, successHandler.Events, 1)
	})

	t.Run("handlers run in registration order", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		var order []string
		for _, name := range []string{"first", "second", "third"} {
			emitter.RegisterHandler(HandlerFunc(func(context.Context, *ChangeEvent) error {
				order = append(order, name)
				return nil
			}))
		}

		require.NoError(t, emitter.EmitEvent(context.Background(), NewChangeEvent(1, FocusChanged, 1, -1, time.Now())))
		assert.Equal(t, []string{"first", "second", "third"}, order)
	})

	t.Run("events arrive in publish order", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		handler := &MockEventHandler{}
		emitter.RegisterHandler(handler)

		for seq := uint64(1); seq <= 5; seq++ {
			require.NoError(t, emitter.EmitEvent(context.Background(), NewChangeEvent(seq, RealmChanged, 1, int(seq), time.Now())))
		}

		require.Len(t, handler.Events, 5)
		for i, event := range handler.Events {
			assert.Equal(t, uint64(i+1), event.Seq)
		}
	})
}
