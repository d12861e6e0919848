package task

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTask struct {
	id uuid.UUID
}

func newStubTask() *stubTask { return &stubTask{id: uuid.New()} }
func (s *stubTask) ID() uuid.UUID { return s.id }
func (s *stubTask) Type() string { return "stub" }
func (s *stubTask) Status() TaskStatus { return TaskStatusPending }
func (s *stubTask) Execute(ctx context.Context) error { return nil }

func TestTaskQueue_FIFO(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(3, nil)
	tasks := []*stubTask{newStubTask(), newStubTask(), newStubTask()}
	for _, tk := range tasks {
		require.NoError(t, q.Enqueue(tk))
	}
	assert.Equal(t, 3, q.Len())

	for _, want := range tasks {
		got := <-q.GetChannel()
		assert.Equal(t, want.ID(), got.ID())
	}
}

func TestTaskQueue_Full(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(1, nil)
	require.NoError(t, q.Enqueue(newStubTask()))
	assert.ErrorIs(t, q.Enqueue(newStubTask()), ErrQueueFull)
}

func TestTaskQueue_MinimumSize(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(0, nil)
	assert.NoError(t, q.Enqueue(newStubTask()))
}

func TestTaskQueue_CloseIsSafe(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(4, nil)
	require.NoError(t, q.Enqueue(newStubTask()))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); q.Close() }()
		go func() { defer wg.Done(); _ = q.Enqueue(newStubTask()) }()
	}
	wg.Wait()

	assert.ErrorIs(t, q.Enqueue(newStubTask()), ErrQueueClosed)

	drained := 0
	for range q.GetChannel() {
		drained++
	}
	assert.GreaterOrEqual(t, drained, 1)
}
