package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/phrazzld/numina/internal/realm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/phrazzld/numina/internal/task"

// RealmCalculator computes a realm number for an instant.
type RealmCalculator interface {
	Calculate(ctx context.Context, at time.Time) realm.Result
}

// RealmPublisher receives newly computed realm numbers.
type RealmPublisher interface {
	UpdateRealm(ctx context.Context, n int) error
}

// RecalculationTask computes the realm number once and publishes it.
type RecalculationTask struct {
	id        uuid.UUID
	trigger   Trigger
	calc      RealmCalculator
	publisher RealmPublisher
	now       func() time.Time
	logger    *slog.Logger

	mu     sync.Mutex
	status TaskStatus
	result *realm.Result
}

var _ Task = (*RecalculationTask)(nil)

// NewRecalculationTask creates a pending recalculation.
func NewRecalculationTask(
	trigger Trigger,
	calc RealmCalculator,
	publisher RealmPublisher,
	now func() time.Time,
	log *slog.Logger,
) *RecalculationTask {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &RecalculationTask{
		id:        uuid.New(),
		trigger:   trigger,
		calc:      calc,
		publisher: publisher,
		now:       now,
		logger:    log,
		status:    TaskStatusPending,
	}
}

// ID returns the task's unique identifier
func (t *RecalculationTask) ID() uuid.UUID { return t.id }

// Type returns TaskTypeRecalculation.
func (t *RecalculationTask) Type() string { return TaskTypeRecalculation }

// Trigger returns why the task was created.
func (t *RecalculationTask) Trigger() Trigger { return t.trigger }

// Status returns the current task status
func (t *RecalculationTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Result returns the computed breakdown once the task has run.
func (t *RecalculationTask) Result() (realm.Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.result == nil {
		return realm.Result{}, false
	}
	return *t.result, true
}

func (t *RecalculationTask) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute computes the realm number and publishes it. A context cancelled
// before the publish leaves the previous realm number in place.
func (t *RecalculationTask) Execute(ctx context.Context) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "realm.recalculate")
	defer span.End()
	span.SetAttributes(attribute.String("trigger", string(t.trigger)))

	log := logger.FromContextOrDefault(ctx, t.logger).With(
		"task_id", t.id,
		"trigger", t.trigger)

	if err := ctx.Err(); err != nil {
		t.setStatus(TaskStatusCancelled)
		span.SetStatus(codes.Error, "cancelled")
		return err
	}
	t.setStatus(TaskStatusProcessing)

	res := t.calc.Calculate(ctx, t.now())
	t.mu.Lock()
	t.result = &res
	t.mu.Unlock()

	span.SetAttributes(
		attribute.Int("realm.number", res.Number),
		attribute.Int("realm.sum", res.Sum),
		attribute.String("realm.location_source", string(res.LocationSource)),
		attribute.String("realm.activity_source", string(res.ActivitySource)))

	if err := ctx.Err(); err != nil {
		log.Debug("recalculation cancelled before publish", "realm", res.Number)
		t.setStatus(TaskStatusCancelled)
		span.SetStatus(codes.Error, "cancelled")
		return err
	}

	if err := t.publisher.UpdateRealm(ctx, res.Number); err != nil {
		t.setStatus(TaskStatusFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("publish realm %d: %w", res.Number, err)
	}

	log.Debug("realm recalculated",
		"realm", res.Number,
		"sum", res.Sum,
		"location_source", res.LocationSource,
		"activity_source", res.ActivitySource)
	t.setStatus(TaskStatusCompleted)
	return nil
}
