package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/phrazzld/numina/internal/realm"
)

// ErrRunnerStarted is returned when Start is called twice.
var ErrRunnerStarted = errors.New("runner already started")

// Calculator is the stateful realm service the runner drives.
type Calculator interface {
	RealmCalculator
	SetLocation(loc *domain.LatLon) error
	SetActivity(input domain.ActivityInput) error
}

// RunnerConfig holds configuration for the recalculation runner
type RunnerConfig struct {
	// Interval between scheduled recalculations
	Interval time.Duration

	// MovementThresholdMeters is the distance from the last location that
	// triggered a recalculation beyond which a new one is enqueued
	MovementThresholdMeters float64

	// QueueSize bounds the number of pending recalculations
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Interval:                time.Minute,
		MovementThresholdMeters: 500,
		QueueSize:               16,
	}
}

// Runner schedules recalculations and executes them one at a time.
type Runner struct {
	calc      Calculator
	publisher RealmPublisher
	config    RunnerConfig
	logger    *slog.Logger
	now       func() time.Time

	queue *TaskQueue
	wg    sync.WaitGroup

	mu          sync.Mutex
	started     bool
	stopped     bool
	cancel      context.CancelFunc
	anchor      *domain.LatLon
	lastResult  *realm.Result
	lastRunAt   time.Time
	published   chan struct{}
	publishOnce sync.Once
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerClock overrides the time source handed to recalculations.
func WithRunnerClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a stopped runner. Zero config fields take their defaults.
func NewRunner(
	calc Calculator,
	publisher RealmPublisher,
	config RunnerConfig,
	log *slog.Logger,
	opts ...RunnerOption,
) *Runner {
	defaults := DefaultRunnerConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.MovementThresholdMeters <= 0 {
		config.MovementThresholdMeters = defaults.MovementThresholdMeters
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "recalculation_runner")

	r := &Runner{
		calc:      calc,
		publisher: publisher,
		config:    config,
		logger:    log,
		now:       time.Now,
		queue:     NewTaskQueue(config.QueueSize, log),
		published: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the worker and the interval ticker and enqueues an
// initial recalculation. The runner stops when ctx is cancelled or Stop is
// called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrRunnerStarted
	}
	r.started = true
	ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	r.wg.Add(2)
	go r.worker(ctx)
	go r.ticker(ctx)

	r.logger.Info("recalculation runner started",
		"interval", r.config.Interval,
		"movement_threshold_m", r.config.MovementThresholdMeters)

	return r.enqueue(TriggerStartup)
}

// Stop cancels in-flight work, waits for the goroutines and closes the
// queue. The last published realm number is left untouched.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	cancel := r.cancel
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
	r.queue.Close()
	r.logger.Info("recalculation runner stopped")
}

// Published is closed after the first recalculation has been published.
func (r *Runner) Published() <-chan struct{} {
	return r.published
}

// LastResult returns the breakdown of the most recent published realm.
func (r *Runner) LastResult() (realm.Result, time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastResult == nil {
		return realm.Result{}, time.Time{}, false
	}
	return *r.lastResult, r.lastRunAt, true
}

// TriggerNow enqueues a recalculation immediately.
func (r *Runner) TriggerNow() error {
	return r.enqueue(TriggerManual)
}

// UpdateLocation hands a new fix to the calculator. A recalculation is
// enqueued when this is the first fix or it lies further than the
// movement threshold from the fix that last triggered one. A nil location
// marks the input unavailable and never triggers.
func (r *Runner) UpdateLocation(loc *domain.LatLon) (bool, error) {
	if err := r.calc.SetLocation(loc); err != nil {
		return false, err
	}
	if loc == nil {
		return false, nil
	}

	r.mu.Lock()
	moved := r.anchor == nil || domain.DistanceMeters(*r.anchor, *loc) > r.config.MovementThresholdMeters
	if moved {
		copied := *loc
		r.anchor = &copied
	}
	r.mu.Unlock()

	if !moved {
		return false, nil
	}
	return true, r.enqueue(TriggerMovement)
}

// UpdateActivity hands a new activity reading to the calculator; it is
// picked up by the next recalculation.
func (r *Runner) UpdateActivity(input domain.ActivityInput) error {
	return r.calc.SetActivity(input)
}

func (r *Runner) enqueue(trigger Trigger) error {
	t := NewRecalculationTask(trigger, r.calc, r.publisher, r.now, r.logger)
	if err := r.queue.Enqueue(t); err != nil {
		if errors.Is(err, ErrQueueFull) {
			// a pending recalculation already covers this request
			r.logger.Debug("recalculation already pending", "trigger", trigger)
			return nil
		}
		return err
	}
	return nil
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-r.queue.GetChannel():
			if !ok {
				return
			}
			r.process(ctx, t)
		}
	}
}

func (r *Runner) process(ctx context.Context, t Task) {
	log := r.logger.With("task_id", t.ID(), "task_type", t.Type())

	err := t.Execute(logger.WithLogger(ctx, log))
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug("task cancelled")
		return
	default:
		log.Error("task execution failed", "error", err)
		return
	}

	rt, ok := t.(*RecalculationTask)
	if !ok {
		return
	}
	if res, ok := rt.Result(); ok {
		r.mu.Lock()
		r.lastResult = &res
		r.lastRunAt = res.At
		r.mu.Unlock()
	}
	r.publishOnce.Do(func() { close(r.published) })
}

func (r *Runner) ticker(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.enqueue(TriggerInterval); err != nil {
				r.logger.Warn("failed to enqueue scheduled recalculation", "error", err)
			}
		}
	}
}
