package match

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/events"
	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/phrazzld/numina/internal/store"
)

// State is the detector's lifecycle state.
type State int32

// Detector states
const (
	Disabled State = iota
	Armed
	Watching
	MatchFired
)

// String returns the state name used in logs and API responses.
func (s State) String() string {
	switch s {
	case Disabled:
		return "disabled"
	case Armed:
		return "armed"
	case Watching:
		return "watching"
	case MatchFired:
		return "match_fired"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// MarshalText lets State render as its name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{Disabled, Armed, Watching, MatchFired} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown detector state %q", text)
}

// Stats counts what the detector has seen since construction.
type Stats struct {
	Evaluated       uint64 `json:"evaluated"`
	Fired           uint64 `json:"fired"`
	IgnoredWhileOff uint64 `json:"ignored_while_disabled"`
	OutOfOrder      uint64 `json:"out_of_order"`
	AppendFailures  uint64 `json:"append_failures"`
}

// Listener is called after a match has been detected, whether or not the
// append succeeded.
type Listener func(ctx context.Context, rec domain.MatchRecord)

// Detector implements events.EventHandler.
type Detector struct {
	log    store.MatchRecordStore
	logger *slog.Logger

	state atomic.Int32

	mu        sync.Mutex
	lastSeq   uint64
	wasEqual  bool
	stats     Stats
	listeners []Listener
}

var _ events.EventHandler = (*Detector)(nil)

// NewDetector creates a Disabled detector appending to matchLog.
func NewDetector(matchLog store.MatchRecordStore, log *slog.Logger) *Detector {
	if matchLog == nil {
		panic("match log cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	d := &Detector{
		log:    matchLog,
		logger: log.With(slog.String("component", "match_detector")),
	}
	d.state.Store(int32(Disabled))
	return d
}

// State returns the current lifecycle state.
func (d *Detector) State() State {
	return State(d.state.Load())
}

// Stats returns a copy of the counters.
func (d *Detector) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// OnMatch registers a listener. Listeners run synchronously in
// registration order on the publishing goroutine, while the focus store
// is still publishing. A listener must not call SetFocus or UpdateRealm
// directly, as that blocks on the same publish; hand such work to another
// goroutine instead.
func (d *Detector) OnMatch(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Arm is the startup-complete signal. It moves a Disabled detector to
// Armed; any other state is left alone. When current is non-nil it is
// evaluated straight away, so a focus that already equals the realm at
// startup is recorded once.
func (d *Detector) Arm(ctx context.Context, current *events.ChangeEvent) {
	d.mu.Lock()
	if !d.state.CompareAndSwap(int32(Disabled), int32(Armed)) {
		d.mu.Unlock()
		return
	}
	d.wasEqual = false
	d.mu.Unlock()

	logger.FromContextOrDefault(ctx, d.logger).Info("match detector armed")

	if current != nil {
		d.handle(ctx, current, true)
	}
}

// Disable stops detection and forgets the last comparison, so the first
// equal snapshot after re-arming fires again.
func (d *Detector) Disable(ctx context.Context) {
	d.mu.Lock()
	d.state.Store(int32(Disabled))
	d.wasEqual = false
	d.mu.Unlock()

	logger.FromContextOrDefault(ctx, d.logger).Info("match detector disabled")
}

// HandleEvent compares the focus and realm carried by the event. It never
// returns an error: append failures are logged and counted, and detection
// carries on with the next event.
func (d *Detector) HandleEvent(ctx context.Context, event *events.ChangeEvent) error {
	if event != nil {
		d.handle(ctx, event, false)
	}
	return nil
}

// handle evaluates one snapshot. A seed may repeat the last seen sequence
// number because it describes the state that event already reported.
func (d *Detector) handle(ctx context.Context, event *events.ChangeEvent, seed bool) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	rec, listeners := d.evaluate(ctx, log, event, seed)
	if rec == nil {
		return
	}
	for _, l := range listeners {
		l(ctx, *rec)
	}
}

func (d *Detector) evaluate(
	ctx context.Context,
	log *slog.Logger,
	event *events.ChangeEvent,
	seed bool,
) (*domain.MatchRecord, []Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.State() == Disabled {
		d.stats.IgnoredWhileOff++
		return nil, nil
	}

	if event.Seq < d.lastSeq || (event.Seq == d.lastSeq && !seed) {
		d.stats.OutOfOrder++
		log.Warn("dropping out-of-order change event",
			slog.Uint64("seq", event.Seq),
			slog.Uint64("last_seq", d.lastSeq))
		return nil, nil
	}
	d.lastSeq = event.Seq
	d.stats.Evaluated++

	if !event.Aligned() {
		d.wasEqual = false
		d.state.Store(int32(Watching))
		return nil, nil
	}
	if d.wasEqual {
		d.state.Store(int32(Watching))
		return nil, nil
	}

	d.wasEqual = true
	d.state.Store(int32(MatchFired))
	rec := d.fire(ctx, log, event)
	d.state.Store(int32(Watching))

	if rec == nil {
		return nil, nil
	}
	return rec, append([]Listener(nil), d.listeners...)
}

// fire builds and appends the record; caller holds d.mu. The episode counts
// as fired even when the append fails so it is not retried on every tick.
func (d *Detector) fire(ctx context.Context, log *slog.Logger, event *events.ChangeEvent) *domain.MatchRecord {
	d.stats.Fired++

	rec, err := domain.NewMatchRecord(event.Focus, event.Realm, event.OccurredAt)
	if err != nil {
		d.stats.AppendFailures++
		log.Error("could not build match record",
			slog.String("error", err.Error()),
			slog.Uint64("seq", event.Seq))
		return nil
	}

	if err := d.log.Append(ctx, rec); err != nil {
		d.stats.AppendFailures++
		log.Error("failed to append match record",
			slog.String("error", err.Error()),
			slog.String("match_id", rec.ID.String()),
			slog.Int("number", rec.MatchedNumber))
		return rec
	}

	log.Info("focus matched realm",
		slog.String("match_id", rec.ID.String()),
		slog.Int("number", rec.MatchedNumber),
		slog.Uint64("seq", event.Seq))
	return rec
}
