// Package focus holds the user's focus number and the latest realm number
// and publishes a ChangeEvent whenever either actually changes.
//
// Each value has a single writer: SetFocus is driven by explicit user action
// and UpdateRealm by the recalculation task. Publishes are serialized, so
// subscribers observe changes in exactly the order they were applied.
package focus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/events"
	"github.com/phrazzld/numina/internal/platform/logger"
)

// State is a consistent snapshot of the store.
type State struct {
	Focus     int       `json:"focus"`
	Realm     int       `json:"realm"`
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updated_at"`

	// LastChange is the kind of the change that produced Seq.
	LastChange events.ChangeKind `json:"last_change,omitempty"`
}

// HasFocus reports whether the user has chosen a focus number.
func (s State) HasFocus() bool {
	return s.Focus != domain.UnsetFocus
}

// HasRealm reports whether a realm number has been computed.
func (s State) HasRealm() bool {
	return s.Realm != domain.UnknownRealm
}

// Event returns the snapshot as a change event, or nil before the first
// change. It is used to seed consumers that attach after startup.
func (s State) Event() *events.ChangeEvent {
	if s.Seq == 0 {
		return nil
	}
	return events.NewChangeEvent(s.Seq, s.LastChange, s.Focus, s.Realm, s.UpdatedAt)
}

// Store owns the focus and realm numbers.
type Store struct {
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time

	// publishMu serializes apply-and-publish so events leave in seq order.
	publishMu sync.Mutex

	mu    sync.RWMutex
	state State
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store with no focus and an unknown realm.
func NewStore(emitter events.EventEmitter, log *slog.Logger, opts ...Option) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		emitter: emitter,
		logger:  log.With("component", "focus_store"),
		now:     time.Now,
		state: State{
			Focus: domain.UnsetFocus,
			Realm: domain.UnknownRealm,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetFocus sets the focus number. Values outside 1..9 are rejected without
// altering the store. Setting the current value again publishes nothing.
func (s *Store) SetFocus(ctx context.Context, n int) error {
	if err := domain.ValidateFocus(n); err != nil {
		return err
	}
	return s.apply(ctx, events.FocusChanged, func(st *State) bool {
		if st.Focus == n {
			return false
		}
		st.Focus = n
		return true
	})
}

// UpdateRealm records a newly computed realm number. Invalid values are
// rejected; an unchanged value publishes nothing.
func (s *Store) UpdateRealm(ctx context.Context, n int) error {
	if err := domain.ValidateRealm(n); err != nil {
		return err
	}
	return s.apply(ctx, events.RealmChanged, func(st *State) bool {
		if st.Realm == n {
			return false
		}
		st.Realm = n
		return true
	})
}

// apply mutates the state under lock and, if it changed, publishes the
// resulting snapshot. Subscriber errors are logged; the change stands.
func (s *Store) apply(ctx context.Context, kind events.ChangeKind, mutate func(*State) bool) error {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	next := s.state
	if !mutate(&next) {
		s.mu.Unlock()
		return nil
	}
	next.Seq++
	next.UpdatedAt = s.now().UTC()
	next.LastChange = kind
	s.state = next
	s.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("state changed",
		"kind", kind,
		"seq", next.Seq,
		"focus", next.Focus,
		"realm", next.Realm)

	if s.emitter == nil {
		return nil
	}
	event := events.NewChangeEvent(next.Seq, kind, next.Focus, next.Realm, next.UpdatedAt)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("change subscribers reported an error",
			"kind", kind,
			"seq", next.Seq,
			"error", err)
	}
	return nil
}
