package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/platform/logger"
)

// MemoryMatchStore keeps the match log in process memory.
type MemoryMatchStore struct {
	logger *slog.Logger

	mu      sync.RWMutex
	records []domain.MatchRecord
	ids     map[uuid.UUID]struct{}
}

var _ MatchRecordStore = (*MemoryMatchStore)(nil)

// NewMemoryMatchStore creates an empty in-memory match log.
// If logger is nil, a default logger will be used.
func NewMemoryMatchStore(log *slog.Logger) *MemoryMatchStore {
	if log == nil {
		log = slog.Default()
	}
	return &MemoryMatchStore{
		logger: log.With(slog.String("component", "memory_match_store")),
		ids:    make(map[uuid.UUID]struct{}),
	}
}

// Append implements MatchRecordStore.Append.
func (s *MemoryMatchStore) Append(ctx context.Context, rec *domain.MatchRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if rec == nil {
		return NewStoreError(MatchEntity, "append", "record is nil", ErrInvalidEntity)
	}
	if err := rec.Validate(); err != nil {
		return NewStoreError(MatchEntity, "append", "validation failed",
			fmt.Errorf("%w: %w", ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[rec.ID]; ok {
		return NewStoreError(MatchEntity, "append", rec.ID.String(), ErrMatchRecordExists)
	}
	if n := len(s.records); n > 0 && rec.MatchedAt.Before(s.records[n-1].MatchedAt) {
		return NewStoreError(MatchEntity, "append", "timestamp precedes latest record", ErrOutOfOrder)
	}

	s.records = append(s.records, *rec)
	s.ids[rec.ID] = struct{}{}

	log.Debug("match record appended",
		slog.String("match_id", rec.ID.String()),
		slog.Int("chosen", rec.ChosenNumber),
		slog.Int("matched", rec.MatchedNumber))
	return nil
}

// List implements MatchRecordStore.List.
func (s *MemoryMatchStore) List(_ context.Context, limit int) ([]domain.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]domain.MatchRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryMatchStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
