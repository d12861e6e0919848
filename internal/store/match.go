package store

import (
	"context"

	"github.com/phrazzld/numina/internal/domain"
)

// MatchEntity is the entity name used in StoreError values for match records.
const MatchEntity = "match_record"

// MatchRecordStore is the append-only log of focus/realm matches.
//
// Implementations must keep records in timestamp order: Append rejects a
// record older than the newest stored one with ErrOutOfOrder. Records with
// equal timestamps are allowed.
type MatchRecordStore interface {
	// Append validates and stores a record. Validation failures wrap
	// ErrInvalidEntity, a reused ID wraps ErrDuplicate.
	Append(ctx context.Context, rec *domain.MatchRecord) error

	// List returns up to limit records, newest first. A limit of zero or
	// less returns the whole log.
	List(ctx context.Context, limit int) ([]domain.MatchRecord, error)
}
