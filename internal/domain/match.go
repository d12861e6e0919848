package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchRecord is one entry in the append-only match log. Exactly one record
// is written per transition into equality between focus and realm numbers.
type MatchRecord struct {
	ID            uuid.UUID `json:"id"`
	MatchedAt     time.Time `json:"matched_at"`
	ChosenNumber  int       `json:"chosen_number"`
	MatchedNumber int       `json:"matched_number"`
}

// NewMatchRecord creates a record stamped with the given instant in UTC.
func NewMatchRecord(chosen, matched int, at time.Time) (*MatchRecord, error) {
	rec := &MatchRecord{
		ID:            uuid.New(),
		MatchedAt:     at.UTC(),
		ChosenNumber:  chosen,
		MatchedNumber: matched,
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks if the MatchRecord has valid data.
func (r *MatchRecord) Validate() error {
	if r.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidMatchRecord)
	}

	if r.MatchedAt.IsZero() {
		return NewValidationError("matched_at", "cannot be zero", ErrInvalidMatchRecord)
	}

	if err := ValidateFocus(r.ChosenNumber); err != nil {
		return NewValidationError("chosen_number", "is out of range", ErrInvalidMatchRecord)
	}

	if err := ValidateRealm(r.MatchedNumber); err != nil {
		return NewValidationError("matched_number", "is out of range", ErrInvalidMatchRecord)
	}

	return nil
}
