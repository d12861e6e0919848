package api

import (
	"time"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/match"
	"github.com/phrazzld/numina/internal/realm"
)

// FocusRequest defines the payload for choosing a focus number.
type FocusRequest struct {
	Number *int `json:"number" validate:"required"`
}

// LocationRequest defines the payload for a location fix. Setting
// Unavailable clears the fix; otherwise both coordinates are required.
type LocationRequest struct {
	Lat         *float64 `json:"lat"         validate:"required_without=Unavailable"`
	Lon         *float64 `json:"lon"         validate:"required_without=Unavailable"`
	Unavailable bool     `json:"unavailable"`
}

// ActivityRequest defines the payload for an activity reading.
type ActivityRequest struct {
	BPM         *int `json:"bpm"         validate:"required_without=Unavailable"`
	Simulated   bool `json:"simulated"`
	Unavailable bool `json:"unavailable"`
}

// Input converts the request into a domain reading.
func (r ActivityRequest) Input() domain.ActivityInput {
	switch {
	case r.Unavailable || r.BPM == nil:
		return domain.NoActivity()
	case r.Simulated:
		return domain.SimulatedActivity(*r.BPM)
	default:
		return domain.RealActivity(*r.BPM)
	}
}

// RealmResponse is the current state of focus, realm and detector. Focus
// and Realm are null until they have been set.
type RealmResponse struct {
	Focus         *int          `json:"focus"`
	Realm         *int          `json:"realm"`
	DetectorState match.State   `json:"detector_state"`
	UpdatedAt     *time.Time    `json:"updated_at"`
	Breakdown     *realm.Result `json:"breakdown,omitempty"`
}

// LocationResponse reports whether a location fix triggered a recalculation.
type LocationResponse struct {
	Recalculating bool `json:"recalculating"`
}

// DetectorResponse describes the match detector.
type DetectorResponse struct {
	State match.State `json:"state"`
	Stats match.Stats `json:"stats"`
}

// MatchListResponse is the match log, newest first.
type MatchListResponse struct {
	Matches []domain.MatchRecord `json:"matches"`
	Count   int                  `json:"count"`
}
