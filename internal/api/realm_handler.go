package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/numina/internal/api/shared"
	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/events"
	"github.com/phrazzld/numina/internal/focus"
	"github.com/phrazzld/numina/internal/match"
	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/phrazzld/numina/internal/realm"
	"github.com/phrazzld/numina/internal/redact"
	"github.com/phrazzld/numina/internal/store"
)

// Match log paging limits.
const (
	DefaultMatchLimit = 50
	MaxMatchLimit     = 1000
)

// FocusStore is the subset of focus.Store the handlers use.
type FocusStore interface {
	Snapshot() focus.State
	SetFocus(ctx context.Context, n int) error
}

// RealmEngine feeds inputs to the recalculation runner.
type RealmEngine interface {
	LastResult() (realm.Result, time.Time, bool)
	UpdateLocation(loc *domain.LatLon) (bool, error)
	UpdateActivity(input domain.ActivityInput) error
}

// MatchDetector is the subset of match.Detector the handlers use.
type MatchDetector interface {
	State() match.State
	Stats() match.Stats
	Arm(ctx context.Context, current *events.ChangeEvent)
	Disable(ctx context.Context)
}

// RealmHandler serves focus, realm, input and match log endpoints.
type RealmHandler struct {
	focus    FocusStore
	engine   RealmEngine
	detector MatchDetector
	matches  store.MatchRecordStore
}

// NewRealmHandler creates a new RealmHandler.
func NewRealmHandler(
	focusStore FocusStore,
	engine RealmEngine,
	detector MatchDetector,
	matches store.MatchRecordStore,
) *RealmHandler {
	return &RealmHandler{
		focus:    focusStore,
		engine:   engine,
		detector: detector,
		matches:  matches,
	}
}

// GetRealm handles GET /api/realm
func (h *RealmHandler) GetRealm(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.realmResponse())
}

// SetFocus handles PUT /api/focus
func (h *RealmHandler) SetFocus(w http.ResponseWriter, r *http.Request) {
	var req FocusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.focus.SetFocus(r.Context(), *req.Number); err != nil {
		HandleAPIError(w, r, err, "Failed to set focus")
		return
	}

	logger.FromContext(r.Context()).Info("focus number updated", "focus", *req.Number)
	shared.RespondWithJSON(w, r, http.StatusOK, h.realmResponse())
}

// UpdateLocation handles POST /api/location
func (h *RealmHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var loc *domain.LatLon
	if !req.Unavailable {
		loc = &domain.LatLon{Lat: *req.Lat, Lon: *req.Lon}
	}

	triggered, err := h.engine.UpdateLocation(loc)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update location")
		return
	}

	log := logger.FromContext(r.Context())
	if loc != nil {
		log.Debug("location updated",
			"location", redact.Coordinates(loc.Lat, loc.Lon),
			"recalculating", triggered)
	} else {
		log.Debug("location marked unavailable")
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, LocationResponse{Recalculating: triggered})
}

// UpdateActivity handles POST /api/activity
func (h *RealmHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input := req.Input()
	if err := h.engine.UpdateActivity(input); err != nil {
		HandleAPIError(w, r, err, "Failed to update activity")
		return
	}

	logger.FromContext(r.Context()).Debug("activity updated", "activity", input.String())
	w.WriteHeader(http.StatusAccepted)
}

// ArmDetector handles POST /api/detector/arm. The current snapshot is
// evaluated at once, so an existing alignment is recorded.
func (h *RealmHandler) ArmDetector(w http.ResponseWriter, r *http.Request) {
	h.detector.Arm(r.Context(), h.focus.Snapshot().Event())
	shared.RespondWithJSON(w, r, http.StatusOK, DetectorResponse{
		State: h.detector.State(),
		Stats: h.detector.Stats(),
	})
}

// DisableDetector handles POST /api/detector/disable, the suspend signal.
// Detection stops until the detector is armed again.
func (h *RealmHandler) DisableDetector(w http.ResponseWriter, r *http.Request) {
	h.detector.Disable(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, DetectorResponse{
		State: h.detector.State(),
		Stats: h.detector.Stats(),
	})
}

// ListMatches handles GET /api/matches?limit=
func (h *RealmHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	limit := DefaultMatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit: must be a positive integer")
			return
		}
		limit = min(n, MaxMatchLimit)
	}

	records, err := h.matches.List(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list matches")
		return
	}
	if records == nil {
		records = []domain.MatchRecord{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MatchListResponse{
		Matches: records,
		Count:   len(records),
	})
}

func (h *RealmHandler) realmResponse() RealmResponse {
	state := h.focus.Snapshot()
	resp := RealmResponse{DetectorState: h.detector.State()}

	if state.HasFocus() {
		resp.Focus = &state.Focus
	}
	if state.HasRealm() {
		resp.Realm = &state.Realm
	}
	if !state.UpdatedAt.IsZero() {
		resp.UpdatedAt = &state.UpdatedAt
	}
	if res, _, ok := h.engine.LastResult(); ok {
		resp.Breakdown = &res
	}
	return resp
}

// decodeAndValidate parses and validates a JSON body, writing a 400 on
// failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		if MapErrorToStatusCode(err) == http.StatusBadRequest {
			HandleAPIError(w, r, err, "")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
