package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/numina/internal/api"
	"github.com/phrazzld/numina/internal/api/shared"
	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/events"
	"github.com/phrazzld/numina/internal/focus"
	"github.com/phrazzld/numina/internal/match"
	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/phrazzld/numina/internal/realm"
	"github.com/phrazzld/numina/internal/store"
	"github.com/phrazzld/numina/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type realmFixture struct {
	handler  *api.RealmHandler
	focus    *focus.Store
	detector *match.Detector
	matches  *store.MemoryMatchStore
	runner   *task.Runner
}

func newRealmFixture(t *testing.T) *realmFixture {
	t.Helper()

	log, _ := logger.NewTestLogger(t)
	emitter := events.NewInMemoryEventEmitter(log)
	focusStore := focus.NewStore(emitter, log)
	matches := store.NewMemoryMatchStore(log)
	detector := match.NewDetector(matches, log)
	emitter.RegisterHandler(detector)

	service := realm.NewService(realm.NewDefaultParams(), log)
	runner := task.NewRunner(service, focusStore, task.DefaultRunnerConfig(), log)

	return &realmFixture{
		handler:  api.NewRealmHandler(focusStore, runner, detector, matches),
		focus:    focusStore,
		detector: detector,
		matches:  matches,
		runner:   runner,
	}
}

func serve(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(shared.SetTraceID(req.Context()))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetRealmInitialState(t *testing.T) {
	t.Parallel()
	f := newRealmFixture(t)

	rec := serve(f.handler.GetRealm, http.MethodGet, "/api/realm", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body["focus"])
	assert.Nil(t, body["realm"])
	assert.Nil(t, body["updated_at"])
	assert.Equal(t, "disabled", body["detector_state"])
	assert.NotContains(t, body, "breakdown")
}

func TestSetFocus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "valid", body: `{"number": 7}`, wantStatus: http.StatusOK},
		{name: "zero", body: `{"number": 0}`, wantStatus: http.StatusBadRequest, wantError: "Focus number must be between 1 and 9"},
		{name: "master number", body: `{"number": 11}`, wantStatus: http.StatusBadRequest, wantError: "Focus number must be between 1 and 9"},
		{name: "missing number", body: `{}`, wantStatus: http.StatusBadRequest, wantError: "Invalid Number: required field"},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantError: "Request body is required"},
		{name: "malformed", body: `{"number":`, wantStatus: http.StatusBadRequest, wantError: "Invalid request format"},
		{name: "unknown field", body: `{"number": 3, "extra": true}`, wantStatus: http.StatusBadRequest, wantError: "Invalid request format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newRealmFixture(t)

			rec := serve(f.handler.SetFocus, http.MethodPut, "/api/focus", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantError != "" {
				resp := decodeError(t, rec)
				assert.Equal(t, tt.wantError, resp.Error)
				assert.NotEmpty(t, resp.TraceID)
				assert.Equal(t, domain.UnsetFocus, f.focus.Snapshot().Focus)
				return
			}

			var body api.RealmResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Focus)
			assert.Equal(t, 7, *body.Focus)
			assert.Equal(t, 7, f.focus.Snapshot().Focus)
		})
	}
}

func TestUpdateLocation(t *testing.T) {
	t.Parallel()
	f := newRealmFixture(t)

	rec := serve(f.handler.UpdateLocation, http.MethodPost, "/api/location", `{"lat": 40.7128, "lon": -74.006}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"recalculating": true}`, rec.Body.String())

	// about 100 m away stays under the movement threshold
	rec = serve(f.handler.UpdateLocation, http.MethodPost, "/api/location", `{"lat": 40.7137, "lon": -74.006}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"recalculating": false}`, rec.Body.String())

	rec = serve(f.handler.UpdateLocation, http.MethodPost, "/api/location", `{"unavailable": true}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"recalculating": false}`, rec.Body.String())
}

func TestUpdateLocationRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "latitude out of range", body: `{"lat": 91.25, "lon": 0}`, wantError: "Invalid location"},
		{name: "longitude missing", body: `{"lat": 10}`, wantError: "Invalid Lon: required field"},
		{name: "empty object", body: `{}`, wantError: "Invalid Lat: required field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newRealmFixture(t)

			rec := serve(f.handler.UpdateLocation, http.MethodPost, "/api/location", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
			assert.NotContains(t, rec.Body.String(), "91.25", "error must not echo coordinates")
		})
	}
}

func TestUpdateActivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "real reading", body: `{"bpm": 72}`, wantStatus: http.StatusAccepted},
		{name: "simulated reading", body: `{"bpm": 90, "simulated": true}`, wantStatus: http.StatusAccepted},
		{name: "unavailable", body: `{"unavailable": true}`, wantStatus: http.StatusAccepted},
		{name: "implausible bpm", body: `{"bpm": 0}`, wantStatus: http.StatusBadRequest},
		{name: "missing bpm", body: `{"simulated": true}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newRealmFixture(t)

			rec := serve(f.handler.UpdateActivity, http.MethodPost, "/api/activity", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestArmDetectorRecordsExistingAlignment(t *testing.T) {
	t.Parallel()
	f := newRealmFixture(t)
	ctx := context.Background()

	require.NoError(t, f.focus.SetFocus(ctx, 5))
	require.NoError(t, f.focus.UpdateRealm(ctx, 5))
	assert.Zero(t, f.matches.Len(), "disabled detector records nothing")

	rec := serve(f.handler.ArmDetector, http.MethodPost, "/api/detector/arm", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.DetectorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, match.Watching, f.detector.State())
	assert.Equal(t, uint64(1), body.Stats.Fired)
	assert.Contains(t, rec.Body.String(), `"state":"watching"`)

	rec = serve(f.handler.ListMatches, http.MethodGet, "/api/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list api.MatchListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 5, list.Matches[0].ChosenNumber)
	assert.Equal(t, 5, list.Matches[0].MatchedNumber)

	// arming again is a no-op
	serve(f.handler.ArmDetector, http.MethodPost, "/api/detector/arm", "")
	assert.Equal(t, 1, f.matches.Len())
}

func TestDisableDetectorSuspendsUntilRearmed(t *testing.T) {
	t.Parallel()
	f := newRealmFixture(t)
	ctx := context.Background()

	require.NoError(t, f.focus.SetFocus(ctx, 4))
	serve(f.handler.ArmDetector, http.MethodPost, "/api/detector/arm", "")
	require.Equal(t, match.Watching, f.detector.State())

	rec := serve(f.handler.DisableDetector, http.MethodPost, "/api/detector/disable", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.DetectorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, match.Disabled, body.State)
	assert.Equal(t, match.Disabled, f.detector.State())

	// alignment while suspended is not recorded
	require.NoError(t, f.focus.UpdateRealm(ctx, 4))
	assert.Zero(t, f.matches.Len())

	// re-arming evaluates the current snapshot and records it once
	serve(f.handler.ArmDetector, http.MethodPost, "/api/detector/arm", "")
	assert.Equal(t, 1, f.matches.Len())
}

func TestListMatches(t *testing.T) {
	t.Parallel()
	f := newRealmFixture(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec, err := domain.NewMatchRecord(4, 4, start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, f.matches.Append(ctx, rec))
	}

	t.Run("empty log renders an empty array", func(t *testing.T) {
		t.Parallel()
		empty := newRealmFixture(t)
		rec := serve(empty.handler.ListMatches, http.MethodGet, "/api/matches", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"matches": [], "count": 0}`, rec.Body.String())
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()
		rec := serve(f.handler.ListMatches, http.MethodGet, "/api/matches?limit=2", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list api.MatchListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Equal(t, 2, list.Count)
		assert.True(t, list.Matches[0].MatchedAt.After(list.Matches[1].MatchedAt), "newest first")
	})

	t.Run("invalid limit", func(t *testing.T) {
		t.Parallel()
		for _, q := range []string{"0", "-3", "ten"} {
			rec := serve(f.handler.ListMatches, http.MethodGet, "/api/matches?limit="+q, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", q)
		}
	})
}

func TestGetRealmAfterRecalculation(t *testing.T) {
	t.Parallel()
	f := newRealmFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, f.runner.Start(ctx))
	defer f.runner.Stop()

	select {
	case <-f.runner.Published():
	case <-time.After(5 * time.Second):
		t.Fatal("first recalculation was not published")
	}

	rec := serve(f.handler.GetRealm, http.MethodGet, "/api/realm", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.RealmResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Realm)
	require.NotNil(t, body.Breakdown)
	assert.Equal(t, *body.Realm, body.Breakdown.Number)
	assert.NotNil(t, body.UpdatedAt)
	assert.True(t, strings.Contains(rec.Body.String(), `"location_source"`))
}
