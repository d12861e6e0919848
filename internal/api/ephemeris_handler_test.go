package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/numina/internal/accuracy"
	"github.com/phrazzld/numina/internal/api"
	"github.com/phrazzld/numina/internal/ephemeris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var fixedInstant = time.Date(2024, 3, 15, 14, 27, 0, 0, time.UTC)

func newEphemerisHandler() *api.EphemerisHandler {
	return api.NewEphemerisHandler(nil, accuracy.DefaultReferenceTable(),
		api.WithEphemerisClock(func() time.Time { return fixedInstant }))
}

func TestGetSnapshot(t *testing.T) {
	t.Parallel()
	h := newEphemerisHandler()

	t.Run("defaults to now without observer", func(t *testing.T) {
		t.Parallel()
		rec := serve(h.GetSnapshot, http.MethodGet, "/api/ephemeris", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var snap ephemeris.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		assert.True(t, snap.At.Equal(fixedInstant))
		assert.Nil(t, snap.Observer)
		assert.Nil(t, snap.Ascendant)
		assert.NotEmpty(t, snap.Planets)
	})

	t.Run("explicit instant and observer", func(t *testing.T) {
		t.Parallel()
		rec := serve(h.GetSnapshot, http.MethodGet,
			"/api/ephemeris?at=2000-01-01T12:00:00Z&lat=51.5&lon=-0.12", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var snap ephemeris.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		assert.Equal(t, 2000, snap.At.Year())
		require.NotNil(t, snap.Observer)
		assert.NotNil(t, snap.Ascendant)
		assert.NotNil(t, snap.LocalSiderealTime)
		assert.InDelta(t, 2451545.0, snap.JulianDay, 1e-6)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		t.Parallel()
		for _, target := range []string{
			"/api/ephemeris?at=yesterday",
			"/api/ephemeris?lat=10",
			"/api/ephemeris?lat=abc&lon=1",
			"/api/ephemeris?lat=10&lon=200",
		} {
			rec := serve(h.GetSnapshot, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})
}

func TestGetValidationJSON(t *testing.T) {
	t.Parallel()

	rec := serve(newEphemerisHandler().GetValidation, http.MethodGet, "/api/ephemeris/validation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report accuracy.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, accuracy.DefaultReferenceTable().Source, report.Source)
	assert.NotEmpty(t, report.Entries)
	assert.NotEmpty(t, report.Summary.Level)
}

func TestGetValidationText(t *testing.T) {
	t.Parallel()

	rec := serve(newEphemerisHandler().GetValidation, http.MethodGet, "/api/ephemeris/validation?format=text", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "Ephemeris validation report")
	assert.Contains(t, rec.Body.String(), "Confidence:")
}

func TestGetValidationRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	rec := serve(newEphemerisHandler().GetValidation, http.MethodGet, "/api/ephemeris/validation?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Not parallel: swaps the global tracer provider.
func TestGetValidationRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	rec := serve(newEphemerisHandler().GetValidation, http.MethodGet, "/api/ephemeris/validation", "")
	require.Equal(t, http.StatusOK, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "ephemeris.validate", spans[0].Name())

	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, accuracy.DefaultReferenceTable().Source, attrs["reference.source"])
	assert.Contains(t, attrs, "validation.level")
}
