package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/numina/internal/accuracy"
	"github.com/phrazzld/numina/internal/api/shared"
	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/ephemeris"
	"github.com/phrazzld/numina/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/phrazzld/numina/internal/api"

// EphemerisHandler serves ephemeris snapshots and the accuracy report.
type EphemerisHandler struct {
	validator *accuracy.Validator
	reference accuracy.ReferenceTable
	now       func() time.Time
}

// EphemerisOption configures an EphemerisHandler.
type EphemerisOption func(*EphemerisHandler)

// WithEphemerisClock overrides the clock used when no instant is requested.
func WithEphemerisClock(now func() time.Time) EphemerisOption {
	return func(h *EphemerisHandler) {
		h.now = now
	}
}

// NewEphemerisHandler creates a handler validating against reference.
func NewEphemerisHandler(
	validator *accuracy.Validator,
	reference accuracy.ReferenceTable,
	opts ...EphemerisOption,
) *EphemerisHandler {
	if validator == nil {
		validator = accuracy.NewValidator(nil)
	}
	h := &EphemerisHandler{
		validator: validator,
		reference: reference,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetSnapshot handles GET /api/ephemeris?at=&lat=&lon=
func (h *EphemerisHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	at := h.now()
	if raw := q.Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid at: must be RFC3339")
			return
		}
		at = parsed
	}

	observer, err := parseObserver(q.Get("lat"), q.Get("lon"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ephemeris.Compute(at, observer))
}

// GetValidation handles GET /api/ephemeris/validation?format=json|text
func (h *EphemerisHandler) GetValidation(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "text" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid format: must be json or text")
		return
	}

	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "ephemeris.validate")
	defer span.End()
	span.SetAttributes(
		attribute.String("reference.source", h.reference.Source),
		attribute.String("reference.instant", h.reference.Instant.UTC().Format(time.RFC3339)))

	report := h.validator.ValidateReference(h.reference)
	span.SetAttributes(
		attribute.Float64("validation.confidence_percent", report.Summary.ConfidencePercent),
		attribute.String("validation.level", string(report.Summary.Level)),
		attribute.Int("validation.check", report.Summary.Check))

	logger.FromContext(ctx).Info("ephemeris validated",
		"confidence_percent", report.Summary.ConfidencePercent,
		"level", report.Summary.Level)

	if format == "json" {
		shared.RespondWithJSON(w, r, http.StatusOK, report)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := report.WriteText(w); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write report")
		logger.FromContext(ctx).Error("failed to write validation report", "error", err)
	}
}

// parseObserver returns nil when neither coordinate is given.
func parseObserver(rawLat, rawLon string) (*domain.LatLon, error) {
	if rawLat == "" && rawLon == "" {
		return nil, nil
	}
	if rawLat == "" || rawLon == "" {
		return nil, domain.NewValidationError("location", "needs both lat and lon", domain.ErrInvalidLocation)
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, domain.NewValidationError("lat", "is not a number", domain.ErrInvalidLocation)
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return nil, domain.NewValidationError("lon", "is not a number", domain.ErrInvalidLocation)
	}

	loc := domain.LatLon{Lat: lat, Lon: lon}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return &loc, nil
}
