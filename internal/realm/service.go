package realm

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/phrazzld/numina/internal/redact"
)

// Service computes realm numbers from the latest inputs supplied by
// collaborators. Inputs may be replaced concurrently with Calculate.
type Service struct {
	params *Params
	logger *slog.Logger

	mu       sync.Mutex
	location *domain.LatLon
	activity domain.ActivityInput

	lastLocationFactor *int
	lastActivityFactor *int
}

// NewService creates a realm service. A nil params uses the defaults.
func NewService(params *Params, log *slog.Logger) *Service {
	if params == nil {
		params = NewDefaultParams()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		params:   params,
		logger:   log.With(slog.String("component", "realm_service")),
		activity: domain.NoActivity(),
	}
}

// Params returns the parameters the service was built with.
func (s *Service) Params() *Params {
	return s.params
}

// SetLocation replaces the current location. A nil location marks it
// unavailable. Invalid coordinates are rejected and also mark it unavailable,
// so a bad fix never contributes digits.
func (s *Service) SetLocation(loc *domain.LatLon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loc == nil {
		s.location = nil
		return nil
	}
	if err := loc.Validate(); err != nil {
		s.location = nil
		s.logger.Warn("rejected location input",
			slog.String("location", redact.Coordinates(loc.Lat, loc.Lon)),
			slog.String("error", err.Error()))
		return err
	}

	copied := *loc
	s.location = &copied
	return nil
}

// SetActivity replaces the current activity input. Invalid readings are
// rejected and leave the input unavailable.
func (s *Service) SetActivity(input domain.ActivityInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := input.Validate(); err != nil {
		s.activity = domain.NoActivity()
		s.logger.Warn("rejected activity input",
			slog.String("source", string(input.Source())),
			slog.String("error", err.Error()))
		return err
	}
	s.activity = input
	return nil
}

// Location returns a copy of the current location, or nil.
func (s *Service) Location() *domain.LatLon {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.location == nil {
		return nil
	}
	copied := *s.location
	return &copied
}

// Calculate computes the realm number for at using the current inputs.
// Missing inputs fall back to the last computed factor, then the neutral one.
func (s *Service) Calculate(ctx context.Context, at time.Time) Result {
	s.mu.Lock()
	locationFactor, locationSource := s.locationFactorLocked()
	activityFactor, activitySource := s.activityFactorLocked()
	activity := s.activity
	s.mu.Unlock()

	result := compose(at, locationFactor, activityFactor, s.params)
	result.LocationSource = locationSource
	result.ActivitySource = activitySource

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("realm number calculated",
		slog.Int("realm", result.Number),
		slog.Int("sum", result.Sum),
		slog.Int("location_factor", result.LocationFactor),
		slog.String("location_source", string(result.LocationSource)),
		slog.Int("activity_factor", result.ActivityFactor),
		slog.String("activity_source", string(result.ActivitySource)),
		slog.String("activity_input", activity.String()),
		slog.Int("celestial_factor", result.CelestialFactor))

	return result
}

func (s *Service) locationFactorLocked() (int, FactorSource) {
	if s.location != nil {
		factor := LocationFactor(*s.location, s.params.CoordinatePrecision)
		s.lastLocationFactor = &factor
		return factor, SourceMeasured
	}
	if s.lastLocationFactor != nil {
		return *s.lastLocationFactor, SourceRemembered
	}
	return s.params.NeutralLocationFactor, SourceNeutral
}

func (s *Service) activityFactorLocked() (int, FactorSource) {
	if s.activity.Available() {
		factor := ActivityFactor(s.activity.BPM())
		s.lastActivityFactor = &factor
		return factor, SourceMeasured
	}
	if s.lastActivityFactor != nil {
		return *s.lastActivityFactor, SourceRemembered
	}
	return s.params.NeutralActivityFactor, SourceNeutral
}
