package realm

import (
	"fmt"
	"time"
)

// DefaultCoordinatePrecision is the number of decimals kept from each
// coordinate, roughly eleven metres at the equator.
const DefaultCoordinatePrecision = 4

// Params defines the configurable parts of the realm formula
type Params struct {
	// Zone in which hour, minute, day and month are read
	Zone *time.Location

	// IncludeCelestial adds the Sun sign and lunar phase factor to the sum
	IncludeCelestial bool

	// Factors used when an input has never been available
	NeutralLocationFactor int
	NeutralActivityFactor int

	// Decimals of each coordinate that contribute digits
	CoordinatePrecision int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	TimeZone              string
	IncludeCelestial      bool
	NeutralLocationFactor int
	NeutralActivityFactor int

	// CoordinatePrecision overrides the default when non-nil; 0 keeps
	// whole degrees only.
	CoordinatePrecision *int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Zone:                  time.UTC,
		IncludeCelestial:      false,
		NeutralLocationFactor: 0,
		NeutralActivityFactor: 0,
		CoordinatePrecision:   DefaultCoordinatePrecision,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.TimeZone != "" {
		zone, err := time.LoadLocation(config.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid time zone %q: %w", config.TimeZone, err)
		}
		params.Zone = zone
	}

	params.IncludeCelestial = config.IncludeCelestial

	if config.NeutralLocationFactor > 0 {
		params.NeutralLocationFactor = config.NeutralLocationFactor
	}
	if config.NeutralActivityFactor > 0 {
		params.NeutralActivityFactor = config.NeutralActivityFactor
	}
	if config.CoordinatePrecision != nil {
		if *config.CoordinatePrecision < 0 {
			return nil, fmt.Errorf("invalid coordinate precision %d: must not be negative", *config.CoordinatePrecision)
		}
		params.CoordinatePrecision = *config.CoordinatePrecision
	}

	return params, nil
}

// zone returns the configured zone, UTC when unset.
func (p *Params) zone() *time.Location {
	if p == nil || p.Zone == nil {
		return time.UTC
	}
	return p.Zone
}
