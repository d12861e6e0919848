package accuracy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Reference keys for the lunar quantities. Longitudes use the body name.
const (
	KeyMoonIllumination = "moon_illumination"
	KeyMoonAge          = "moon_age"
)

// ErrInvalidReference is returned when a reference table cannot be used.
var ErrInvalidReference = errors.New("invalid reference table")

// ReferenceTable holds published values for one instant. Longitudes are in
// degrees keyed by body name, illumination in percent, age in days.
type ReferenceTable struct {
	Instant time.Time          `json:"instant"`
	Source  string             `json:"source"`
	Values  map[string]float64 `json:"values"`
}

// DefaultReferenceTable returns the built-in J2000.0 reference values
// (2000-01-01 12:00 UTC), geocentric ecliptic longitudes of date.
func DefaultReferenceTable() ReferenceTable {
	return ReferenceTable{
		Instant: time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		Source:  "J2000.0 almanac values",
		Values: map[string]float64{
			"sun":               280.37,
			"moon":              223.32,
			"mercury":           271.89,
			"venus":             241.57,
			"mars":              327.96,
			"jupiter":           25.25,
			"saturn":            40.40,
			"uranus":            314.80,
			"neptune":           303.20,
			KeyMoonIllumination: 23.0,
			KeyMoonAge:          24.8,
		},
	}
}

type referenceFile struct {
	Instant string             `yaml:"instant"`
	Source  string             `yaml:"source"`
	Values  map[string]float64 `yaml:"values"`
}

// LoadReferenceTable parses a YAML reference table. Unknown top-level fields
// are rejected so typos surface instead of silently dropping values.
func LoadReferenceTable(r io.Reader) (ReferenceTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ReferenceTable{}, fmt.Errorf("failed to read reference table: %w", err)
	}

	var file referenceFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return ReferenceTable{}, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidReference, err)
	}

	if file.Instant == "" {
		return ReferenceTable{}, fmt.Errorf("%w: instant is required", ErrInvalidReference)
	}
	instant, err := time.Parse(time.RFC3339, file.Instant)
	if err != nil {
		return ReferenceTable{}, fmt.Errorf("%w: instant must be RFC3339: %v", ErrInvalidReference, err)
	}
	if len(file.Values) == 0 {
		return ReferenceTable{}, fmt.Errorf("%w: at least one value is required", ErrInvalidReference)
	}

	return ReferenceTable{
		Instant: instant.UTC(),
		Source:  file.Source,
		Values:  file.Values,
	}, nil
}
