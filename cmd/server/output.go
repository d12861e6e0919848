package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/spf13/cobra"
)

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// instantFlag parses an optional RFC3339 flag value, defaulting to now.
func instantFlag(raw string, now func() time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return now(), nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: must be RFC3339", raw)
	}
	return at, nil
}

// observerFlags returns the location from --lat/--lon, or nil when neither
// flag was set.
func observerFlags(cmd *cobra.Command, lat, lon float64) (*domain.LatLon, error) {
	latSet := cmd.Flags().Changed("lat")
	lonSet := cmd.Flags().Changed("lon")
	if !latSet && !lonSet {
		return nil, nil
	}
	if latSet != lonSet {
		return nil, fmt.Errorf("--lat and --lon must be given together")
	}

	loc := domain.LatLon{Lat: lat, Lon: lon}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return &loc, nil
}
