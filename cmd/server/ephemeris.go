package main

import (
	"fmt"
	"io"
	"time"

	"github.com/phrazzld/numina/internal/ephemeris"
	"github.com/spf13/cobra"
)

func newEphemerisCommand(opts *rootOptions) *cobra.Command {
	var (
		at       string
		lat, lon float64
	)

	cmd := &cobra.Command{
		Use:   "ephemeris",
		Short: "Print Sun, Moon and planet positions for an instant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			instant, err := instantFlag(at, time.Now)
			if err != nil {
				return err
			}
			observer, err := observerFlags(cmd, lat, lon)
			if err != nil {
				return err
			}

			snap := ephemeris.Compute(instant, observer)
			if opts.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			return writeSnapshotText(cmd.OutOrStdout(), snap)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "instant in RFC3339 (default now)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "observer latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "observer longitude in degrees")
	return cmd
}

func writeSnapshotText(w io.Writer, snap ephemeris.Snapshot) error {
	p := &textPrinter{w: w}

	p.printf("Instant:      %s\n", snap.At.UTC().Format(time.RFC3339))
	p.printf("Julian day:   %.5f\n", snap.JulianDay)
	p.printf("Sun:          %7.2f  %s\n", snap.SunLongitude, snap.SunSign)
	p.printf("Moon:         %7.2f  %s\n", snap.MoonLongitude, snap.MoonSign)
	p.printf("Moon phase:   %s (%.1f%% lit, %.1f days)\n", snap.MoonPhase, snap.MoonIllumination*100, snap.MoonAgeDays)

	for _, body := range ephemeris.Planets {
		if lon, ok := snap.Planets[body]; ok {
			p.printf("%-13s %7.2f  %s\n", string(body)+":", lon, ephemeris.SignOf(lon))
		}
	}

	if snap.Ascendant != nil {
		p.printf("Ascendant:    %7.2f  %s\n", *snap.Ascendant, snap.AscendantSign)
	}
	for _, a := range snap.Anomalies {
		p.printf("Anomaly:      %s\n", a)
	}
	return p.err
}

// textPrinter remembers the first write error.
type textPrinter struct {
	w   io.Writer
	err error
}

func (p *textPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
