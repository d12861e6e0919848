package main

import (
	"time"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/realm"
	"github.com/spf13/cobra"
)

func newRealmCommand(opts *rootOptions) *cobra.Command {
	var (
		at        string
		lat, lon  float64
		bpm       int
		simulated bool
		timeZone  string
		celestial bool
	)

	cmd := &cobra.Command{
		Use:   "realm",
		Short: "Compute the realm number once and print its breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			instant, err := instantFlag(at, time.Now)
			if err != nil {
				return err
			}
			loc, err := observerFlags(cmd, lat, lon)
			if err != nil {
				return err
			}

			params, err := realm.NewParams(realm.ParamsConfig{
				TimeZone:         timeZone,
				IncludeCelestial: celestial,
			})
			if err != nil {
				return err
			}

			service := realm.NewService(params, nil)
			if err := service.SetLocation(loc); err != nil {
				return err
			}
			if cmd.Flags().Changed("bpm") {
				input := domain.RealActivity(bpm)
				if simulated {
					input = domain.SimulatedActivity(bpm)
				}
				if err := service.SetActivity(input); err != nil {
					return err
				}
			}

			res := service.Calculate(cmd.Context(), instant)
			if opts.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			p := &textPrinter{w: cmd.OutOrStdout()}
			p.printf("Realm:     %d (sum %d)\n", res.Number, res.Sum)
			p.printf("Instant:   %s\n", res.At.Format(time.RFC3339))
			p.printf("Time:      hour %d, minute %d, day %d, month %d\n", res.Hour, res.Minute, res.Day, res.Month)
			p.printf("Location:  %d (%s)\n", res.LocationFactor, res.LocationSource)
			p.printf("Activity:  %d (%s)\n", res.ActivityFactor, res.ActivitySource)
			if params.IncludeCelestial {
				p.printf("Celestial: %d\n", res.CelestialFactor)
			}
			return p.err
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "instant in RFC3339 (default now)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().IntVar(&bpm, "bpm", 0, "heart rate in beats per minute")
	cmd.Flags().BoolVar(&simulated, "simulated", false, "mark --bpm as a simulated reading")
	cmd.Flags().StringVar(&timeZone, "tz", "UTC", "IANA time zone for the time components")
	cmd.Flags().BoolVar(&celestial, "celestial", false, "add the Sun sign and lunar phase factor")
	return cmd
}
