package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/location"
	"github.com/vzahanych/weather-lookup/internal/lookup"
	"github.com/vzahanych/weather-lookup/internal/render"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/internal/weather"
)

type lookupFlags struct {
	zip   string
	lat   float64
	lon   float64
	units string
}

func lookupCmd() *cobra.Command {
	var f lookupFlags

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print current conditions for a ZIP code or coordinates",
		Example: `  weather lookup --zip 10001
  weather lookup --lat 40.7128 --lon -74.006 --units metric`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.zip, "zip", "", "5-digit US ZIP code")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "longitude in degrees")
	cmd.Flags().StringVar(&f.units, "units", "", "standard, metric or imperial (default from config)")
	cmd.MarkFlagsMutuallyExclusive("zip", "lat")
	cmd.MarkFlagsMutuallyExclusive("zip", "lon")
	cmd.MarkFlagsRequiredTogether("lat", "lon")

	return cmd
}

func runLookup(cmd *cobra.Command, f lookupFlags) error {
	cfg := config.GetConfig()

	defaultUnits, err := location.ParseUnits(cfg.Weather.DefaultUnits)
	if err != nil {
		return err
	}

	svc := service.NewOpenWeatherServiceWithConfig(cfg.Weather, log, tele)
	l := lookup.New(svc, defaultUnits, log, tele)

	var res *weather.Result
	switch {
	case f.zip != "":
		res, err = l.ByPostalCode(cmd.Context(), f.zip, f.units)
	case cmd.Flags().Changed("lat"):
		res, err = l.ByCoordinates(cmd.Context(), f.lat, f.lon, f.units)
	default:
		return errors.New("either --zip or --lat and --lon is required")
	}

	if err != nil {
		var verr *location.ValidationError
		if errors.As(err, &verr) {
			return errors.New(location.Message(verr))
		}
		return err
	}

	view := render.Format(res)
	out := cmd.OutOrStdout()
	for _, line := range view.Lines() {
		fmt.Fprintln(out, line)
	}

	if !view.OK {
		return fmt.Errorf("upstream returned status %d", res.StatusCode)
	}
	return nil
}
