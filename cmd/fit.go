package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/compass/internal/viewport"
	"github.com/spf13/cobra"
)

const defaultPadding = 0.5

func newFitCmd() *cobra.Command {
	var (
		padding    float64
		pointFlags []string
	)

	cmd := &cobra.Command{
		Use:   "fit [--point lat,lng]... [--] [lat,lng...]",
		Short: "Print the viewport that frames the given points",
		Long: `Print the viewport that frames the given points.

Points are given as lat,lng with --point or as arguments. A negative latitude
looks like a flag, so pass it with --point=-33.8688,151.2093 or after --.`,
		Example: `  compass fit 41.8781,-87.6298 39.0997,-94.5786
  compass fit --padding 0.1 --point=-33.8688,151.2093 --point=-37.8136,144.9631
  compass fit -- -33.8688,151.2093 -37.8136,144.9631`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := append(append([]string(nil), pointFlags...), args...)
			if len(raw) == 0 {
				return errors.New("at least one point is required, use --point lat,lng or lat,lng arguments")
			}

			points := make([]viewport.GeoPoint, 0, len(raw))
			for _, arg := range raw {
				point, err := parsePoint(arg)
				if err != nil {
					return err
				}
				points = append(points, point)
			}

			region, err := viewport.Fit(points, padding)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(region)
		},
	}

	cmd.Flags().Float64VarP(&padding, "padding", "p", defaultPadding, "degrees added to both spans")
	cmd.Flags().StringArrayVarP(&pointFlags, "point", "P", nil, "point as lat,lng; repeatable")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w (pass negative latitudes as --point=lat,lng or after --)", err)
	})

	return cmd
}

// parsePoint parses "lat,lng".
func parsePoint(raw string) (viewport.GeoPoint, error) {
	rawLat, rawLng, ok := strings.Cut(raw, ",")
	if !ok {
		return viewport.GeoPoint{}, fmt.Errorf("invalid point %q: want lat,lng", raw)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	if err != nil {
		return viewport.GeoPoint{}, fmt.Errorf("invalid latitude in %q: %w", raw, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(rawLng), 64)
	if err != nil {
		return viewport.GeoPoint{}, fmt.Errorf("invalid longitude in %q: %w", raw, err)
	}

	return viewport.GeoPoint{Latitude: lat, Longitude: lng}, nil
}
