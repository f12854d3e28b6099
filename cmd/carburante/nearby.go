package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/muesli/gominatim"
	"github.com/urfave/cli/v2"

	"carburante/internal/carburante"
)

func nearbyCommand() *cli.Command {
	return &cli.Command{
		Name:  "nearby",
		Usage: "Average fuel prices around a point",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "location",
				Usage:    "Location to search",
				Required: false,
			},
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "Latitude of the location",
			},
			&cli.Float64Flag{
				Name:  "long",
				Usage: "Longitude of the location",
			},
			&cli.Float64Flag{
				Name:    "radius",
				Aliases: []string{"r"},
				Usage:   "Search radius in kilometers",
				Value:   carburante.DefaultRadiusKm,
			},
			&cli.BoolFlag{
				Name:  "stations",
				Usage: "Also list the matched stations",
			},
		},
		Action: nearbyAction,
	}
}

func nearbyAction(c *cli.Context) error {
	lat := c.Float64("lat")
	lng := c.Float64("long")
	radius := c.Float64("radius")
	loc := c.String("location")

	if loc != "" {
		var err error
		lat, lng, err = geocodeLocation(loc)
		if err != nil {
			return err
		}
	} else if lat == 0 && lng == 0 {
		return errors.New("location or latitude and longitude are required")
	}

	svc := newService()
	ctx := context.Background()

	result, err := svc.Nearby(ctx, lat, lng, radius)
	if err != nil {
		return err
	}

	fmt.Println(result.Source)
	fmt.Printf("  Gasoline: %.3f %s\n", result.Gasoline, result.Currency)
	fmt.Printf("  Diesel:   %.3f %s\n", result.Diesel, result.Currency)
	fmt.Printf("  LPG:      %.3f %s\n", result.LPG, result.Currency)
	fmt.Printf("  Methane:  %.3f %s\n", result.Methane, result.Currency)

	if !c.Bool("stations") {
		return nil
	}

	stations, err := svc.NearbyStations(ctx, lat, lng, radius)
	if err != nil {
		return err
	}

	fmt.Println()
	for i, match := range stations {
		station := match.Station
		fmt.Printf("%d. %s (%s)\n", i+1, station.Name, station.Brand)
		fmt.Printf("   Region: %s (%s)\n", station.Region, station.Province)
		fmt.Printf("   Distance: %.2f km\n", match.Distance)
		for fuel, price := range station.Prices {
			fmt.Printf("   %s: %.3f €\n", fuel, price)
		}
		fmt.Println()
	}

	return nil
}

func geocodeLocation(name string) (lat, lng float64, err error) {
	gominatim.SetServer("https://nominatim.openstreetmap.org/")
	qry := gominatim.SearchQuery{
		Q: name,
	}

	resp, err := qry.Get()
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding error: %w", err)
	}
	if len(resp) == 0 {
		return 0, 0, fmt.Errorf("no results found for location: %s", name)
	}

	fmt.Println("Location found:", resp[0].DisplayName)

	lat, err = strconv.ParseFloat(resp[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing latitude: %w", err)
	}
	lng, err = strconv.ParseFloat(resp[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing longitude: %w", err)
	}

	return lat, lng, nil
}
