package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"carburante/internal/searchlog"
)

func popularCommand() *cli.Command {
	return &cli.Command{
		Name:  "popular",
		Usage: "Show the most searched locations from the server's search log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Usage:    "Search log database file",
				Required: false,
				Value:    "carburante.db",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of locations to show",
				Value: 10,
			},
		},
		Action: popularAction,
	}
}

func popularAction(c *cli.Context) error {
	ctx := context.Background()

	store, err := searchlog.New(ctx, c.String("db"), slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}
	defer store.Close()

	locations, err := store.PopularLocations(ctx, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(locations) == 0 {
		fmt.Println("No searches logged yet.")
		return nil
	}

	for i, loc := range locations {
		fmt.Printf("%d. %.4f, %.4f — %d searches (radius %.1f km)\n",
			i+1, loc.Latitude, loc.Longitude, loc.SearchCount, loc.RadiusKm)
	}
	return nil
}
