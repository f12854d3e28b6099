package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"carburante/internal/carburante"
)

func nationalCommand() *cli.Command {
	return &cli.Command{
		Name:   "national",
		Usage:  "Average fuel prices for the whole country",
		Action: nationalAction,
	}
}

func nationalAction(c *cli.Context) error {
	svc := newService()

	result, err := svc.National(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d stations)\n", result.Country, result.StationCount)
	printFuelPrices(result.Prices)
	return nil
}

func printFuelPrices(prices carburante.FuelPrices) {
	fmt.Printf("  Gasoline: %.3f EUR\n", prices.Gasoline)
	fmt.Printf("  Diesel:   %.3f EUR\n", prices.Diesel)
	fmt.Printf("  LPG:      %.3f EUR\n", prices.LPG)
	fmt.Printf("  Methane:  %.3f EUR\n", prices.Methane)
}
