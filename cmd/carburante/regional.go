package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

func regionalCommand() *cli.Command {
	return &cli.Command{
		Name:  "regional",
		Usage: "Average fuel prices for a region",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "region",
				Usage:    "Region name, e.g. Lazio",
				Required: true,
			},
		},
		Action: regionalAction,
	}
}

func regionalAction(c *cli.Context) error {
	svc := newService()

	result, err := svc.Regional(context.Background(), c.String("region"))
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d stations)\n", result.Region, result.StationCount)
	printFuelPrices(result.Prices)
	return nil
}
