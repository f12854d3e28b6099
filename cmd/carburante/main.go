package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"carburante/internal/carburante"
	"carburante/pkg/api"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "carburante",
		Usage: "Query Italian fuel price averages from the MIMIT open data feeds",
		Commands: []*cli.Command{
			nearbyCommand(),
			regionalCommand(),
			nationalCommand(),
			popularCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// newService builds a Service against the official feeds, honoring the
// CARBURANTE_REGISTRY_URL / CARBURANTE_PRICES_URL overrides.
func newService() *carburante.Service {
	client := api.NewClient()
	registryURL := os.Getenv("CARBURANTE_REGISTRY_URL")
	pricesURL := os.Getenv("CARBURANTE_PRICES_URL")
	if registryURL != "" && pricesURL != "" {
		client = api.NewClientWithURLs(registryURL, pricesURL)
	}

	return carburante.NewService(client, 0, slog.New(slog.DiscardHandler))
}
