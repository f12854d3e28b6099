package carburante

import (
	"math"

	"carburante/pkg/api"
)

// FuelAverage is the mean price for one fuel category and the number of
// stations contributing to it.
type FuelAverage struct {
	Mean  float64
	Count int
}

// averagePrices computes the per-category mean price over a station
// subset, rounded to 3 decimal places. Every label in api.FuelLabels is
// always present in the result; a category with no contributors reports a
// zero mean and a zero count.
func averagePrices(stations []*api.Station) map[string]FuelAverage {
	totals := make(map[string]float64)
	counts := make(map[string]int)

	for _, station := range stations {
		for fuel, price := range station.Prices {
			totals[fuel] += price
			counts[fuel]++
		}
	}

	results := make(map[string]FuelAverage, len(api.FuelLabels))
	for _, fuel := range api.FuelLabels {
		avg := FuelAverage{Count: counts[fuel]}
		if avg.Count > 0 {
			avg.Mean = round3(totals[fuel] / float64(avg.Count))
		}
		results[fuel] = avg
	}

	return results
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
