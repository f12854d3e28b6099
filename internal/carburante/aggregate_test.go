package carburante

import (
	"math"
	"testing"

	"carburante/pkg/api"
)

func testStations() []*api.Station {
	return []*api.Station{
		{
			Lat: 41.9028, Lon: 12.4964, Name: "Stazione ENI Roma", Province: "RM", Region: "Lazio",
			Prices: map[string]float64{api.FuelGasoline: 1.789, api.FuelDiesel: 1.649, api.FuelLPG: 0.729},
		},
		{
			Lat: 45.4642, Lon: 9.1900, Name: "Stazione Q8 Milano", Province: "MI", Region: "Lombardia",
			Prices: map[string]float64{api.FuelGasoline: 1.819, api.FuelDiesel: 1.679, api.FuelMethane: 1.399},
		},
		{
			Lat: 40.8518, Lon: 14.2681, Name: "Stazione IP Napoli", Province: "NA", Region: "Campania",
			Prices: map[string]float64{api.FuelGasoline: 1.759, api.FuelDiesel: 1.629},
		},
	}
}

func TestAveragePrices(t *testing.T) {
	averages := averagePrices(testStations())

	// round((1.789+1.819+1.759)/3, 3) = 1.789
	if got := averages[api.FuelGasoline]; got.Mean != 1.789 || got.Count != 3 {
		t.Errorf("gasoline average = %v, expected mean 1.789 count 3", got)
	}
	// round((1.649+1.679+1.629)/3, 3) = 1.652
	if got := averages[api.FuelDiesel]; got.Mean != 1.652 || got.Count != 3 {
		t.Errorf("diesel average = %v, expected mean 1.652 count 3", got)
	}
	if got := averages[api.FuelLPG]; got.Mean != 0.729 || got.Count != 1 {
		t.Errorf("lpg average = %v, expected mean 0.729 count 1", got)
	}
	if got := averages[api.FuelMethane]; got.Mean != 1.399 || got.Count != 1 {
		t.Errorf("methane average = %v, expected mean 1.399 count 1", got)
	}
}

func TestAveragePricesEmptyCategory(t *testing.T) {
	stations := []*api.Station{
		{Prices: map[string]float64{api.FuelGasoline: 1.800}},
	}

	averages := averagePrices(stations)

	// Every label is always present; empty ones report 0.0 / 0.
	for _, fuel := range api.FuelLabels {
		avg, ok := averages[fuel]
		if !ok {
			t.Fatalf("category %q missing from result", fuel)
		}
		if fuel != api.FuelGasoline && (avg.Mean != 0 || avg.Count != 0) {
			t.Errorf("category %q = %v, expected 0.0/0", fuel, avg)
		}
	}
}

func TestAveragePricesNoStations(t *testing.T) {
	averages := averagePrices(nil)
	for _, fuel := range api.FuelLabels {
		if avg := averages[fuel]; avg.Mean != 0 || avg.Count != 0 {
			t.Errorf("category %q = %v, expected 0.0/0", fuel, avg)
		}
	}
}

func TestAveragePricesOrderIndependent(t *testing.T) {
	stations := testStations()
	forward := averagePrices(stations)

	reversed := make([]*api.Station, len(stations))
	for i, station := range stations {
		reversed[len(stations)-1-i] = station
	}
	backward := averagePrices(reversed)

	for _, fuel := range api.FuelLabels {
		if math.Abs(forward[fuel].Mean-backward[fuel].Mean) > 1e-6 {
			t.Errorf("category %q order-dependent: %f vs %f", fuel, forward[fuel].Mean, backward[fuel].Mean)
		}
		if forward[fuel].Count != backward[fuel].Count {
			t.Errorf("category %q counts differ", fuel)
		}
	}
}
