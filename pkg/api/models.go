package api

// Fuel labels as they appear in the price feed's descCarburante column.
const (
	FuelGasoline = "Benzina"
	FuelDiesel   = "Gasolio"
	FuelLPG      = "GPL"
	FuelMethane  = "Metano"
)

// FuelLabels lists the four fuel categories reported by aggregates.
var FuelLabels = []string{FuelGasoline, FuelDiesel, FuelLPG, FuelMethane}

// Station represents a single fuel station joined from the registry and
// price feeds. Prices maps a fuel label to its price in EUR; only positive
// prices are retained.
type Station struct {
	Lat      float64
	Lon      float64
	Brand    string
	Name     string
	Province string
	Region   string
	Prices   map[string]float64
}

// StationWithDistance associates a Station with a computed distance in km.
type StationWithDistance struct {
	Station  *Station
	Distance float64
}
