package api

import (
	"strconv"
	"strings"
)

// Both feeds start with a header row followed by an extraction-date banner.
const headerLines = 2

// Minimum field counts for a data row to be usable.
const (
	registryFieldCount = 10
	priceFieldCount    = 3
)

// ParseLatLong parses a latitude or longitude string (with comma or dot) to float64.
func ParseLatLong(s string) (float64, error) {
	s = strings.Replace(s, ",", ".", 1)
	m, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return m, nil
}

// ParseAndJoin parses the registry and price feeds and joins them by
// station id in a single pass over each.
//
// Registry rows are pipe-delimited:
//
//	idImpianto|Gestore|Bandiera|Tipo Impianto|Nome Impianto|Indirizzo|Comune|Provincia|Latitudine|Longitudine
//
// Price rows are pipe-delimited:
//
//	idImpianto|descCarburante|prezzo|isSelf|dtComu
//
// Malformed rows are dropped silently: registry rows with fewer than 10
// fields or unparseable coordinates, price rows with fewer than 3 fields,
// a non-positive or unparseable price, or an id with no registry entry.
// When two price rows carry the same station and fuel label the later row
// wins. Only stations with at least one price survive the join.
func ParseAndJoin(registry, prices string) []Station {
	stations := make(map[string]*Station)
	var order []string

	for _, line := range dataRows(registry) {
		parts := strings.Split(line, "|")
		if len(parts) < registryFieldCount {
			continue
		}

		lat, err := ParseLatLong(strings.TrimSpace(parts[8]))
		if err != nil {
			continue
		}
		lon, err := ParseLatLong(strings.TrimSpace(parts[9]))
		if err != nil {
			continue
		}

		id := strings.TrimSpace(parts[0])
		province := strings.TrimSpace(parts[7])
		if _, seen := stations[id]; !seen {
			order = append(order, id)
		}
		stations[id] = &Station{
			Lat:      lat,
			Lon:      lon,
			Brand:    strings.TrimSpace(parts[2]),
			Name:     strings.TrimSpace(parts[4]),
			Province: province,
			Region:   RegionForProvince(province),
			Prices:   make(map[string]float64),
		}
	}

	for _, line := range dataRows(prices) {
		parts := strings.Split(line, "|")
		if len(parts) < priceFieldCount {
			continue
		}

		station, ok := stations[strings.TrimSpace(parts[0])]
		if !ok {
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || price <= 0 {
			continue
		}
		station.Prices[strings.TrimSpace(parts[1])] = price
	}

	joined := make([]Station, 0, len(order))
	for _, id := range order {
		if len(stations[id].Prices) > 0 {
			joined = append(joined, *stations[id])
		}
	}

	return joined
}

// dataRows returns the non-empty rows of a feed after the two leading
// header lines.
func dataRows(content string) []string {
	lines := strings.Split(content, "\n")
	if len(lines) <= headerLines {
		return nil
	}

	rows := make([]string, 0, len(lines)-headerLines)
	for _, line := range lines[headerLines:] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, line)
	}
	return rows
}
