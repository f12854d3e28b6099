package carburante

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	if d := haversineKm(41.9028, 12.4964, 41.9028, 12.4964); d != 0 {
		t.Errorf("distance to self = %f, expected 0", d)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Roma <-> Milano is about 477 km great-circle.
	d := haversineKm(41.9028, 12.4964, 45.4642, 9.1900)
	if math.Abs(d-477) > 5 {
		t.Errorf("Roma-Milano distance = %f km, expected about 477", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := haversineKm(41.9028, 12.4964, 40.8518, 14.2681)
	b := haversineKm(40.8518, 14.2681, 41.9028, 12.4964)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("haversine not symmetric: %f vs %f", a, b)
	}
}
