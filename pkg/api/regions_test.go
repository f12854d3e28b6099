package api

import "testing"

func TestRegionForProvince(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"RM", "Lazio"},
		{"MI", "Lombardia"},
		{"NA", "Campania"},
		{"AO", "Valle d'Aosta"},
		{"TS", "Friuli-Venezia Giulia"},
		{"XX", RegionUnknown},
		{"", RegionUnknown},
	}

	for _, test := range tests {
		if got := RegionForProvince(test.code); got != test.expected {
			t.Errorf("RegionForProvince(%q) = %q, expected %q", test.code, got, test.expected)
		}
	}
}

func TestProvinceTableComplete(t *testing.T) {
	if len(provinceToRegion) < 100 {
		t.Errorf("expected at least 100 province codes, got %d", len(provinceToRegion))
	}

	for code, region := range provinceToRegion {
		if len(code) != 2 {
			t.Errorf("province code %q is not two letters", code)
		}
		if region == "" {
			t.Errorf("province %q maps to an empty region", code)
		}
	}
}
