package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/muesli/gominatim"
	"github.com/patrickmn/go-cache"

	"carburante/internal/carburante"
	"carburante/internal/geoip"
	"carburante/internal/searchlog"
	"carburante/pkg/api"
)

type server struct {
	svc          *carburante.Service
	store        *searchlog.Store
	locator      *geoip.Client
	geocodeCache *cache.Cache
	log          *slog.Logger
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "carburante",
	})
}

func (s *server) handleNearby(w http.ResponseWriter, r *http.Request) {
	lat, lng, radius, ok := s.searchPoint(w, r)
	if !ok {
		return
	}

	result, err := s.svc.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.logSearch(r, lat, lng, radius)
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleStations(w http.ResponseWriter, r *http.Request) {
	lat, lng, radius, ok := s.searchPoint(w, r)
	if !ok {
		return
	}

	matches, err := s.svc.NearbyStations(r.Context(), lat, lng, radius)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.logSearch(r, lat, lng, radius)

	type stationResponse struct {
		Name       string             `json:"name"`
		Brand      string             `json:"brand"`
		Province   string             `json:"province"`
		Region     string             `json:"region"`
		Lat        float64            `json:"lat"`
		Lon        float64            `json:"lon"`
		DistanceKm float64            `json:"distanceKm"`
		Prices     map[string]float64 `json:"prices"`
	}

	stations := make([]stationResponse, 0, len(matches))
	for _, match := range matches {
		st := match.Station
		stations = append(stations, stationResponse{
			Name:       st.Name,
			Brand:      st.Brand,
			Province:   st.Province,
			Region:     st.Region,
			Lat:        st.Lat,
			Lon:        st.Lon,
			DistanceKm: match.Distance,
			Prices:     st.Prices,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stationCount": len(stations),
		"stations":     stations,
	})
}

func (s *server) handleRegional(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	if decoded, err := url.PathUnescape(region); err == nil {
		region = decoded
	}

	result, err := s.svc.Regional(r.Context(), region)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleNational(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.National(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleFuelPrice locates the caller by IP and returns the nearby,
// regional and national price picture in one response.
func (s *server) handleFuelPrice(w http.ResponseWriter, r *http.Request) {
	location, err := s.locator.Locate(r.Context(), geoip.ClientIP(r))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("geolocation service unavailable: %v", err))
		return
	}

	if location.CountryCode != "IT" {
		writeError(w, http.StatusForbidden,
			fmt.Sprintf("service is only available in Italy, current location: %s", location.Country))
		return
	}

	nearby, err := s.svc.Nearby(r.Context(), location.Lat, location.Lon, carburante.DefaultRadiusKm)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	var regional *carburante.RegionalResult
	if location.RegionName != "" {
		regional, err = s.svc.Regional(r.Context(), location.RegionName)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
	}

	national, err := s.svc.National(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.logSearch(r, location.Lat, location.Lon, carburante.DefaultRadiusKm)

	writeJSON(w, http.StatusOK, map[string]any{
		"location":   location,
		"fuel_price": nearby,
		"price_data": map[string]any{
			"nearby":   nearby,
			"regional": regional,
			"national": national,
		},
	})
}

func (s *server) handlePopular(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	locations, err := s.store.PopularLocations(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, locations)
}

// searchPoint resolves the query's search point from lat/lon parameters or
// a location= name geocoded through Nominatim. Reports false after writing
// an error response.
func (s *server) searchPoint(w http.ResponseWriter, r *http.Request) (lat, lng, radius float64, ok bool) {
	query := r.URL.Query()

	radius = carburante.DefaultRadiusKm
	if radiusStr := query.Get("radius"); radiusStr != "" {
		if parsed, err := strconv.ParseFloat(radiusStr, 64); err == nil && parsed > 0 {
			radius = parsed
		}
	}

	if location := query.Get("location"); location != "" {
		var err error
		lat, lng, err = s.geocodeLocation(location)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return 0, 0, 0, false
		}
		return lat, lng, radius, true
	}

	latStr, lngStr := query.Get("lat"), query.Get("lon")
	if latStr == "" || lngStr == "" {
		writeError(w, http.StatusBadRequest, "location or lat and lon parameters are required")
		return 0, 0, 0, false
	}

	var err error
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid latitude value")
		return 0, 0, 0, false
	}
	lng, err = strconv.ParseFloat(lngStr, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid longitude value")
		return 0, 0, 0, false
	}

	return lat, lng, radius, true
}

func (s *server) geocodeLocation(location string) (lat, lng float64, err error) {
	gominatim.SetServer("https://nominatim.openstreetmap.org/")
	if cached, ok := s.geocodeCache.Get(location); ok {
		return gominatimResultToLatLon(cached.(gominatim.SearchResult))
	}

	query := gominatim.SearchQuery{
		Q: url.QueryEscape(location),
	}

	results, err := query.Get()
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding error: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no results found for location: %s", location)
	}
	s.geocodeCache.Set(location, results[0], cache.DefaultExpiration)

	return gominatimResultToLatLon(results[0])
}

func gominatimResultToLatLon(result gominatim.SearchResult) (lat, lng float64, err error) {
	lat, err = strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing latitude: %w", err)
	}

	lng, err = strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing longitude: %w", err)
	}

	return lat, lng, nil
}

func (s *server) logSearch(r *http.Request, lat, lng, radius float64) {
	if err := s.store.LogSearch(r.Context(), lat, lng, radius); err != nil {
		s.log.Error("failed to log search location", "error", err)
	}
}

// writeServiceError maps core errors to HTTP responses. A refresh failure
// means "temporarily unavailable": the caller may keep treating previously
// served data as valid.
func (s *server) writeServiceError(w http.ResponseWriter, err error) {
	var fpErr *carburante.FuelPriceError
	var fetchErr *api.FetchError
	if errors.As(err, &fpErr) || errors.As(err, &fetchErr) {
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("fuel price service unavailable: %v", err))
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
