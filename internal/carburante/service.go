// Package carburante aggregates Italian fuel prices published by the
// MIMIT open data feeds into geospatial, regional and national averages,
// refreshing its snapshot of the feeds lazily and at most once at a time.
package carburante

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"carburante/pkg/api"
)

const (
	// DefaultCacheTTL matches the hourly publication cadence of the feeds.
	DefaultCacheTTL = 3600 * time.Second

	// DefaultRadiusKm is the nearby-search radius when none is given.
	DefaultRadiusKm = 20.0

	queryCacheExpiry  = 5 * time.Minute
	queryCacheCleanup = 10 * time.Minute
)

// FuelPriceError wraps any failure inside the ensure-fresh pipeline. The
// previously published snapshot is still valid when it is returned.
type FuelPriceError struct {
	Err error
}

func (e *FuelPriceError) Error() string {
	return fmt.Sprintf("fuel price service: %v", e.Err)
}

func (e *FuelPriceError) Unwrap() error { return e.Err }

// Dataset is one immutable joined snapshot of the two feeds.
type Dataset struct {
	Stations  []api.Station
	FetchedAt time.Time
}

// Feeds retrieves the raw text of the two source feeds as a pair.
type Feeds interface {
	FetchFeeds(ctx context.Context) (registry, prices string, err error)
}

// Service owns the cached joined dataset and serves price queries over it.
//
// The snapshot pointer is replaced atomically after each successful
// refresh and never mutated in place, so queries read it without locking.
// refreshMu serializes refresh attempts: at most one is in flight, and
// concurrent callers either wait for its outcome or proceed against a
// still-fresh snapshot.
type Service struct {
	feeds Feeds
	ttl   time.Duration
	log   *slog.Logger

	refreshMu sync.Mutex
	snapshot  atomic.Pointer[Dataset]

	queries *cache.Cache
}

// NewService creates a Service reading from the given feeds. A ttl of zero
// or less selects DefaultCacheTTL.
func NewService(feeds Feeds, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Service{
		feeds:   feeds,
		ttl:     ttl,
		log:     logger,
		queries: cache.New(queryCacheExpiry, queryCacheCleanup),
	}
}

// EnsureFresh guarantees a snapshot exists and is younger than the TTL,
// refreshing it when stale. A failed refresh leaves the prior snapshot and
// its timestamp untouched and returns a *FuelPriceError.
func (s *Service) EnsureFresh(ctx context.Context) error {
	if s.isFresh() {
		return nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// A concurrent caller may have completed the refresh while we waited.
	if s.isFresh() {
		return nil
	}

	return s.refresh(ctx)
}

func (s *Service) isFresh() bool {
	snap := s.snapshot.Load()
	return snap != nil && time.Since(snap.FetchedAt) <= s.ttl
}

// refresh must be called with refreshMu held.
func (s *Service) refresh(ctx context.Context) error {
	s.log.Debug("refreshing MIMIT data (registry + prices)")

	registry, prices, err := s.feeds.FetchFeeds(ctx)
	if err != nil {
		return &FuelPriceError{Err: err}
	}

	stations := api.ParseAndJoin(registry, prices)
	s.snapshot.Store(&Dataset{
		Stations:  stations,
		FetchedAt: time.Now(),
	})
	s.queries.Flush()

	s.log.Info("fuel price data refreshed", "stations", len(stations))
	return nil
}

// Snapshot returns the current dataset, or nil before the first load.
func (s *Service) Snapshot() *Dataset {
	return s.snapshot.Load()
}

// FuelPrices carries the mean price of the four fuel categories.
type FuelPrices struct {
	Gasoline float64 `json:"gasoline"`
	Diesel   float64 `json:"diesel"`
	LPG      float64 `json:"lpg"`
	Methane  float64 `json:"methane"`
}

// NearbyResult is the averaged price picture around a point.
type NearbyResult struct {
	Currency     string  `json:"currency"`
	Gasoline     float64 `json:"gasoline"`
	Diesel       float64 `json:"diesel"`
	LPG          float64 `json:"lpg"`
	Methane      float64 `json:"methane"`
	StationCount int     `json:"stationCount"`
	Source       string  `json:"sourceDescription"`
}

// RegionalResult is the averaged price picture for one region.
type RegionalResult struct {
	Region       string     `json:"region"`
	StationCount int        `json:"stationCount"`
	Prices       FuelPrices `json:"prices"`
}

// NationalResult is the averaged price picture over the whole dataset.
type NationalResult struct {
	Country      string     `json:"country"`
	StationCount int        `json:"stationCount"`
	Prices       FuelPrices `json:"prices"`
}

// Nearby averages prices over the stations within radiusKm of the given
// point. The radius boundary is inclusive; a radiusKm of zero or less
// selects DefaultRadiusKm. Results are memoized per point and radius until
// the next snapshot refresh.
func (s *Service) Nearby(ctx context.Context, lat, lon, radiusKm float64) (*NearbyResult, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	if err := s.EnsureFresh(ctx); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("nearby_%f_%f_%f", lat, lon, radiusKm)
	if cached, found := s.queries.Get(cacheKey); found {
		s.log.Debug("using cached data", "key", cacheKey)
		return cached.(*NearbyResult), nil
	}

	matched := s.stationsWithin(lat, lon, radiusKm)
	averages := averagePrices(matched)

	result := &NearbyResult{
		Currency:     "EUR",
		Gasoline:     averages[api.FuelGasoline].Mean,
		Diesel:       averages[api.FuelDiesel].Mean,
		LPG:          averages[api.FuelLPG].Mean,
		Methane:      averages[api.FuelMethane].Mean,
		StationCount: len(matched),
		Source:       fmt.Sprintf("MIMIT Open Data (avg of %d stations within %gkm)", len(matched), radiusKm),
	}
	s.queries.Set(cacheKey, result, cache.DefaultExpiration)

	return result, nil
}

// NearbyStations returns the stations within radiusKm of the given point,
// sorted nearest first.
func (s *Service) NearbyStations(ctx context.Context, lat, lon, radiusKm float64) ([]api.StationWithDistance, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	if err := s.EnsureFresh(ctx); err != nil {
		return nil, err
	}

	snap := s.snapshot.Load()
	var matched []api.StationWithDistance
	for i := range snap.Stations {
		station := &snap.Stations[i]
		distance := haversineKm(lat, lon, station.Lat, station.Lon)
		if distance <= radiusKm {
			matched = append(matched, api.StationWithDistance{
				Station:  station,
				Distance: distance,
			})
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Distance < matched[j].Distance
	})

	return matched, nil
}

// Regional averages prices over the stations whose region matches
// regionName, case-insensitively.
func (s *Service) Regional(ctx context.Context, regionName string) (*RegionalResult, error) {
	if err := s.EnsureFresh(ctx); err != nil {
		return nil, err
	}

	snap := s.snapshot.Load()
	var matched []*api.Station
	for i := range snap.Stations {
		if strings.EqualFold(snap.Stations[i].Region, regionName) {
			matched = append(matched, &snap.Stations[i])
		}
	}

	return &RegionalResult{
		Region:       regionName,
		StationCount: len(matched),
		Prices:       fuelPricesFrom(averagePrices(matched)),
	}, nil
}

// National averages prices over the full dataset.
func (s *Service) National(ctx context.Context) (*NationalResult, error) {
	if err := s.EnsureFresh(ctx); err != nil {
		return nil, err
	}

	snap := s.snapshot.Load()
	stations := make([]*api.Station, len(snap.Stations))
	for i := range snap.Stations {
		stations[i] = &snap.Stations[i]
	}

	return &NationalResult{
		Country:      "Italy",
		StationCount: len(stations),
		Prices:       fuelPricesFrom(averagePrices(stations)),
	}, nil
}

func (s *Service) stationsWithin(lat, lon, radiusKm float64) []*api.Station {
	snap := s.snapshot.Load()
	var matched []*api.Station
	for i := range snap.Stations {
		station := &snap.Stations[i]
		if haversineKm(lat, lon, station.Lat, station.Lon) <= radiusKm {
			matched = append(matched, station)
		}
	}
	return matched
}

func fuelPricesFrom(averages map[string]FuelAverage) FuelPrices {
	return FuelPrices{
		Gasoline: averages[api.FuelGasoline].Mean,
		Diesel:   averages[api.FuelDiesel].Mean,
		LPG:      averages[api.FuelLPG].Mean,
		Methane:  averages[api.FuelMethane].Mean,
	}
}
