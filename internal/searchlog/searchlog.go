// Package searchlog persists nearby-search locations to sqlite and serves
// popularity queries over them.
package searchlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const (
	decimalBase            = 10
	precisionDecimalPlaces = 2

	defaultCacheSize = -1024 * 1024 // negative value for pages
	defaultPageSize  = 4096
)

// Store records where nearby searches happen. Locations are collapsed to a
// two-decimal grid (roughly 1km) so repeated searches around the same spot
// bump a counter instead of piling up rows.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

func New(ctx context.Context, dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := configurePragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	logger.Debug("search log table created or verified", "path", dbPath)

	return &Store{db: db, log: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(ctx context.Context, db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS search_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		radius_km REAL NOT NULL,
		search_count INTEGER NOT NULL DEFAULT 1,
		first_search TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_search TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_search_log_coordinates ON search_log (latitude, longitude);
	`

	_, err := db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating search_log table: %w", err)
	}
	return nil
}

func configurePragmas(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 10000;"); err != nil {
		return fmt.Errorf("error setting busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("error setting journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
		return fmt.Errorf("error setting synchronous: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA cache_size = %d;", defaultCacheSize)); err != nil {
		return fmt.Errorf("error setting cache size: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA page_size = %d;", defaultPageSize)); err != nil {
		return fmt.Errorf("error setting page size: %w", err)
	}
	return nil
}

// LogSearch records one nearby query at the given point and radius.
func (s *Store) LogSearch(ctx context.Context, latitude, longitude, radiusKm float64) error {
	cellLat, cellLon := reducePrecision(latitude, longitude, precisionDecimalPlaces)

	var id int64
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, search_count FROM search_log
		WHERE latitude = ? AND longitude = ?
		LIMIT 1
	`, cellLat, cellLon).Scan(&id, &count)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("error checking for existing location: %w", err)
	}

	if err == sql.ErrNoRows {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO search_log (latitude, longitude, radius_km)
			VALUES (?, ?, ?)
		`, cellLat, cellLon, radiusKm)
		if err != nil {
			return fmt.Errorf("error logging search location: %w", err)
		}
	} else {
		_, err := s.db.ExecContext(ctx, `
			UPDATE search_log
			SET search_count = search_count + 1, last_search = CURRENT_TIMESTAMP, radius_km = ?
			WHERE id = ?
		`, radiusKm, id)
		if err != nil {
			return fmt.Errorf("error updating search location: %w", err)
		}
	}

	s.log.Debug("search location logged", "latitude", cellLat, "longitude", cellLon)
	return nil
}

// Entry represents a row in the search_log table.
type Entry struct {
	ID          int64
	Latitude    float64
	Longitude   float64
	RadiusKm    float64
	SearchCount int64
	FirstSearch time.Time
	LastSearch  time.Time
}

// Entries returns logged search locations ordered by popularity.
// limit caps the number of rows returned; 0 returns all of them.
func (s *Store) Entries(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, latitude, longitude, radius_km, search_count, first_search, last_search
			  FROM search_log
			  ORDER BY search_count DESC `
	if limit > 0 {
		query += fmt.Sprintf("LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving search log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.Latitude,
			&entry.Longitude,
			&entry.RadiusKm,
			&entry.SearchCount,
			&entry.FirstSearch,
			&entry.LastSearch,
		); err != nil {
			return nil, fmt.Errorf("error scanning search log entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}

	return entries, nil
}

// PopularLocation represents a clustered area of searches with its popularity.
type PopularLocation struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	SearchCount int64   `json:"weight"` // used as weight in heatmaps
	RadiusKm    float64 `json:"radius"` // estimated radius of the cluster in km
}

// PopularLocations returns heatmap-ready clusters of logged searches, most
// popular first. Entries closer than about 1km merge into one cluster at
// their weighted centroid.
func (s *Store) PopularLocations(ctx context.Context, limit int) ([]PopularLocation, error) {
	entries, err := s.Entries(ctx, 0)
	if err != nil {
		return nil, err
	}

	const clusterDistance = 0.01 // degrees, approximately 1km

	processed := make(map[int64]bool)
	var clusters []PopularLocation

	for i, entry := range entries {
		if processed[entry.ID] {
			continue
		}
		processed[entry.ID] = true

		cluster := PopularLocation{
			Latitude:    entry.Latitude,
			Longitude:   entry.Longitude,
			SearchCount: entry.SearchCount,
			RadiusKm:    entry.RadiusKm,
		}

		for j, other := range entries {
			if i == j || processed[other.ID] {
				continue
			}

			distance := math.Sqrt(
				(entry.Latitude-other.Latitude)*(entry.Latitude-other.Latitude) +
					(entry.Longitude-other.Longitude)*(entry.Longitude-other.Longitude))
			if distance > clusterDistance {
				continue
			}

			processed[other.ID] = true

			totalWeight := cluster.SearchCount + other.SearchCount
			cluster.Latitude = (cluster.Latitude*float64(cluster.SearchCount) +
				other.Latitude*float64(other.SearchCount)) / float64(totalWeight)
			cluster.Longitude = (cluster.Longitude*float64(cluster.SearchCount) +
				other.Longitude*float64(other.SearchCount)) / float64(totalWeight)

			cluster.SearchCount += other.SearchCount
			if other.RadiusKm > cluster.RadiusKm {
				cluster.RadiusKm = other.RadiusKm
			}
		}

		clusters = append(clusters, cluster)
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].SearchCount > clusters[j].SearchCount
	})

	if limit > 0 && len(clusters) > limit {
		clusters = clusters[:limit]
	}

	return clusters, nil
}

func reducePrecision(lat, lng float64, decimalPlaces int) (roundedLat, roundedLng float64) {
	factor := math.Pow(decimalBase, float64(decimalPlaces))
	roundedLat = math.Round(lat*factor) / factor
	roundedLng = math.Round(lng*factor) / factor
	return
}
