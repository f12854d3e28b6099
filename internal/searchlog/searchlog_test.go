package searchlog

import (
	"context"
	"log/slog"
	"math"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "searchlog.db")
	store, err := New(context.Background(), dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestLogSearchInsertsAndUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Two searches that round to the same two-decimal cell.
	if err := store.LogSearch(ctx, 41.9028, 12.4964, 20); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}
	if err := store.LogSearch(ctx, 41.9031, 12.4962, 10); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}

	entries, err := store.Entries(ctx, 0)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 collapsed entry, got %d", len(entries))
	}
	if entries[0].SearchCount != 2 {
		t.Errorf("search count = %d, expected 2", entries[0].SearchCount)
	}
	if entries[0].RadiusKm != 10 {
		t.Errorf("radius = %f, expected the latest search's 10", entries[0].RadiusKm)
	}
	if math.Abs(entries[0].Latitude-41.90) > 1e-9 {
		t.Errorf("latitude = %f, expected rounded 41.90", entries[0].Latitude)
	}
}

func TestLogSearchDistinctLocations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.LogSearch(ctx, 41.9028, 12.4964, 20); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}
	if err := store.LogSearch(ctx, 45.4642, 9.1900, 20); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}

	entries, err := store.Entries(ctx, 0)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries for distinct locations, got %d", len(entries))
	}
}

func TestEntriesOrderedByPopularity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.LogSearch(ctx, 41.9028, 12.4964, 20); err != nil {
			t.Fatalf("LogSearch() failed: %v", err)
		}
	}
	if err := store.LogSearch(ctx, 45.4642, 9.1900, 20); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}

	entries, err := store.Entries(ctx, 1)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the limit to apply, got %d entries", len(entries))
	}
	if entries[0].SearchCount != 3 {
		t.Errorf("most popular entry has count %d, expected 3", entries[0].SearchCount)
	}
}

func TestPopularLocationsClustering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Two cells within ~1km of each other plus one far away.
	if err := store.LogSearch(ctx, 41.90, 12.49, 20); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}
	if err := store.LogSearch(ctx, 41.91, 12.49, 20); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}
	if err := store.LogSearch(ctx, 45.46, 9.19, 5); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}

	clusters, err := store.PopularLocations(ctx, 0)
	if err != nil {
		t.Fatalf("PopularLocations() failed: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("expected the nearby cells to merge into 2 clusters, got %d", len(clusters))
	}

	if clusters[0].SearchCount != 2 {
		t.Errorf("merged cluster weight = %d, expected 2", clusters[0].SearchCount)
	}
	// Weighted centroid of two equal-weight points.
	if math.Abs(clusters[0].Latitude-41.905) > 1e-6 {
		t.Errorf("merged cluster latitude = %f, expected 41.905", clusters[0].Latitude)
	}
}
