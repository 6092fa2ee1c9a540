package engine

import (
	"database/sql"
	"math"
	"testing"

	"github.com/viant/geobench/geo"
)

func TestGeoHaversine(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	// identical points -> 0
	var dist float64
	if err := db.QueryRow(`SELECT geo_haversine(50, 0, 50, 0)`).Scan(&dist); err != nil {
		t.Fatalf("geo_haversine query failed: %v", err)
	}
	if dist != 0 {
		t.Fatalf("geo_haversine(same) = %v, want 0", dist)
	}

	// matches the Go implementation
	if err := db.QueryRow(`SELECT geo_haversine(?, ?, ?, ?)`, 51.5, -0.12, 48.85, 2.35).Scan(&dist); err != nil {
		t.Fatalf("geo_haversine query failed: %v", err)
	}
	want := geo.Haversine(51.5, -0.12, 48.85, 2.35)
	if math.Abs(dist-want) > 1e-6 {
		t.Fatalf("geo_haversine = %v, want %v", dist, want)
	}

	// NULL propagates
	var null sql.NullFloat64
	if err := db.QueryRow(`SELECT geo_haversine(NULL, 0, 50, 0)`).Scan(&null); err != nil {
		t.Fatalf("geo_haversine NULL query failed: %v", err)
	}
	if null.Valid {
		t.Fatalf("geo_haversine(NULL) = %v, want NULL", null.Float64)
	}

	if err := db.QueryRow(`SELECT geo_haversine('a', 0, 50, 0)`).Scan(&dist); err == nil {
		t.Fatalf("geo_haversine(text) succeeded, want error")
	}
}

func TestGeoGeohash(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	var cell string
	if err := db.QueryRow(`SELECT geo_geohash(57.64911, 10.40744, 11)`).Scan(&cell); err != nil {
		t.Fatalf("geo_geohash query failed: %v", err)
	}
	if cell != "u4pruydqqvj" {
		t.Fatalf("geo_geohash = %q, want u4pruydqqvj", cell)
	}
	if err := db.QueryRow(`SELECT geo_geohash(0, 0, 13)`).Scan(&cell); err == nil {
		t.Fatalf("geo_geohash(precision 13) succeeded, want error")
	}
}
