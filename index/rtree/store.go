package rtree

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viant/geobench/geo"
)

const (
	countKey       = "count"
	fingerprintKey = "fingerprint"
	// fingerprintPrecision is the geohash length of each fingerprint cell.
	fingerprintPrecision = 12
)

// fingerprint names the content of a point set by the cells of its first and
// last points.
func fingerprint(points []geo.Point) string {
	var first, last string
	if n := len(points); n > 0 {
		first = geo.Geohash(points[0], fingerprintPrecision)
		last = geo.Geohash(points[n-1], fingerprintPrecision)
	}
	return first + ":" + last
}

// store wraps the SQL surface of one R*Tree database.
type store struct {
	db *sql.DB
}

func newStore(ctx context.Context, db *sql.DB) (*store, error) {
	if db == nil {
		return nil, fmt.Errorf("rtree: db is nil")
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("rtree: schema: %w", err)
	}
	return &store{db: db}, nil
}

// count returns the recorded number of points, or -1 when none was recorded.
func (s *store) count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM index_meta WHERE name = ?`, countKey).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// fingerprint returns the recorded fingerprint, or "" when none was recorded.
func (s *store) fingerprint(ctx context.Context) (string, error) {
	var fp string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM index_meta WHERE name = ?`, fingerprintKey).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return fp, err
}

// matches reports whether the stored rows were loaded from points.
func (s *store) matches(ctx context.Context, points []geo.Point) (bool, error) {
	count, err := s.count(ctx)
	if err != nil || count != len(points) {
		return false, err
	}
	fp, err := s.fingerprint(ctx)
	if err != nil {
		return false, err
	}
	return fp == fingerprint(points), nil
}

// load replaces the stored points in one transaction; the count is recorded
// last so a partial load is never reused.
func (s *store) load(ctx context.Context, points []geo.Point) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM index_meta`, `DELETE FROM point_rtree`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO point_rtree(id, minLat, maxLat, minLon, maxLon, lat, lon) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range points {
		if _, err := stmt.ExecContext(ctx, i+1, p.Lat, p.Lat, p.Lon, p.Lon, p.Lat, p.Lon); err != nil {
			return err
		}
	}
	// the fingerprint is taken from the stored rows, not from points
	if _, err := tx.ExecContext(ctx, `INSERT INTO index_meta(name, value)
SELECT ?, COALESCE((SELECT geo_geohash(lat, lon, ?) FROM point_rtree WHERE id = 1), '')
    || ':' || COALESCE((SELECT geo_geohash(lat, lon, ?) FROM point_rtree WHERE id = ?), '')`,
		fingerprintKey, fingerprintPrecision, fingerprintPrecision, len(points)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO index_meta(name, value) VALUES(?, ?)`, countKey, len(points)); err != nil {
		return err
	}
	return tx.Commit()
}

// nearest returns the closest row inside box (all rows when box is nil) with
// the number of rows considered. id is 0 when no row matched.
func (s *store) nearest(ctx context.Context, p geo.Point, box *geo.BBox) (id int, distance float64, candidates int, err error) {
	query := `SELECT id, geo_haversine(?, ?, lat, lon) AS d, COUNT(*) OVER () FROM point_rtree`
	args := []interface{}{p.Lat, p.Lon}
	if box != nil {
		// stored boxes are float32, rounded outwards; the aux columns are exact
		query += ` WHERE maxLat >= ? AND minLat <= ? AND maxLon >= ? AND minLon <= ?
    AND lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?`
		args = append(args,
			box.MinLat, box.MaxLat, box.MinLon, box.MaxLon,
			box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	}
	query += ` ORDER BY d, id LIMIT 1`
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&id, &distance, &candidates)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, 0, nil
	}
	return id, distance, candidates, err
}
