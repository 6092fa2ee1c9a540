package rtree

import (
	"context"
	"database/sql"
)

const pointsSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS point_rtree USING rtree(
    id,
    minLat, maxLat,
    minLon, maxLon,
    +lat, +lon
);
`

const metaSchema = `
CREATE TABLE IF NOT EXISTS index_meta (
    name  TEXT PRIMARY KEY,
    value NOT NULL
);
`

// ensureSchema creates the R*Tree and metadata tables if they do not exist.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range []string{pointsSchema, metaSchema} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
