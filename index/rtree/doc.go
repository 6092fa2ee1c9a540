// Package rtree provides a SQLite R*Tree backend. Points are stored as
// degenerate boxes with their exact coordinates in auxiliary columns; a query
// selects the rows inside the search box and lets SQLite order them by
// geo_haversine.
//
// With index.Options.Dir set, the database lives under
// <dir>/rtree-index-<size>/index.db and is reused while its recorded point
// count matches.
package rtree
