// Package engine provides helpers for working with the modernc.org/sqlite
// driver in this module: opening connections and registering the geo_* SQL
// scalar functions. It keeps a thin surface so backends share one driver.
package engine
