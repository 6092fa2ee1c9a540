// Package runner drives benchmark runs: it fetches the index and query sets,
// builds one adapter, issues every query in stored order and hands each
// outcome to a recorder. Sweep runs the cartesian product of backends, index
// sizes and radii.
package runner
