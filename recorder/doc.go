// Package recorder accumulates the outcomes of one benchmark run and persists
// them: a per-query table of (id, distance) and a summary of the aggregate
// statistics. A recorder belongs to exactly one run.
package recorder
