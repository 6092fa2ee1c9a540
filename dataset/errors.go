package dataset

import "errors"

var (
	// ErrStorage reports an I/O failure on a dataset or result artifact.
	// It is never retried.
	ErrStorage = errors.New("storage error")

	// ErrDatasetCorrupt reports an artifact whose point count or content does
	// not match the request. Corrupt artifacts are not regenerated silently.
	ErrDatasetCorrupt = errors.New("dataset corrupt")
)
