package index

import "errors"

var (
	// ErrBuild reports rejected input or a backend that failed to build.
	ErrBuild = errors.New("index: build failed")
	// ErrNotBuilt is returned by Nearest before a successful Build.
	ErrNotBuilt = errors.New("index: not built")
	// ErrClosed is returned by any call after Close.
	ErrClosed = errors.New("index: closed")
	// ErrUnknownBackend is returned by New for an unregistered name.
	ErrUnknownBackend = errors.New("index: unknown backend")
)
