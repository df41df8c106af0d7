package domain

import "errors"

// Sentinel errors for library operations
var (
	// ErrUnknownIdentity indicates compatibility cannot be looked up without a display identity
	ErrUnknownIdentity = errors.New("display identity is unknown")

	// ErrBatchFailed indicates a remote compatibility batch returned no usable result
	ErrBatchFailed = errors.New("compatibility batch failed")

	// ErrSourceUnavailable indicates a catalog provider could not be read
	ErrSourceUnavailable = errors.New("catalog source is unavailable")

	// ErrNotGameFolder indicates a folder has no executable to launch
	ErrNotGameFolder = errors.New("folder is not a game folder")
)
