package domain

import "errors"

// Error taxonomy of the report engine. An empty result is a valid
// outcome ("no opportunity") and is never signalled through an error.
var (
	// ErrConfigurationMissing indicates a required configuration table
	// is empty or unreachable. No sensible minimum-stock exists without
	// configuration, so the whole computation aborts.
	ErrConfigurationMissing = errors.New("required configuration is missing")

	// ErrDataUnavailable indicates the underlying fact tables could not
	// be read. Fail-fast: no partial results.
	ErrDataUnavailable = errors.New("fact data unavailable")

	// ErrInvalidParameter indicates an out-of-range lookback window or
	// threshold, rejected before any data is touched.
	ErrInvalidParameter = errors.New("invalid report parameter")
)
