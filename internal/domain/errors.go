package domain

import "errors"

// Per-record failure kinds. The ingestor converts each of these into a
// report entry and moves on to the next record; only ErrStorage aborts a
// batch.
var (
	// ErrInvalidDate means no supported timestamp encoding matched.
	ErrInvalidDate = errors.New("invalid or unrecognized date")

	// ErrMissingTemperature means none of the temperature aliases were present.
	ErrMissingTemperature = errors.New("missing temperature")

	// ErrInvalidField means an optional numeric field was present but not numeric.
	ErrInvalidField = errors.New("invalid field value")

	// ErrNoLocationInfo means a record carried neither a name nor a full
	// coordinate pair.
	ErrNoLocationInfo = errors.New("no usable location information")

	// ErrNoLocationMatch means every resolution strategy came up empty.
	ErrNoLocationMatch = errors.New("no matching location")

	// ErrDuplicateSample marks a (location, instant) pair that is already
	// stored. It is a skip reason, not a report error.
	ErrDuplicateSample = errors.New("duplicate weather sample")

	// ErrLocationNotFound means a caller-supplied location id does not exist.
	ErrLocationNotFound = errors.New("location not found")

	// ErrStorage wraps storage failures. Batch-fatal: the open flush group
	// is rolled back and the whole call fails.
	ErrStorage = errors.New("storage failure")
)
