package domain

import (
	"context"
	"time"
)

// LocationStore provides read-only access to a user's recorded travel
// locations. Every finder except FindByID is scoped to a user; substring
// finders match case-insensitively and return candidates in storage
// iteration order (ascending id), which the resolver relies on for
// deterministic first-match semantics.
type LocationStore interface {
	FindByID(ctx context.Context, id int64) (*Location, error)
	FindInBoundingBox(ctx context.Context, userID int64, minLat, maxLat, minLon, maxLon float64) ([]Location, error)
	FindByNameCity(ctx context.Context, userID int64, name, city string) ([]Location, error)
	FindByName(ctx context.Context, userID int64, name string) ([]Location, error)
	FindByCity(ctx context.Context, userID int64, city string) ([]Location, error)
}

// SampleStore persists weather samples. The ingestion core only appends:
// samples are deleted exclusively through their location's cascading
// delete, which lives outside this service.
type SampleStore interface {
	// Exists reports whether a sample is already stored for the exact
	// (location, instant) pair.
	Exists(ctx context.Context, locationID int64, recordedAt time.Time) (bool, error)

	// InsertBatch appends one flush group in a single transaction, so a
	// mid-group failure rolls the whole group back.
	InsertBatch(ctx context.Context, samples []WeatherSample) error

	// ListByLocation returns a location's samples, most recent first.
	ListByLocation(ctx context.Context, locationID int64) ([]WeatherSample, error)

	// ListRange returns a location's samples within [from, to], ascending.
	ListRange(ctx context.Context, locationID int64, from, to time.Time) ([]WeatherSample, error)
}
