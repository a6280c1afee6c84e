package domain

import (
	"fmt"
	"strings"
	"time"
)

// RawRecord is one entry of an uploaded historical weather dataset: an
// arbitrary JSON object whose field names and value encodings vary by
// source. The pipeline never mutates a RawRecord.
type RawRecord map[string]any

// LocationDescriptor is the best-effort location identity extracted from a
// single raw record. It is valid when it carries a name or a full
// coordinate pair.
type LocationDescriptor struct {
	Name      string
	City      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// HasCoordinates reports whether both latitude and longitude are set.
func (d LocationDescriptor) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// Valid reports whether the descriptor can be resolved at all.
func (d LocationDescriptor) Valid() bool {
	return d.Name != "" || d.HasCoordinates()
}

// CacheKey derives the per-batch memoization key for this descriptor.
// Coordinates win when present; otherwise the key is the lowercased
// name, with the city appended when known.
func (d LocationDescriptor) CacheKey() string {
	if d.HasCoordinates() {
		return fmt.Sprintf("%.6f,%.6f", *d.Latitude, *d.Longitude)
	}
	key := strings.ToLower(d.Name)
	if d.City != "" {
		key += "|" + strings.ToLower(d.City)
	}
	return key
}

// Location is a travel location previously recorded by a user. Locations
// are owned by the journal's CRUD layer; the ingestion core only reads
// them to resolve descriptors to an id.
type Location struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherSample is one stored historical weather measurement for a
// location. Temperature is always Celsius. Optional numeric fields stay
// nil when the source record did not carry them.
type WeatherSample struct {
	ID            int64     `json:"id,omitempty"`
	LocationID    int64     `json:"location_id"`
	Temperature   float64   `json:"temperature"`
	Humidity      *float64  `json:"humidity,omitempty"`
	Pressure      *float64  `json:"pressure,omitempty"`
	WindSpeed     *float64  `json:"wind_speed,omitempty"`
	WindDirection *float64  `json:"wind_direction,omitempty"`
	Description   string    `json:"description,omitempty"`
	Icon          string    `json:"icon,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// IngestionReport is the per-batch outcome summary returned to the caller.
// Errors are ordered by record index; stored + skipped always equals total.
type IngestionReport struct {
	Total              int              `json:"total_records"`
	Stored             int              `json:"stored_records"`
	Skipped            int              `json:"skipped_records"`
	ErrorsCount        int              `json:"errors_count"`
	Errors             []string         `json:"errors,omitempty"`
	LocationsProcessed int              `json:"locations_processed,omitempty"`
	ResolvedLocations  map[string]int64 `json:"resolved_locations,omitempty"`
}
