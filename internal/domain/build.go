package domain

import (
	"fmt"
	"time"
)

// BuildSample assembles a validated WeatherSample from a raw record and the
// already-normalized core fields. Optional numeric fields that are present
// but non-numeric fail with ErrInvalidField; absent fields stay nil.
func BuildSample(rec RawRecord, aliases AliasSet, locationID int64, celsius float64, recordedAt time.Time) (*WeatherSample, error) {
	s := &WeatherSample{
		LocationID:  locationID,
		Temperature: celsius,
		RecordedAt:  recordedAt.UTC(),
		CreatedAt:   clock.Now().UTC(),
	}

	optional := []struct {
		name    string
		aliases []string
		dest    **float64
	}{
		{"humidity", aliases.Humidity, &s.Humidity},
		{"pressure", aliases.Pressure, &s.Pressure},
		{"wind_speed", aliases.WindSpeed, &s.WindSpeed},
		{"wind_direction", aliases.WindDirection, &s.WindDirection},
	}
	for _, f := range optional {
		v, ok := lookupAny(rec, f.aliases)
		if !ok {
			continue
		}
		n, ok := asNumber(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s=%v", ErrInvalidField, f.name, v)
		}
		value := n
		*f.dest = &value
	}

	if v, ok := firstString(rec, aliases.Description); ok {
		s.Description = v
	}
	if v, ok := firstString(rec, aliases.Icon); ok {
		s.Icon = v
	}

	return s, nil
}
