package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Alias tables for descriptor extraction, in priority order. Adding a new
// source key is a one-line change to the relevant table. A "." in an alias
// descends into a nested object, e.g. "main.temp".
var (
	nameAliases = []string{"location_name", "location", "name", "city", "city_name", "address"}
	cityAliases = []string{"city", "city_name"}
	addrAliases = []string{"address"}
	latAliases  = []string{"latitude", "lat"}
	lonAliases  = []string{"longitude", "lon"}
)

// AliasSet lists the accepted source keys per measurement field for one
// ingestion mode.
type AliasSet struct {
	Timestamp     []string
	Temperature   []string
	Humidity      []string
	Pressure      []string
	WindSpeed     []string
	WindDirection []string
	Description   []string
	Icon          []string
}

// SingleLocationAliases covers the legacy flat import shape: top-level
// keys only.
var SingleLocationAliases = AliasSet{
	Timestamp:     []string{"dt", "date", "dt_iso", "datetime", "timestamp", "recorded_at"},
	Temperature:   []string{"temperature", "temp", "temp_min"},
	Humidity:      []string{"humidity"},
	Pressure:      []string{"pressure"},
	WindSpeed:     []string{"wind_speed"},
	WindDirection: []string{"wind_direction"},
	Description:   []string{"description"},
	Icon:          []string{"icon"},
}

// MultiLocationAliases additionally searches the nested "main" and "wind"
// objects produced by bulk provider exports.
var MultiLocationAliases = AliasSet{
	Timestamp:     []string{"dt", "date", "dt_iso", "datetime", "timestamp", "recorded_at"},
	Temperature:   []string{"temperature", "temp", "temp_min", "main.temp", "main.temp_min"},
	Humidity:      []string{"humidity", "main.humidity"},
	Pressure:      []string{"pressure", "main.pressure"},
	WindSpeed:     []string{"wind_speed", "wind.speed"},
	WindDirection: []string{"wind_direction", "wind.deg"},
	Description:   []string{"description"},
	Icon:          []string{"icon"},
}

// ExtractDescriptor pulls a location identity out of an arbitrary record
// shape. Coordinate aliases that resolve to non-numeric values are
// discarded rather than treated as errors. When coordinates resolve but no
// name alias hit, a name is synthesized from the coordinates (and city, if
// known). Returns ErrNoLocationInfo when neither a name nor a full
// coordinate pair is available.
func ExtractDescriptor(rec RawRecord) (LocationDescriptor, error) {
	var d LocationDescriptor

	if v, ok := firstString(rec, nameAliases); ok {
		d.Name = v
	}
	if v, ok := firstString(rec, cityAliases); ok {
		d.City = v
	}
	if v, ok := firstString(rec, addrAliases); ok {
		d.Address = v
	}
	if v, ok := firstNumber(rec, latAliases); ok {
		d.Latitude = &v
	}
	if v, ok := firstNumber(rec, lonAliases); ok {
		d.Longitude = &v
	}

	if d.Name == "" && d.HasCoordinates() {
		if d.City != "" {
			d.Name = fmt.Sprintf("%s (%.4f, %.4f)", d.City, *d.Latitude, *d.Longitude)
		} else {
			d.Name = fmt.Sprintf("Location (%.4f, %.4f)", *d.Latitude, *d.Longitude)
		}
	}

	if !d.Valid() {
		return LocationDescriptor{}, ErrNoLocationInfo
	}
	return d, nil
}

// ExtractInstant finds the record's timestamp field and normalizes it.
func ExtractInstant(rec RawRecord, aliases AliasSet) (time.Time, error) {
	v, ok := lookupAny(rec, aliases.Timestamp)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no timestamp field", ErrInvalidDate)
	}
	return ParseInstant(v)
}

// ExtractTemperature finds the record's temperature field and converts it
// to Celsius from the declared unit. Returns ErrMissingTemperature when no
// alias is present or the value is not numeric.
func ExtractTemperature(rec RawRecord, aliases AliasSet, unit TemperatureUnit) (float64, error) {
	v, ok := firstNumber(rec, aliases.Temperature)
	if !ok {
		return 0, ErrMissingTemperature
	}
	return ToCelsius(v, unit), nil
}

// lookupAny returns the first raw value present among the aliased keys.
func lookupAny(rec RawRecord, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := lookupPath(rec, alias); ok {
			return v, true
		}
	}
	return nil, false
}

// lookupPath resolves a possibly-nested alias like "main.temp".
func lookupPath(rec RawRecord, path string) (any, bool) {
	key, rest, nested := strings.Cut(path, ".")
	v, ok := rec[key]
	if !ok {
		return nil, false
	}
	if !nested {
		return v, true
	}
	sub, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return lookupPath(RawRecord(sub), rest)
}

// firstString returns the first non-empty string value among the aliases.
func firstString(rec RawRecord, aliases []string) (string, bool) {
	for _, alias := range aliases {
		v, ok := lookupPath(rec, alias)
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// firstNumber returns the first numeric value among the aliases. Numeric
// strings count; anything else is skipped.
func firstNumber(rec RawRecord, aliases []string) (float64, bool) {
	for _, alias := range aliases {
		v, ok := lookupPath(rec, alias)
		if !ok {
			continue
		}
		if f, ok := asNumber(v); ok {
			return f, true
		}
	}
	return 0, false
}

// asNumber coerces the value types json.Unmarshal can produce into a float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
