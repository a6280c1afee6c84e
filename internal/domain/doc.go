// Package domain models historical weather imports for a personal travel
// journal: the raw dataset shapes users upload, the normalized samples we
// store, and the pure functions that get from one to the other.
//
// # Source Data Conventions
//
// Uploaded datasets come from many providers and exports, so no fixed
// schema can be assumed. The package normalizes three axes of variation:
//
// Timestamps:
//
//	Any of the keys dt, date, dt_iso, datetime, timestamp, recorded_at may
//	hold the instant. Integer Unix epochs (numbers or numeric strings) are
//	recognized first, then calendar strings in the order
//	  2006-01-02
//	  2006-01-02 15:04:05
//	  2006-01-02T15:04:05
//	  2006-01-02T15:04:05Z   (trailing Z stripped, not converted)
//	  01/02/2006
//	  02/01/2006
//	The slash layouts are inherently ambiguous; month-first wins whenever
//	both would parse, matching the historical importer behavior even though
//	it is wrong for day-first locales. All instants are kept as UTC
//	wall-clock values; no timezone conversion is performed.
//
// Temperatures:
//
//	Found under temperature, temp or temp_min, or nested as main.temp /
//	main.temp_min in bulk provider exports. The unit is declared by the
//	ingestion mode and never inferred from the data. Storage is always
//	Celsius.
//
// Location identity:
//
//	Name is taken from the first hit among location_name, location, name,
//	city, city_name, address; city from city, city_name; coordinates from
//	latitude/lat and longitude/lon, each independently and leniently
//	parsed. Records with coordinates but no name get a synthesized name
//	such as "Berlin (52.5200, 13.4050)".
//
// # Resolution Ladder
//
// A descriptor maps to a stored location through an ordered ladder of
// strategies, first non-empty result wins: coordinate bounding boxes at
// widening tolerances (0.001 through 1.0 degrees, roughly 111 m to 111 km
// at the equator), then name+city substring, city fallback, name
// substring-then-token, and city substring-then-token. The widening search
// trades precision for recall on messy import data. See the ingest package
// for the implementation.
package domain
