package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// calendarLayouts are the accepted string encodings, tried in order. The
// month-first slash layout deliberately precedes the day-first one, so an
// ambiguous value like "03/04/2024" always parses month-first. A bare
// trailing "Z" is matched literally: the zone marker is stripped, never
// converted.
var calendarLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"01/02/2006",
	"02/01/2006",
}

// ParseInstant normalizes a raw timestamp value into a UTC wall-clock
// instant. Integer Unix epochs (numbers or numeric strings) are tried
// first, then each calendar layout in order. Returns ErrInvalidDate when
// nothing matches.
func ParseInstant(value any) (time.Time, error) {
	if value == nil {
		return time.Time{}, ErrInvalidDate
	}

	if epoch, ok := asEpochSeconds(value); ok {
		return time.Unix(epoch, 0).UTC(), nil
	}

	s, ok := value.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, value)
	}

	s = strings.TrimSpace(s)
	for _, layout := range calendarLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// asEpochSeconds attempts the integer-epoch interpretation of a raw value.
func asEpochSeconds(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
