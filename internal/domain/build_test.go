package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSample(t *testing.T) {
	fixedTime := time.Date(2024, 4, 26, 12, 30, 45, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	recordedAt := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	t.Run("full record", func(t *testing.T) {
		rec := RawRecord{
			"humidity":       65.0,
			"pressure":       1013.0,
			"wind_speed":     5.2,
			"wind_direction": 180.0,
			"description":    "clear sky",
			"icon":           "01d",
		}

		s, err := BuildSample(rec, SingleLocationAliases, 7, 15.0, recordedAt)

		require.NoError(t, err)
		assert.Equal(t, int64(7), s.LocationID)
		assert.Equal(t, 15.0, s.Temperature)
		require.NotNil(t, s.Humidity)
		assert.Equal(t, 65.0, *s.Humidity)
		require.NotNil(t, s.Pressure)
		assert.Equal(t, 1013.0, *s.Pressure)
		require.NotNil(t, s.WindSpeed)
		assert.Equal(t, 5.2, *s.WindSpeed)
		require.NotNil(t, s.WindDirection)
		assert.Equal(t, 180.0, *s.WindDirection)
		assert.Equal(t, "clear sky", s.Description)
		assert.Equal(t, "01d", s.Icon)
		assert.Equal(t, recordedAt, s.RecordedAt)
		assert.Equal(t, fixedTime, s.CreatedAt)
	})

	t.Run("absent optional fields stay nil", func(t *testing.T) {
		s, err := BuildSample(RawRecord{}, SingleLocationAliases, 7, 15.0, recordedAt)

		require.NoError(t, err)
		assert.Nil(t, s.Humidity)
		assert.Nil(t, s.Pressure)
		assert.Nil(t, s.WindSpeed)
		assert.Nil(t, s.WindDirection)
		assert.Empty(t, s.Description)
		assert.Empty(t, s.Icon)
	})

	t.Run("nested aliases in multi mode", func(t *testing.T) {
		rec := RawRecord{
			"main": map[string]any{"humidity": 70.0, "pressure": 1008.0},
			"wind": map[string]any{"speed": 3.1, "deg": 90.0},
		}

		s, err := BuildSample(rec, MultiLocationAliases, 7, 20.0, recordedAt)

		require.NoError(t, err)
		require.NotNil(t, s.Humidity)
		assert.Equal(t, 70.0, *s.Humidity)
		require.NotNil(t, s.Pressure)
		assert.Equal(t, 1008.0, *s.Pressure)
		require.NotNil(t, s.WindSpeed)
		assert.Equal(t, 3.1, *s.WindSpeed)
		require.NotNil(t, s.WindDirection)
		assert.Equal(t, 90.0, *s.WindDirection)
	})

	t.Run("present but non numeric fails", func(t *testing.T) {
		rec := RawRecord{"humidity": "very humid"}

		_, err := BuildSample(rec, SingleLocationAliases, 7, 15.0, recordedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidField)
		assert.Contains(t, err.Error(), "humidity")
	})

	t.Run("numeric string coerced", func(t *testing.T) {
		rec := RawRecord{"pressure": "1013"}

		s, err := BuildSample(rec, SingleLocationAliases, 7, 15.0, recordedAt)

		require.NoError(t, err)
		require.NotNil(t, s.Pressure)
		assert.Equal(t, 1013.0, *s.Pressure)
	})

	t.Run("recorded at normalized to UTC", func(t *testing.T) {
		local := time.Date(2024, 1, 15, 8, 0, 0, 0, time.FixedZone("CET", 3600))

		s, err := BuildSample(RawRecord{}, SingleLocationAliases, 7, 15.0, local)

		require.NoError(t, err)
		assert.Equal(t, time.UTC, s.RecordedAt.Location())
		assert.Equal(t, time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC), s.RecordedAt)
	})
}
