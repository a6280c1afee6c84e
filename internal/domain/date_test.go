package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	t.Run("unix epoch number", func(t *testing.T) {
		// json.Unmarshal delivers numbers as float64
		result, err := ParseInstant(float64(1705276800))

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("unix epoch numeric string", func(t *testing.T) {
		result, err := ParseInstant("1705276800")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("epoch wins over calendar layouts", func(t *testing.T) {
		// A pure digit string is always an epoch, never a malformed date
		result, err := ParseInstant("20240115")

		require.NoError(t, err)
		assert.Equal(t, time.Unix(20240115, 0).UTC(), result)
	})

	t.Run("fractional number is not an epoch", func(t *testing.T) {
		_, err := ParseInstant(1705276800.5)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("date only", func(t *testing.T) {
		result, err := ParseInstant("2024-01-15")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("date and time with space", func(t *testing.T) {
		result, err := ParseInstant("2024-01-15 08:30:00")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), result)
	})

	t.Run("date and time with T", func(t *testing.T) {
		result, err := ParseInstant("2024-01-15T08:30:00")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), result)
	})

	t.Run("trailing Z treated as wall clock", func(t *testing.T) {
		result, err := ParseInstant("2024-01-15T08:30:00Z")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), result)
	})

	t.Run("ambiguous slash date parses month first", func(t *testing.T) {
		result, err := ParseInstant("03/04/2024")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("day first slash date as fallback", func(t *testing.T) {
		result, err := ParseInstant("25/12/2024")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("surrounding whitespace trimmed", func(t *testing.T) {
		result, err := ParseInstant("  2024-01-15  ")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("unparseable string", func(t *testing.T) {
		_, err := ParseInstant("next tuesday")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDate)
		assert.Contains(t, err.Error(), "next tuesday")
	})

	t.Run("nil value", func(t *testing.T) {
		_, err := ParseInstant(nil)

		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := ParseInstant([]string{"2024-01-15"})

		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}
