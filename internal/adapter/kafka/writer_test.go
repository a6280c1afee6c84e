package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagelog/weather-ingest/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	humidity := 65.0
	sample := domain.WeatherSample{
		ID:          42,
		LocationID:  7,
		Temperature: 15.0,
		Humidity:    &humidity,
		Description: "clear sky",
		RecordedAt:  time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(sample)

	require.NoError(t, err)
	assert.Equal(t, []byte("7"), msg.Key)

	var decoded domain.WeatherSample
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, int64(7), decoded.LocationID)
	assert.Equal(t, 15.0, decoded.Temperature)
	require.NotNil(t, decoded.Humidity)
	assert.Equal(t, 65.0, *decoded.Humidity)
	assert.Equal(t, "clear sky", decoded.Description)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "7", headers["location_id"])
	assert.Equal(t, "2024-01-15T08:00:00Z", headers["recorded_at"])
}

func TestSerializeOmitsAbsentFields(t *testing.T) {
	sample := domain.WeatherSample{LocationID: 7, Temperature: 10.0}

	msg, err := serializeToMessage(sample)

	require.NoError(t, err)
	assert.NotContains(t, string(msg.Value), "humidity")
	assert.NotContains(t, string(msg.Value), "description")
}
