package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/voyagelog/weather-ingest/internal/domain"
)

// Exists reports whether a sample is already stored for the exact
// (location, instant) pair.
func (s *Store) Exists(ctx context.Context, locationID int64, recordedAt time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&sampleRow{}).
		Where("location_id = ? AND recorded_at = ?", locationID, recordedAt.UTC()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertBatch appends one flush group in a single transaction.
func (s *Store) InsertBatch(ctx context.Context, samples []domain.WeatherSample) error {
	if len(samples) == 0 {
		return nil
	}
	rows := make([]sampleRow, len(samples))
	for i, sample := range samples {
		rows[i] = newSampleRow(sample)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}

// ListByLocation returns a location's samples, most recent first.
func (s *Store) ListByLocation(ctx context.Context, locationID int64) ([]domain.WeatherSample, error) {
	var rows []sampleRow
	err := s.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("recorded_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSamples(rows), nil
}

// ListRange returns a location's samples within [from, to], ascending.
func (s *Store) ListRange(ctx context.Context, locationID int64, from, to time.Time) ([]domain.WeatherSample, error) {
	var rows []sampleRow
	err := s.db.WithContext(ctx).
		Where("location_id = ? AND recorded_at BETWEEN ? AND ?", locationID, from.UTC(), to.UTC()).
		Order("recorded_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSamples(rows), nil
}

func toDomainSamples(rows []sampleRow) []domain.WeatherSample {
	samples := make([]domain.WeatherSample, len(rows))
	for i, r := range rows {
		samples[i] = r.toDomain()
	}
	return samples
}
