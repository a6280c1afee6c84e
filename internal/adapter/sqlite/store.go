// Package sqlite persists locations and weather samples with GORM over a
// pure-Go SQLite driver, so the service runs without cgo or an external
// database server.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/voyagelog/weather-ingest/internal/domain"
)

// Store implements domain.LocationStore and domain.SampleStore on SQLite.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an ephemeral database in tests.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}
	if err := db.AutoMigrate(&locationRow{}, &sampleRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// CheckReadiness pings the underlying database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// likePattern builds the case-insensitive substring pattern used by the
// name/city finders. LIKE special characters are not escaped; location
// names are user-entered prose, not patterns.
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// locationRow mirrors the journal's locations table. The ingestion service
// never writes this table in production; InsertLocation exists for the
// CRUD layer and for tests.
type locationRow struct {
	ID        int64   `gorm:"column:id;primaryKey"`
	UserID    int64   `gorm:"column:user_id;index"`
	Name      string  `gorm:"column:name"`
	City      string  `gorm:"column:city"`
	Country   string  `gorm:"column:country"`
	Address   *string `gorm:"column:address"`
	Latitude  float64 `gorm:"column:latitude"`
	Longitude float64 `gorm:"column:longitude"`
}

func (locationRow) TableName() string { return "locations" }

func (r locationRow) toDomain() domain.Location {
	loc := domain.Location{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		City:      r.City,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
	if r.Address != nil {
		loc.Address = *r.Address
	}
	return loc
}

// sampleRow mirrors the weather_samples table. No unique constraint covers
// (location_id, recorded_at): duplicates are prevented by the ingestor's
// read-then-decide guard, which is not atomic across concurrent batches.
type sampleRow struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	LocationID    int64     `gorm:"column:location_id;index"`
	Temperature   float64   `gorm:"column:temperature"`
	Humidity      *float64  `gorm:"column:humidity"`
	Pressure      *float64  `gorm:"column:pressure"`
	WindSpeed     *float64  `gorm:"column:wind_speed"`
	WindDirection *float64  `gorm:"column:wind_direction"`
	Description   *string   `gorm:"column:description"`
	Icon          *string   `gorm:"column:icon"`
	RecordedAt    time.Time `gorm:"column:recorded_at;index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (sampleRow) TableName() string { return "weather_samples" }

func newSampleRow(s domain.WeatherSample) sampleRow {
	row := sampleRow{
		ID:            s.ID,
		LocationID:    s.LocationID,
		Temperature:   s.Temperature,
		Humidity:      s.Humidity,
		Pressure:      s.Pressure,
		WindSpeed:     s.WindSpeed,
		WindDirection: s.WindDirection,
		RecordedAt:    s.RecordedAt.UTC(),
		CreatedAt:     s.CreatedAt.UTC(),
	}
	if s.Description != "" {
		row.Description = &s.Description
	}
	if s.Icon != "" {
		row.Icon = &s.Icon
	}
	return row
}

func (r sampleRow) toDomain() domain.WeatherSample {
	s := domain.WeatherSample{
		ID:            r.ID,
		LocationID:    r.LocationID,
		Temperature:   r.Temperature,
		Humidity:      r.Humidity,
		Pressure:      r.Pressure,
		WindSpeed:     r.WindSpeed,
		WindDirection: r.WindDirection,
		RecordedAt:    r.RecordedAt.UTC(),
		CreatedAt:     r.CreatedAt.UTC(),
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Icon != nil {
		s.Icon = *r.Icon
	}
	return s
}
