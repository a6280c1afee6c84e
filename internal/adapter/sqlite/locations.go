package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/voyagelog/weather-ingest/internal/domain"
)

// FindByID returns the location with the given id, or nil when none exists.
func (s *Store) FindByID(ctx context.Context, id int64) (*domain.Location, error) {
	var row locationRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	loc := row.toDomain()
	return &loc, nil
}

// FindInBoundingBox returns a user's locations whose coordinates fall
// inside the box, in ascending id order.
func (s *Store) FindInBoundingBox(ctx context.Context, userID int64, minLat, maxLat, minLon, maxLon float64) ([]domain.Location, error) {
	var rows []locationRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
			userID, minLat, maxLat, minLon, maxLon).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLocations(rows), nil
}

// FindByNameCity returns a user's locations whose name contains name AND
// whose city contains city, case-insensitively, in ascending id order.
func (s *Store) FindByNameCity(ctx context.Context, userID int64, name, city string) ([]domain.Location, error) {
	var rows []locationRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) LIKE ? AND LOWER(city) LIKE ?",
			userID, likePattern(name), likePattern(city)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLocations(rows), nil
}

// FindByName returns a user's locations whose name contains name,
// case-insensitively, in ascending id order.
func (s *Store) FindByName(ctx context.Context, userID int64, name string) ([]domain.Location, error) {
	var rows []locationRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) LIKE ?", userID, likePattern(name)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLocations(rows), nil
}

// FindByCity returns a user's locations whose city contains city,
// case-insensitively, in ascending id order.
func (s *Store) FindByCity(ctx context.Context, userID int64, city string) ([]domain.Location, error) {
	var rows []locationRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(city) LIKE ?", userID, likePattern(city)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLocations(rows), nil
}

// InsertLocation creates a location row. The ingestion pipeline never
// calls this; it serves the journal's CRUD layer and this package's tests.
func (s *Store) InsertLocation(ctx context.Context, loc *domain.Location) error {
	row := locationRow{
		ID:        loc.ID,
		UserID:    loc.UserID,
		Name:      loc.Name,
		City:      loc.City,
		Country:   loc.Country,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}
	if loc.Address != "" {
		row.Address = &loc.Address
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	loc.ID = row.ID
	return nil
}

func toDomainLocations(rows []locationRow) []domain.Location {
	locs := make([]domain.Location, len(rows))
	for i, r := range rows {
		locs[i] = r.toDomain()
	}
	return locs
}
