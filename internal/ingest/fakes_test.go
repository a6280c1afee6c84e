package ingest

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/voyagelog/weather-ingest/internal/domain"
	"github.com/voyagelog/weather-ingest/internal/observability"
)

// fakeLocationStore serves a fixed slice of locations with the same
// matching and ordering semantics the real store provides.
type fakeLocationStore struct {
	locations []domain.Location
	err       error
	lookups   int
}

func (f *fakeLocationStore) FindByID(_ context.Context, id int64) (*domain.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, loc := range f.locations {
		if loc.ID == id {
			l := loc
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeLocationStore) FindInBoundingBox(_ context.Context, userID int64, minLat, maxLat, minLon, maxLon float64) ([]domain.Location, error) {
	return f.filter(userID, func(loc domain.Location) bool {
		return loc.Latitude >= minLat && loc.Latitude <= maxLat &&
			loc.Longitude >= minLon && loc.Longitude <= maxLon
	})
}

func (f *fakeLocationStore) FindByNameCity(_ context.Context, userID int64, name, city string) ([]domain.Location, error) {
	return f.filter(userID, func(loc domain.Location) bool {
		return containsFold(loc.Name, name) && containsFold(loc.City, city)
	})
}

func (f *fakeLocationStore) FindByName(_ context.Context, userID int64, name string) ([]domain.Location, error) {
	return f.filter(userID, func(loc domain.Location) bool {
		return containsFold(loc.Name, name)
	})
}

func (f *fakeLocationStore) FindByCity(_ context.Context, userID int64, city string) ([]domain.Location, error) {
	return f.filter(userID, func(loc domain.Location) bool {
		return containsFold(loc.City, city)
	})
}

func (f *fakeLocationStore) filter(userID int64, keep func(domain.Location) bool) ([]domain.Location, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Location
	for _, loc := range f.locations {
		if loc.UserID == userID && keep(loc) {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// fakeSampleStore records inserts in memory and tracks flush group sizes.
type fakeSampleStore struct {
	samples    []domain.WeatherSample
	flushSizes []int
	existsErr  error
	insertErr  error
}

func (f *fakeSampleStore) Exists(_ context.Context, locationID int64, recordedAt time.Time) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, s := range f.samples {
		if s.LocationID == locationID && s.RecordedAt.Equal(recordedAt) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSampleStore) InsertBatch(_ context.Context, samples []domain.WeatherSample) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.samples = append(f.samples, samples...)
	f.flushSizes = append(f.flushSizes, len(samples))
	return nil
}

func (f *fakeSampleStore) ListByLocation(_ context.Context, locationID int64) ([]domain.WeatherSample, error) {
	var out []domain.WeatherSample
	for _, s := range f.samples {
		if s.LocationID == locationID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSampleStore) ListRange(_ context.Context, locationID int64, from, to time.Time) ([]domain.WeatherSample, error) {
	var out []domain.WeatherSample
	for _, s := range f.samples {
		if s.LocationID == locationID && !s.RecordedAt.Before(from) && !s.RecordedAt.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeSink captures published flush groups.
type fakeSink struct {
	published [][]domain.WeatherSample
	err       error
}

func (f *fakeSink) PublishSamples(_ context.Context, samples []domain.WeatherSample) error {
	if f.err != nil {
		return f.err
	}
	group := make([]domain.WeatherSample, len(samples))
	copy(group, samples)
	f.published = append(f.published, group)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}
