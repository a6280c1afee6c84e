package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/voyagelog/weather-ingest/internal/domain"
	"github.com/voyagelog/weather-ingest/internal/observability"
)

// defaultTolerances is the widening bounding-box ladder in degrees, from
// roughly 111 m to 111 km at the equator. Source coordinate precision
// varies by provider; searching tight-first avoids false positives while
// still degrading gracefully on truncated or rounded coordinates.
var defaultTolerances = []float64{0.001, 0.01, 0.022, 0.1, 0.5, 1.0}

// Resolver maps a location descriptor, scoped to one user, to exactly one
// stored location id. Strategies form a strict ladder; the first strategy
// with a non-empty result wins, and within a strategy the first candidate
// in storage iteration order wins. No scoring or ranking across candidates
// is performed.
type Resolver struct {
	locations  domain.LocationStore
	logger     *slog.Logger
	metrics    *observability.Metrics
	tolerances []float64
}

// NewResolver creates a Resolver using the default tolerance ladder.
func NewResolver(locations domain.LocationStore, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		locations:  locations,
		logger:     logger,
		metrics:    metrics,
		tolerances: defaultTolerances,
	}
}

// Resolve runs the ladder for one descriptor. Returns ErrNoLocationMatch
// when every strategy comes up empty; storage failures wrap ErrStorage.
func (r *Resolver) Resolve(ctx context.Context, userID int64, desc domain.LocationDescriptor) (int64, error) {
	if desc.HasCoordinates() {
		id, found, err := r.byCoordinates(ctx, userID, *desc.Latitude, *desc.Longitude)
		if err != nil {
			return 0, err
		}
		if found {
			return id, nil
		}
	}

	if desc.Name != "" && desc.City != "" {
		id, found, err := r.firstMatch(ctx, "name_city", func(ctx context.Context) ([]domain.Location, error) {
			return r.locations.FindByNameCity(ctx, userID, desc.Name, desc.City)
		})
		if err != nil {
			return 0, err
		}
		if found {
			return id, nil
		}

		// Partial fallback: the name+city pair missed, retry on city alone.
		id, found, err = r.firstMatch(ctx, "city", func(ctx context.Context) ([]domain.Location, error) {
			return r.locations.FindByCity(ctx, userID, desc.City)
		})
		if err != nil {
			return 0, err
		}
		if found {
			return id, nil
		}
	}

	if desc.Name != "" {
		id, found, err := r.bySubstringThenTokens(ctx, "name", desc.Name, func(ctx context.Context, needle string) ([]domain.Location, error) {
			return r.locations.FindByName(ctx, userID, needle)
		})
		if err != nil {
			return 0, err
		}
		if found {
			return id, nil
		}
	}

	if desc.Name == "" && desc.City != "" {
		id, found, err := r.bySubstringThenTokens(ctx, "city", desc.City, func(ctx context.Context, needle string) ([]domain.Location, error) {
			return r.locations.FindByCity(ctx, userID, needle)
		})
		if err != nil {
			return 0, err
		}
		if found {
			return id, nil
		}
	}

	return 0, domain.ErrNoLocationMatch
}

// byCoordinates tries each bounding-box tolerance in widening order. A
// location matches at the first tolerance containing both its latitude and
// longitude, so a descriptor that resolves at tolerance t also resolves at
// every wider one.
func (r *Resolver) byCoordinates(ctx context.Context, userID int64, lat, lon float64) (int64, bool, error) {
	for _, tol := range r.tolerances {
		locs, err := r.locations.FindInBoundingBox(ctx, userID, lat-tol, lat+tol, lon-tol, lon+tol)
		if err != nil {
			return 0, false, fmt.Errorf("%w: coordinate lookup: %v", domain.ErrStorage, err)
		}
		if len(locs) > 0 {
			r.metrics.ResolverLookups.WithLabelValues("coordinates", "hit").Inc()
			r.logger.Debug("descriptor resolved by coordinates",
				"lat", lat, "lon", lon, "tolerance", tol, "location_id", locs[0].ID)
			return locs[0].ID, true, nil
		}
	}
	r.metrics.ResolverLookups.WithLabelValues("coordinates", "miss").Inc()
	return 0, false, nil
}

// firstMatch runs one finder and takes its first candidate.
func (r *Resolver) firstMatch(ctx context.Context, strategy string, find func(context.Context) ([]domain.Location, error)) (int64, bool, error) {
	locs, err := find(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s lookup: %v", domain.ErrStorage, strategy, err)
	}
	if len(locs) == 0 {
		r.metrics.ResolverLookups.WithLabelValues(strategy, "miss").Inc()
		return 0, false, nil
	}
	r.metrics.ResolverLookups.WithLabelValues(strategy, "hit").Inc()
	return locs[0].ID, true, nil
}

// bySubstringThenTokens matches the whole value as a substring first, then
// falls back to its individual whitespace tokens. Short tokens (length 2
// and under) are skipped; they match too promiscuously.
func (r *Resolver) bySubstringThenTokens(ctx context.Context, strategy, value string, find func(context.Context, string) ([]domain.Location, error)) (int64, bool, error) {
	id, found, err := r.firstMatch(ctx, strategy, func(ctx context.Context) ([]domain.Location, error) {
		return find(ctx, value)
	})
	if err != nil || found {
		return id, found, err
	}

	for _, token := range strings.Fields(value) {
		if len(token) <= 2 {
			continue
		}
		id, found, err = r.firstMatch(ctx, strategy+"_token", func(ctx context.Context) ([]domain.Location, error) {
			return find(ctx, token)
		})
		if err != nil || found {
			return id, found, err
		}
	}
	return 0, false, nil
}
