package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/voyagelog/weather-ingest/internal/domain"
	"github.com/voyagelog/weather-ingest/internal/observability"
)

// DefaultFlushSize is the number of stored records accumulated before the
// pending write buffer is committed. It bounds memory use and limits how
// much work one mid-batch storage failure can lose.
const DefaultFlushSize = 100

// SampleSink receives every committed flush group, e.g. a Kafka producer
// feeding downstream consumers. Publish failures never fail a batch; the
// store remains the source of truth.
type SampleSink interface {
	PublishSamples(ctx context.Context, samples []domain.WeatherSample) error
}

// Ingestor runs historical weather uploads through the extract → normalize
// → resolve → dedupe → build → append pipeline. Any per-record failure
// skips only that record; storage failures abort the batch. Processing is
// single-threaded per call: later records reuse earlier records'
// resolution-cache entries, and the flush buffer assumes one writer.
// Concurrent calls are not coordinated, so two simultaneous uploads of the
// same (location, instant) pair can both pass the duplicate guard.
type Ingestor struct {
	locations domain.LocationStore
	samples   domain.SampleStore
	resolver  *Resolver
	sink      SampleSink
	logger    *slog.Logger
	metrics   *observability.Metrics
	flushSize int
}

// NewIngestor creates an Ingestor. Pass a nil sink to disable export
// publishing; flushSize falls back to DefaultFlushSize when non-positive.
func NewIngestor(locations domain.LocationStore, samples domain.SampleStore, resolver *Resolver, sink SampleSink, logger *slog.Logger, metrics *observability.Metrics, flushSize int) *Ingestor {
	if flushSize <= 0 {
		flushSize = DefaultFlushSize
	}
	return &Ingestor{
		locations: locations,
		samples:   samples,
		resolver:  resolver,
		sink:      sink,
		logger:    logger,
		metrics:   metrics,
		flushSize: flushSize,
	}
}

// batch holds the mutable state of one ingestion call: the report being
// accumulated, the pending write buffer, and the per-batch resolution
// cache.
type batch struct {
	report   *domain.IngestionReport
	pending  []domain.WeatherSample
	resolved map[string]int64
}

// singleLocationUnit and multiLocationUnit declare the incoming
// temperature unit per ingestion mode. Historical exports are imperial on
// both upload paths; the normalizer itself is unit-agnostic, so changing a
// mode's unit is a one-constant change.
const (
	singleLocationUnit = domain.Fahrenheit
	multiLocationUnit  = domain.Fahrenheit
)

// IngestSingleLocation ingests records against one caller-supplied
// location. Only top-level field aliases are searched (the legacy upload
// shape).
func (in *Ingestor) IngestSingleLocation(ctx context.Context, locationID int64, records []domain.RawRecord) (*domain.IngestionReport, error) {
	loc, err := in.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("%w: location lookup: %v", domain.ErrStorage, err)
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: id %d", domain.ErrLocationNotFound, locationID)
	}

	logger := in.logger.With("batch_id", uuid.NewString(), "mode", "single", "location_id", locationID)

	process := func(ctx context.Context, rec domain.RawRecord, _ *batch) (*domain.WeatherSample, error) {
		recordedAt, err := domain.ExtractInstant(rec, domain.SingleLocationAliases)
		if err != nil {
			return nil, err
		}
		celsius, err := domain.ExtractTemperature(rec, domain.SingleLocationAliases, singleLocationUnit)
		if err != nil {
			return nil, err
		}
		if err := in.guardDuplicate(ctx, locationID, recordedAt); err != nil {
			return nil, err
		}
		return domain.BuildSample(rec, domain.SingleLocationAliases, locationID, celsius, recordedAt)
	}

	return in.run(ctx, "single", records, process, logger)
}

// IngestMultiLocation ingests records that each identify their own
// location. Descriptors are resolved per record through the strategy
// ladder, memoized for the batch; temperatures are read as Fahrenheit and
// nested main/wind objects are searched as aliases.
func (in *Ingestor) IngestMultiLocation(ctx context.Context, userID int64, records []domain.RawRecord) (*domain.IngestionReport, error) {
	logger := in.logger.With("batch_id", uuid.NewString(), "mode", "multi", "user_id", userID)

	process := func(ctx context.Context, rec domain.RawRecord, b *batch) (*domain.WeatherSample, error) {
		desc, err := domain.ExtractDescriptor(rec)
		if err != nil {
			return nil, err
		}
		recordedAt, err := domain.ExtractInstant(rec, domain.MultiLocationAliases)
		if err != nil {
			return nil, err
		}
		celsius, err := domain.ExtractTemperature(rec, domain.MultiLocationAliases, multiLocationUnit)
		if err != nil {
			return nil, err
		}
		locationID, err := in.resolveCached(ctx, userID, desc, b)
		if err != nil {
			return nil, err
		}
		if err := in.guardDuplicate(ctx, locationID, recordedAt); err != nil {
			return nil, err
		}
		return domain.BuildSample(rec, domain.MultiLocationAliases, locationID, celsius, recordedAt)
	}

	return in.run(ctx, "multi", records, process, logger)
}

// run is the shared batch state machine: process each record to a terminal
// decision, buffer successes, flush in bounded groups, and accumulate the
// report. Only storage failures escape.
func (in *Ingestor) run(ctx context.Context, mode string, records []domain.RawRecord, process func(context.Context, domain.RawRecord, *batch) (*domain.WeatherSample, error), logger *slog.Logger) (*domain.IngestionReport, error) {
	start := time.Now()
	logger.Info("batch started", "records", len(records), "flush_size", in.flushSize)
	in.metrics.BatchRecords.Observe(float64(len(records)))

	b := &batch{
		report:   &domain.IngestionReport{Total: len(records)},
		pending:  make([]domain.WeatherSample, 0, in.flushSize),
		resolved: make(map[string]int64),
	}

	for i, rec := range records {
		sample, err := process(ctx, rec, b)
		switch {
		case errors.Is(err, domain.ErrStorage):
			in.metrics.BatchesTotal.WithLabelValues(mode, "failed").Inc()
			logger.Error("batch aborted", "record", i, "error", err)
			return nil, err
		case errors.Is(err, domain.ErrDuplicateSample):
			b.report.Skipped++
			in.metrics.RecordsProcessed.WithLabelValues("duplicate").Inc()
		case err != nil:
			b.report.Skipped++
			b.report.Errors = append(b.report.Errors, fmt.Sprintf("record %d: %v", i, err))
			in.metrics.RecordsProcessed.WithLabelValues("error").Inc()
			logger.Debug("record skipped", "record", i, "error", err)
		default:
			b.pending = append(b.pending, *sample)
			b.report.Stored++
			in.metrics.RecordsProcessed.WithLabelValues("stored").Inc()
			if len(b.pending) >= in.flushSize {
				if err := in.flush(ctx, b, logger); err != nil {
					in.metrics.BatchesTotal.WithLabelValues(mode, "failed").Inc()
					return nil, err
				}
			}
		}
	}

	if err := in.flush(ctx, b, logger); err != nil {
		in.metrics.BatchesTotal.WithLabelValues(mode, "failed").Inc()
		return nil, err
	}

	b.report.ErrorsCount = len(b.report.Errors)
	if mode == "multi" {
		b.report.LocationsProcessed = len(b.resolved)
		b.report.ResolvedLocations = b.resolved
	}

	in.metrics.BatchesTotal.WithLabelValues(mode, "ok").Inc()
	in.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	logger.Info("batch complete",
		"total", b.report.Total,
		"stored", b.report.Stored,
		"skipped", b.report.Skipped,
		"errors", b.report.ErrorsCount,
		"duration", time.Since(start),
	)
	return b.report, nil
}

// resolveCached resolves a descriptor through the per-batch cache so that
// repeated descriptors across many records incur resolution cost only
// once. Failed resolutions are not cached.
func (in *Ingestor) resolveCached(ctx context.Context, userID int64, desc domain.LocationDescriptor, b *batch) (int64, error) {
	key := desc.CacheKey()
	if id, ok := b.resolved[key]; ok {
		in.metrics.ResolverCache.WithLabelValues("hit").Inc()
		return id, nil
	}
	in.metrics.ResolverCache.WithLabelValues("miss").Inc()

	id, err := in.resolver.Resolve(ctx, userID, desc)
	if err != nil {
		return 0, err
	}
	b.resolved[key] = id
	return id, nil
}

// guardDuplicate checks storage for an existing sample at the exact
// (location, instant) pair. This is a read-then-decide check, not a unique
// constraint; see the Ingestor doc comment for the concurrency caveat.
func (in *Ingestor) guardDuplicate(ctx context.Context, locationID int64, recordedAt time.Time) error {
	exists, err := in.samples.Exists(ctx, locationID, recordedAt)
	if err != nil {
		return fmt.Errorf("%w: duplicate check: %v", domain.ErrStorage, err)
	}
	if exists {
		return domain.ErrDuplicateSample
	}
	return nil
}

// flush commits the pending buffer in one transaction and hands the group
// to the export sink when one is configured.
func (in *Ingestor) flush(ctx context.Context, b *batch, logger *slog.Logger) error {
	if len(b.pending) == 0 {
		return nil
	}
	if err := in.samples.InsertBatch(ctx, b.pending); err != nil {
		logger.Error("flush failed, rolling back group", "samples", len(b.pending), "error", err)
		return fmt.Errorf("%w: flush %d samples: %v", domain.ErrStorage, len(b.pending), err)
	}
	in.metrics.FlushesTotal.Inc()

	if in.sink != nil {
		if err := in.sink.PublishSamples(ctx, b.pending); err != nil {
			logger.Warn("export sink publish failed", "samples", len(b.pending), "error", err)
			in.metrics.SinkPublishErrors.Inc()
		} else {
			in.metrics.SamplesPublished.Add(float64(len(b.pending)))
		}
	}

	b.pending = b.pending[:0]
	return nil
}
