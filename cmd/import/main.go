// Command import runs a one-shot historical weather import from a JSON
// file against the journal database, without going through the HTTP
// service. Useful for backfills and for inspecting how a messy dataset
// resolves before uploading it for real.
//
// Usage:
//
//	go run ./cmd/import -db weather.db -file export.json -location 42
//	go run ./cmd/import -db weather.db -file export.json -user 7
//
// Exactly one of -location (single-location mode) or -user (multi-location
// mode) must be given. The ingestion report is printed to stdout as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/voyagelog/weather-ingest/internal/adapter/sqlite"
	"github.com/voyagelog/weather-ingest/internal/domain"
	"github.com/voyagelog/weather-ingest/internal/ingest"
	"github.com/voyagelog/weather-ingest/internal/observability"
)

func main() {
	dbPath := flag.String("db", "weather.db", "path to the journal SQLite database")
	file := flag.String("file", "", "path to a JSON array of raw weather records")
	locationID := flag.Int64("location", 0, "ingest against this location id (single-location mode)")
	userID := flag.Int64("user", 0, "resolve locations per record for this user id (multi-location mode)")
	flushSize := flag.Int("flush-size", ingest.DefaultFlushSize, "records per committed flush group")
	flag.Parse()

	if *file == "" || (*locationID == 0) == (*userID == 0) {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*dbPath, *file, *locationID, *userID, *flushSize); err != nil {
		fmt.Fprintln(os.Stderr, "import failed:", err)
		os.Exit(1)
	}
}

func run(dbPath, file string, locationID, userID int64, flushSize int) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var records []domain.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("%s must contain a JSON array of objects: %w", file, err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	metrics := observability.NewMetrics()

	store, err := sqlite.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	resolver := ingest.NewResolver(store, logger, metrics)
	ingestor := ingest.NewIngestor(store, store, resolver, nil, logger, metrics, flushSize)

	ctx := context.Background()
	var report *domain.IngestionReport
	if locationID != 0 {
		report, err = ingestor.IngestSingleLocation(ctx, locationID, records)
	} else {
		report, err = ingestor.IngestMultiLocation(ctx, userID, records)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
