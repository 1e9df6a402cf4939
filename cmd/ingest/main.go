package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/sprachhaus/sprachhaus-backend/internal/ingest"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/envutil"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/firestoredb"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/redisdb"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/sheets"
	"github.com/sprachhaus/sprachhaus-backend/internal/repos"
)

// One-shot score-sheet ingestion. With -cron the process stays up and runs
// on the given schedule instead; the redis lease keeps overlapping runs out
// either way.
func main() {
	cronSpec := flag.String("cron", "", "cron spec to run on a schedule instead of once")
	flag.Parse()

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	spreadsheetID, err := envutil.Require("SHEET_SPREADSHEET_ID")
	if err != nil {
		log.Fatal("Missing ingest configuration", "error", err)
	}
	readRange, err := envutil.Require("SHEET_READ_RANGE")
	if err != nil {
		log.Fatal("Missing ingest configuration", "error", err)
	}
	collection, err := envutil.Require("ATTEMPTS_COLLECTION")
	if err != nil {
		log.Fatal("Missing ingest configuration", "error", err)
	}

	source, err := sheets.NewSource(ctx, log)
	if err != nil {
		log.Fatal("Could not init sheet source", "error", err)
	}
	fsClient, err := firestoredb.NewClient(ctx, log)
	if err != nil {
		log.Fatal("Could not init Firestore client", "error", err)
	}
	defer fsClient.Close()

	store, err := repos.NewAttemptStore(fsClient, collection, log)
	if err != nil {
		log.Fatal("Could not init attempt store", "error", err)
	}

	deps := ingest.RunDeps{Source: source, Store: store, Log: log}
	if rdb, err := redisdb.NewClient(log); err != nil {
		log.Warn("Redis init failed, running without the run lock", "error", err)
	} else {
		defer rdb.Close()
		deps.Lock = redisdb.NewRunLock(rdb, log, "ingest:runlock", 0)
	}

	input := ingest.RunInput{
		SpreadsheetID: spreadsheetID,
		ReadRange:     readRange,
		MaxRows:       envutil.Int("INGEST_MAX_ROWS", 0),
	}

	runOnce := func() {
		report, err := ingest.Run(ctx, deps, input)
		switch {
		case errors.Is(err, redisdb.ErrLockHeld):
			log.Warn("Skipping run, another ingestion is in flight")
		case err != nil:
			log.Error("Ingestion run failed", "error", err)
		default:
			log.Info("Run report",
				"run_id", report.RunID.String(),
				"processed_rows", report.ProcessedRows,
				"written", report.Written,
				"skipped", report.Skipped,
			)
		}
	}

	if *cronSpec == "" {
		report, err := ingest.Run(ctx, deps, input)
		if err != nil {
			log.Error("Ingestion run failed", "error", err)
			os.Exit(1)
		}
		log.Info("Run report",
			"run_id", report.RunID.String(),
			"processed_rows", report.ProcessedRows,
			"written", report.Written,
			"skipped", report.Skipped,
		)
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(*cronSpec, runOnce); err != nil {
		log.Fatal("Invalid cron spec", "spec", *cronSpec, "error", err)
	}
	c.Start()
	log.Info("Scheduled ingestion started", "spec", *cronSpec)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	<-c.Stop().Done()
}
