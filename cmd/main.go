package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sprachhaus/sprachhaus-backend/internal/curriculum"
	"github.com/sprachhaus/sprachhaus-backend/internal/db"
	"github.com/sprachhaus/sprachhaus-backend/internal/handlers"
	"github.com/sprachhaus/sprachhaus-backend/internal/ingest"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/envutil"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/firestoredb"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/redisdb"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/sheets"
	"github.com/sprachhaus/sprachhaus-backend/internal/repos"
	"github.com/sprachhaus/sprachhaus-backend/internal/server"
	"github.com/sprachhaus/sprachhaus-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Curriculum
	scheduleDir := envutil.String("SCHEDULE_DIR", "configs/schedules")
	catalog, err := curriculum.LoadDir(scheduleDir, log)
	if err != nil {
		log.Error("Could not load curriculum catalog", "error", err)
		os.Exit(1)
	}

	// Firestore
	fsClient, err := firestoredb.NewClient(ctx, log)
	if err != nil {
		log.Error("Could not init Firestore client", "error", err)
		os.Exit(1)
	}
	defer fsClient.Close()

	collection, err := envutil.Require("ATTEMPTS_COLLECTION")
	if err != nil {
		log.Error("Missing ingest configuration", "error", err)
		os.Exit(1)
	}
	attemptStore, err := repos.NewAttemptStore(fsClient, collection, log)
	if err != nil {
		log.Error("Could not init attempt store", "error", err)
		os.Exit(1)
	}

	// Postgres (attendance read model)
	var attendanceRepo repos.AttendanceRepo
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Warn("Postgres init failed, readiness runs without attendance", "error", err)
	} else {
		if err := postgresService.AutoMigrateAll(); err != nil {
			log.Warn("Postgres auto migration failed", "error", err)
		}
		attendanceRepo = repos.NewAttendanceRepo(postgresService.DB(), log)
	}

	// Redis (run lock + read cache), optional
	rdb, err := redisdb.NewClient(log)
	if err != nil {
		log.Warn("Redis init failed, running without cache and run lock", "error", err)
		rdb = nil
	}

	// Services
	progressService, err := services.NewProgressService(attemptStore, attendanceRepo, catalog, rdb, log)
	if err != nil {
		log.Error("Could not init ProgressService", "error", err)
		os.Exit(1)
	}

	// Ingest trigger (manual runs over HTTP)
	var ingestHandler *handlers.IngestHandler
	spreadsheetID := envutil.String("SHEET_SPREADSHEET_ID", "")
	readRange := envutil.String("SHEET_READ_RANGE", "")
	if spreadsheetID != "" && readRange != "" {
		source, err := sheets.NewSource(ctx, log)
		if err != nil {
			log.Error("Could not init sheet source", "error", err)
			os.Exit(1)
		}
		deps := ingest.RunDeps{Source: source, Store: attemptStore, Log: log}
		if rdb != nil {
			deps.Lock = redisdb.NewRunLock(rdb, log, "ingest:runlock", 0)
		}
		ingestHandler = handlers.NewIngestHandler(deps, ingest.RunInput{
			SpreadsheetID: spreadsheetID,
			ReadRange:     readRange,
			MaxRows:       envutil.Int("INGEST_MAX_ROWS", 0),
		})
	} else {
		log.Info("Sheet source not configured, ingest trigger disabled")
	}

	// Router
	router := server.NewRouter(server.RouterConfig{
		ProgressHandler: handlers.NewProgressHandler(progressService),
		IngestHandler:   ingestHandler,
		AllowOrigins:    splitOrigins(envutil.String("CORS_ALLOW_ORIGINS", "")),
	})

	port := envutil.String("PORT", "8080")
	log.Info("Starting API server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
