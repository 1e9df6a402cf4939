package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
)

// Firestore commits at most 500 writes per batch; the headroom keeps the
// flush size clear of the hard ceiling.
const (
	storeMaxBatchOps = 500
	batchHeadroom    = 50
	flushLimit       = storeMaxBatchOps - batchHeadroom
)

type RunDeps struct {
	Source interface {
		FetchMatrix(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
	}
	Store interface {
		Exists(ctx context.Context, key string) (bool, error)
		CreateBatch(ctx context.Context, rows []*domain.StoredAttempt) (written int, skipped int, err error)
	}
	Lock interface {
		Acquire(ctx context.Context) (func(), error)
	}
	Log *logger.Logger
}

type RunInput struct {
	SpreadsheetID string
	ReadRange     string
	MaxRows       int
}

// RunReport is the run's only success signal; nothing about partial
// progress is persisted anywhere else.
type RunReport struct {
	RunID         uuid.UUID     `json:"run_id"`
	ProcessedRows int           `json:"processedRows"`
	Written       int           `json:"written"`
	Skipped       int           `json:"skipped"`
	Duration      time.Duration `json:"-"`
}

// Run executes one ingestion pass: fetch the sheet, normalize, and create
// every attempt document that does not exist yet. Existing documents are
// never overwritten; re-running against unchanged input writes nothing.
func Run(ctx context.Context, deps RunDeps, input RunInput) (RunReport, error) {
	report := RunReport{RunID: uuid.New()}
	if deps.Source == nil || deps.Store == nil || deps.Log == nil {
		return report, fmt.Errorf("ingest: missing deps")
	}
	if input.SpreadsheetID == "" || input.ReadRange == "" {
		return report, fmt.Errorf("ingest: spreadsheet id and read range required")
	}
	log := deps.Log.With("run_id", report.RunID.String())
	start := time.Now()

	if deps.Lock != nil {
		release, err := deps.Lock.Acquire(ctx)
		if err != nil {
			return report, fmt.Errorf("ingest: %w", err)
		}
		defer release()
	}

	matrix, err := deps.Source.FetchMatrix(ctx, input.SpreadsheetID, input.ReadRange)
	if err != nil {
		return report, fmt.Errorf("ingest: %w", err)
	}
	if input.MaxRows > 0 && len(matrix) > input.MaxRows+1 {
		matrix = matrix[:input.MaxRows+1]
	}

	normalized, err := NormalizeMatrix(matrix)
	if err != nil {
		return report, fmt.Errorf("ingest: %w", err)
	}
	report.ProcessedRows = len(normalized.Candidates) + normalized.Skipped
	report.Skipped = normalized.Skipped

	var staged []*domain.StoredAttempt
	flush := func() error {
		if len(staged) == 0 {
			return nil
		}
		written, skipped, err := deps.Store.CreateBatch(ctx, staged)
		if err != nil {
			return err
		}
		report.Written += written
		report.Skipped += skipped
		staged = staged[:0]
		return nil
	}

	for _, candidate := range normalized.Candidates {
		doc := Stored(candidate)
		exists, err := deps.Store.Exists(ctx, doc.Key)
		if err != nil {
			return report, fmt.Errorf("ingest: existence check %s: %w", doc.Key, err)
		}
		if exists {
			report.Skipped++
			continue
		}
		staged = append(staged, doc)
		if len(staged) >= flushLimit {
			if err := flush(); err != nil {
				return report, fmt.Errorf("ingest: flush batch: %w", err)
			}
		}
	}
	if err := flush(); err != nil {
		return report, fmt.Errorf("ingest: flush batch: %w", err)
	}

	report.Duration = time.Since(start)
	log.Info("Ingestion run complete",
		"processed_rows", report.ProcessedRows,
		"written", report.Written,
		"skipped", report.Skipped,
		"duration", report.Duration.String(),
	)
	return report, nil
}
