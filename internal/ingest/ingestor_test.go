package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
)

type fakeSource struct {
	matrix [][]string
}

func (f *fakeSource) FetchMatrix(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	return f.matrix, nil
}

type fakeStore struct {
	docs       map[string]*domain.StoredAttempt
	batchSizes []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]*domain.StoredAttempt{}}
}

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.docs[key]
	return ok, nil
}

func (f *fakeStore) CreateBatch(ctx context.Context, rows []*domain.StoredAttempt) (int, int, error) {
	f.batchSizes = append(f.batchSizes, len(rows))
	written, skipped := 0, 0
	for _, row := range rows {
		if _, ok := f.docs[row.Key]; ok {
			skipped++
			continue
		}
		f.docs[row.Key] = row
		written++
	}
	return written, skipped, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func sheetMatrix(rows int) [][]string {
	matrix := [][]string{testHeader}
	for i := 0; i < rows; i++ {
		matrix = append(matrix, []string{
			fmt.Sprintf("S%03d", i),
			"Student",
			fmt.Sprintf("Assignment %d", i+1),
			"80",
			"",
			"2026-03-01",
			"A1",
			"",
		})
	}
	return matrix
}

func TestRunIsIdempotent(t *testing.T) {
	const n = 25
	store := newFakeStore()
	deps := RunDeps{
		Source: &fakeSource{matrix: sheetMatrix(n)},
		Store:  store,
		Log:    testLogger(t),
	}
	input := RunInput{SpreadsheetID: "sheet", ReadRange: "Scores!A:H"}

	first, err := Run(context.Background(), deps, input)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Written != n || first.Skipped != 0 || first.ProcessedRows != n {
		t.Fatalf("first run = %+v, want written=%d skipped=0", first, n)
	}
	if len(store.docs) != n {
		t.Fatalf("store has %d docs, want %d", len(store.docs), n)
	}

	second, err := Run(context.Background(), deps, input)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Written != 0 || second.Skipped != n {
		t.Fatalf("second run = %+v, want written=0 skipped=%d", second, n)
	}
	if len(store.docs) != n {
		t.Fatalf("re-run created duplicates: %d docs", len(store.docs))
	}
}

func TestRunCountsNormalizerSkips(t *testing.T) {
	matrix := sheetMatrix(3)
	matrix[2][0] = "" // drop the student code of one row
	store := newFakeStore()
	deps := RunDeps{Source: &fakeSource{matrix: matrix}, Store: store, Log: testLogger(t)}

	report, err := Run(context.Background(), deps, RunInput{SpreadsheetID: "sheet", ReadRange: "A:H"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.ProcessedRows != 3 || report.Written != 2 || report.Skipped != 1 {
		t.Fatalf("report = %+v, want processed=3 written=2 skipped=1", report)
	}
}

func TestRunFlushesAtBatchCeiling(t *testing.T) {
	rows := flushLimit + 10
	store := newFakeStore()
	deps := RunDeps{Source: &fakeSource{matrix: sheetMatrix(rows)}, Store: store, Log: testLogger(t)}

	report, err := Run(context.Background(), deps, RunInput{SpreadsheetID: "sheet", ReadRange: "A:H"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Written != rows {
		t.Fatalf("written = %d, want %d", report.Written, rows)
	}
	if len(store.batchSizes) != 2 {
		t.Fatalf("batches = %v, want two flushes", store.batchSizes)
	}
	if store.batchSizes[0] != flushLimit || store.batchSizes[1] != 10 {
		t.Fatalf("batch sizes = %v, want [%d 10]", store.batchSizes, flushLimit)
	}
}

func TestRunFailsFatallyOnBadHeader(t *testing.T) {
	matrix := sheetMatrix(2)
	matrix[0] = []string{"Student Code", "Name", "Assignment"}
	store := newFakeStore()
	deps := RunDeps{Source: &fakeSource{matrix: matrix}, Store: store, Log: testLogger(t)}

	_, err := Run(context.Background(), deps, RunInput{SpreadsheetID: "sheet", ReadRange: "A:H"})
	if err == nil {
		t.Fatalf("expected fatal header error")
	}
	if len(store.docs) != 0 {
		t.Fatalf("nothing may be written on a header failure")
	}
}

func TestRunHonorsMaxRows(t *testing.T) {
	store := newFakeStore()
	deps := RunDeps{Source: &fakeSource{matrix: sheetMatrix(10)}, Store: store, Log: testLogger(t)}

	report, err := Run(context.Background(), deps, RunInput{SpreadsheetID: "sheet", ReadRange: "A:H", MaxRows: 4})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.ProcessedRows != 4 || report.Written != 4 {
		t.Fatalf("report = %+v, want 4 rows processed", report)
	}
}

type heldLock struct{}

func (heldLock) Acquire(ctx context.Context) (func(), error) {
	return nil, fmt.Errorf("run lock already held")
}

func TestRunStopsWhenLockHeld(t *testing.T) {
	store := newFakeStore()
	deps := RunDeps{
		Source: &fakeSource{matrix: sheetMatrix(2)},
		Store:  store,
		Lock:   heldLock{},
		Log:    testLogger(t),
	}
	if _, err := Run(context.Background(), deps, RunInput{SpreadsheetID: "sheet", ReadRange: "A:H"}); err == nil {
		t.Fatalf("expected lock error")
	}
	if len(store.docs) != 0 {
		t.Fatalf("locked run must not write")
	}
}
