package sheets

import (
	"context"
	"fmt"
	"strings"

	gsheets "google.golang.org/api/sheets/v4"

	"github.com/sprachhaus/sprachhaus-backend/internal/platform/gcpopts"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
)

// Source fetches a rectangular range from a spreadsheet and hands it over as
// a plain string matrix. Everything the score sheet contains is treated as
// text at this layer; typing happens in the normalizer.
type Source interface {
	FetchMatrix(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
}

type source struct {
	svc *gsheets.Service
	log *logger.Logger
}

func NewSource(ctx context.Context, log *logger.Logger) (Source, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	opts := gcpopts.ClientOptionsFromEnv()
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &source{svc: svc, log: log.With("service", "SheetSource")}, nil
}

func (s *source) FetchMatrix(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	if strings.TrimSpace(spreadsheetID) == "" || strings.TrimSpace(readRange) == "" {
		return nil, fmt.Errorf("spreadsheet id and range required")
	}
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch range %q: %w", readRange, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cellString(cell))
		}
		out = append(out, cells)
	}
	s.log.Debug("Fetched sheet range", "range", readRange, "rows", len(out))
	return out, nil
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
