package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/sprachhaus/sprachhaus-backend/internal/analytics"
	"github.com/sprachhaus/sprachhaus-backend/internal/curriculum"
	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
	"github.com/sprachhaus/sprachhaus-backend/internal/repos"
)

const cacheTTL = 60 * time.Second

// ProgressService assembles the derived read models: per-student progress,
// readiness classification and per-level leaderboards. All derivation is
// recomputed on read; the redis cache is transparent and best-effort.
type ProgressService struct {
	store      repos.AttemptStore
	attendance repos.AttendanceRepo
	catalog    *curriculum.Catalog
	rdb        *goredis.Client
	log        *logger.Logger
}

func NewProgressService(
	store repos.AttemptStore,
	attendance repos.AttendanceRepo,
	catalog *curriculum.Catalog,
	rdb *goredis.Client,
	log *logger.Logger,
) (*ProgressService, error) {
	if store == nil || catalog == nil || log == nil {
		return nil, fmt.Errorf("attempt store, catalog and logger required")
	}
	return &ProgressService{
		store:      store,
		attendance: attendance,
		catalog:    catalog,
		rdb:        rdb,
		log:        log.With("service", "ProgressService"),
	}, nil
}

func (s *ProgressService) StudentProgress(ctx context.Context, studentCode, level string) (*domain.ProgressReport, error) {
	cacheKey := fmt.Sprintf("progress:%s:%s", studentCode, level)
	if report := cached[domain.ProgressReport](ctx, s, cacheKey); report != nil {
		return report, nil
	}

	attempts, err := s.store.ListByStudentLevel(ctx, studentCode, level)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	progress := analytics.BuildProgress(analytics.ProgressInput{
		Attempts: attempts,
		Catalog:  s.catalog.ForLevel(level),
		Now:      time.Now(),
	})
	report := progress.Report()
	s.cachePut(ctx, cacheKey, report)
	return report, nil
}

// Readiness fans out the attempt and attendance fetches; they are
// independent reads with no ordering between them.
func (s *ProgressService) Readiness(ctx context.Context, studentCode, level string) (*domain.ReadinessResult, error) {
	var (
		attempts []*domain.StoredAttempt
		sessions int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ListByStudentLevel(gctx, studentCode, level)
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}
		attempts = rows
		return nil
	})
	g.Go(func() error {
		if s.attendance == nil {
			return nil
		}
		n, err := s.attendance.CountSessions(gctx, studentCode, level)
		if err != nil {
			// Conservative fallback beats a failed page: zero sessions can
			// only lower the tier.
			s.log.Warn("Attendance count failed", "student_code", studentCode, "error", err)
			return nil
		}
		sessions = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	progress := analytics.BuildProgress(analytics.ProgressInput{
		Attempts: attempts,
		Catalog:  s.catalog.ForLevel(level),
		Now:      time.Now(),
	})
	input := analytics.ReadinessInput{
		AttendanceSessions: sessions,
		Completed:          progress.Completed,
	}
	if entries := s.catalog.ForLevel(level); len(entries) > 0 {
		total := len(entries)
		input.TotalAssignments = &total
	}
	result := analytics.Classify(input)
	return &result, nil
}

func (s *ProgressService) Leaderboard(ctx context.Context, level string) ([]domain.LeaderboardRow, error) {
	cacheKey := fmt.Sprintf("leaderboard:%s", level)
	if rows := cached[[]domain.LeaderboardRow](ctx, s, cacheKey); rows != nil {
		return *rows, nil
	}

	attempts, err := s.store.ListByLevel(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("list level attempts: %w", err)
	}
	rows := analytics.BuildLeaderboard(attempts)
	if rows == nil {
		rows = []domain.LeaderboardRow{}
	}
	s.cachePut(ctx, cacheKey, rows)
	return rows, nil
}

func cached[T any](ctx context.Context, s *ProgressService, key string) *T {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

func (s *ProgressService) cachePut(ctx context.Context, key string, value any) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		s.log.Debug("Cache write failed", "key", key, "error", err)
	}
}
