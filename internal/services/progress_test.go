package services

import (
	"context"
	"testing"
	"time"

	"github.com/sprachhaus/sprachhaus-backend/internal/curriculum"
	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
)

type fakeAttempts struct {
	rows []*domain.StoredAttempt
}

func (f *fakeAttempts) Exists(ctx context.Context, key string) (bool, error) { return false, nil }
func (f *fakeAttempts) CreateBatch(ctx context.Context, rows []*domain.StoredAttempt) (int, int, error) {
	return 0, 0, nil
}
func (f *fakeAttempts) ListByStudentLevel(ctx context.Context, studentCode, level string) ([]*domain.StoredAttempt, error) {
	var out []*domain.StoredAttempt
	for _, r := range f.rows {
		if r.StudentCode == studentCode {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeAttempts) ListByLevel(ctx context.Context, level string) ([]*domain.StoredAttempt, error) {
	return f.rows, nil
}

type fakeAttendance struct {
	sessions int
}

func (f *fakeAttendance) CountSessions(ctx context.Context, studentCode, level string) (int, error) {
	return f.sessions, nil
}

func testCatalog(t *testing.T) *curriculum.Catalog {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	one, two, three := 1, 2, 3
	return curriculum.NewFromEntries(map[string][]domain.CurriculumEntry{
		"A1": {
			{Identifier: "1", Day: &one, Label: "Eins"},
			{Identifier: "2", Day: &two, Label: "Zwei"},
			{Identifier: "3", Day: &three, Label: "Drei"},
		},
	}, log)
}

func storedAttempt(code, id string, v float64, when time.Time) *domain.StoredAttempt {
	return &domain.StoredAttempt{
		StudentCode:    code,
		Name:           "Student " + code,
		AssignmentText: "Assignment " + id,
		AssignmentID:   id,
		Score:          &v,
		DateISO:        when.Format(time.RFC3339),
		Level:          "A1",
	}
}

func newTestService(t *testing.T, store *fakeAttempts, attendance *fakeAttendance) *ProgressService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc, err := NewProgressService(store, attendance, testCatalog(t), nil, log)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc
}

func TestStudentProgressAssemblesReport(t *testing.T) {
	now := time.Now()
	store := &fakeAttempts{rows: []*domain.StoredAttempt{
		storedAttempt("S1", "1", 80, now),
		storedAttempt("S1", "2", 40, now.AddDate(0, 0, -1)),
	}}
	svc := newTestService(t, store, &fakeAttendance{sessions: 4})

	report, err := svc.StudentProgress(context.Background(), "S1", "A1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(report.CompletedAssignments) != 1 || report.CompletedAssignments[0].Identifier != "1" {
		t.Fatalf("completed = %+v", report.CompletedAssignments)
	}
	if report.CompletedAssignments[0].Label != "Eins" {
		t.Fatalf("label should come from the catalog, got %q", report.CompletedAssignments[0].Label)
	}
	if !report.RecommendationBlocked || report.NextRecommendation != nil {
		t.Fatalf("an outstanding failure must block the recommendation")
	}
	if report.StreakDays != 2 {
		t.Fatalf("streak = %d, want 2", report.StreakDays)
	}
}

func TestReadinessCombinesAttendance(t *testing.T) {
	now := time.Now()
	store := &fakeAttempts{rows: []*domain.StoredAttempt{
		storedAttempt("S1", "1", 85, now),
		storedAttempt("S1", "2", 85, now),
		storedAttempt("S1", "3", 85, now),
	}}
	svc := newTestService(t, store, &fakeAttendance{sessions: 6})

	res, err := svc.Readiness(context.Background(), "S1", "A1")
	if err != nil {
		t.Fatalf("readiness: %v", err)
	}
	if res.AttendanceSessions != 6 {
		t.Fatalf("attendance = %d, want 6", res.AttendanceSessions)
	}
	// Catalog of three items: readyTarget ceil(3*0.7)=3, all met.
	if res.Tier != domain.TierReady {
		t.Fatalf("tier = %s, want ready", res.Tier)
	}
}

func TestReadinessWithoutAttendanceRepo(t *testing.T) {
	store := &fakeAttempts{rows: nil}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc, err := NewProgressService(store, nil, testCatalog(t), nil, log)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	res, err := svc.Readiness(context.Background(), "S1", "A1")
	if err != nil {
		t.Fatalf("readiness: %v", err)
	}
	if res.Tier != domain.TierNotReady {
		t.Fatalf("no data must classify as not_ready, got %s", res.Tier)
	}
}

func TestLeaderboardNeverNil(t *testing.T) {
	svc := newTestService(t, &fakeAttempts{}, &fakeAttendance{})
	rows, err := svc.Leaderboard(context.Background(), "A1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if rows == nil {
		t.Fatalf("empty board should be [], not nil")
	}
}
