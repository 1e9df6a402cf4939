package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
)

type AttendanceRepo interface {
	CountSessions(ctx context.Context, studentCode, level string) (int, error)
}

type attendanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttendanceRepo(db *gorm.DB, baseLog *logger.Logger) AttendanceRepo {
	return &attendanceRepo{db: db, log: baseLog.With("repo", "AttendanceRepo")}
}

func (r *attendanceRepo) CountSessions(ctx context.Context, studentCode, level string) (int, error) {
	if studentCode == "" {
		return 0, nil
	}

	var count int64
	q := r.db.WithContext(ctx).
		Model(&domain.ClassSession{}).
		Where("student_code = ?", studentCode)
	if level != "" {
		q = q.Where("level = ?", level)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
