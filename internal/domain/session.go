package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassSession records one attended class session. It is written by the
// scheduling subsystem; the analytics read path only counts rows per
// student and level.
type ClassSession struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	StudentCode string    `gorm:"column:student_code;not null;index:idx_class_session_student" json:"student_code"`
	Level       string    `gorm:"column:level;not null;index:idx_class_session_student" json:"level"`
	HeldAt      time.Time `gorm:"column:held_at;not null;index" json:"held_at"`
	Topic       string    `gorm:"column:topic" json:"topic,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ClassSession) TableName() string { return "class_session" }
