package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/domain/user"
)

// UserStats is the per-user gamification counter row. Points only ever
// grow; the submission scorer is the single writer.
type UserStats struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User           *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Points         int            `gorm:"not null;default:0;column:points" json:"points"`
	Streak         int            `gorm:"not null;default:0;column:streak" json:"streak"`
	Level          int            `gorm:"not null;default:1;column:level" json:"level"`
	Readiness      int            `gorm:"not null;default:0;column:readiness" json:"readiness"`
	LastActivityAt *time.Time     `gorm:"column:last_activity_at" json:"last_activity_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserStats) TableName() string { return "user_stats" }

func (s *UserStats) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
