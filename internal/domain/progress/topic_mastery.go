package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/domain/user"
)

// TopicMastery is the current mastery score for one (user, topic) pair.
// Score stays within [0,100], never decreases, and saturates at 100.
// A row is created with score 0 for every known topic at registration;
// topics imported later get a row on first submission.
type TopicMastery struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_topic_mastery,unique,priority:1" json:"user_id"`
	User      *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TopicID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_topic_mastery,unique,priority:2" json:"topic_id"`
	Topic     *catalog.Topic `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	Score     int            `gorm:"not null;default:0;column:score" json:"score"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TopicMastery) TableName() string { return "topic_mastery" }

func (m *TopicMastery) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
