package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/domain/user"
)

// MasteryHistory is the append-only mastery log. Each row records the
// post-update score of one scored submission; rows are never mutated or
// deleted while the owning account exists.
type MasteryHistory struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_history_user_topic,priority:1" json:"user_id"`
	User       *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TopicID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_history_user_topic,priority:2" json:"topic_id"`
	Topic      *catalog.Topic `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	Score      int            `gorm:"not null;column:score" json:"score"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	RecordedAt time.Time      `gorm:"not null;index;column:recorded_at" json:"recorded_at"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (MasteryHistory) TableName() string { return "mastery_history" }

func (h *MasteryHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
