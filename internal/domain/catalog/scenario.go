package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Scenario is a branching coaching-session walkthrough. Nodes holds the
// dialogue graph as JSON: a list of nodes, each with prompt text and choices
// pointing at follow-up node ids.
type Scenario struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"topic_id"`
	Topic       *Topic         `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	Nodes       datatypes.JSON `gorm:"type:jsonb;column:nodes" json:"nodes"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Scenario) TableName() string { return "scenario" }

func (s *Scenario) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
