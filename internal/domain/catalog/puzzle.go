package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Puzzle is an ordering exercise. Steps holds the step list as JSON in
// canonical order; presentation-side shuffling is a client concern.
type Puzzle struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"topic_id"`
	Topic     *Topic         `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	Title     string         `gorm:"not null;column:title" json:"title"`
	Prompt    string         `gorm:"column:prompt" json:"prompt"`
	Steps     datatypes.JSON `gorm:"type:jsonb;column:steps" json:"steps"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Puzzle) TableName() string { return "puzzle" }

func (p *Puzzle) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
