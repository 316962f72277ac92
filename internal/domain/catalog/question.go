package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is a multiple-choice exam question. Every well-formed question
// has exactly one Option with IsCorrect set; rows violating that are skipped
// at serve time and logged.
type Question struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID     uuid.UUID `gorm:"type:uuid;not null;index" json:"topic_id"`
	Topic       *Topic    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	Text        string    `gorm:"not null;column:text" json:"text"`
	Explanation string    `gorm:"column:explanation" json:"explanation"`
	Eli5        string    `gorm:"column:eli5" json:"eli5"`
	Options     []Option  `gorm:"foreignKey:QuestionID;references:ID" json:"options,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Option struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	Text       string    `gorm:"not null;column:text" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false;column:is_correct" json:"is_correct"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Option) TableName() string { return "option" }

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
