package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StoryType string

const (
	StoryHealing    StoryType = "healing"
	StoryAdventure  StoryType = "adventure"
	StoryMeditation StoryType = "meditation"
	StoryFantasy    StoryType = "fantasy"
	StoryPersonal   StoryType = "personal"
)

func ValidStoryType(t StoryType) bool {
	switch t {
	case StoryHealing, StoryAdventure, StoryMeditation, StoryFantasy, StoryPersonal:
		return true
	}
	return false
}

type Story struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"index;not null" json:"user_id"`
	User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title          string         `gorm:"not null;column:title" json:"title"`
	Content        string         `gorm:"not null;column:content" json:"content"`
	StoryType      StoryType      `gorm:"not null;column:story_type" json:"story_type"`
	EmotionContext datatypes.JSON `gorm:"column:emotion_context" json:"emotion_context,omitempty"`
	Choices        datatypes.JSON `gorm:"column:choices" json:"choices,omitempty"`
	IsCompleted    bool           `gorm:"not null;default:false;column:is_completed" json:"is_completed"`
	IsFallback     bool           `gorm:"not null;default:false;column:is_fallback" json:"is_fallback"`
	Rating         *int           `gorm:"column:rating" json:"rating,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Story) TableName() string {
	return "story"
}
