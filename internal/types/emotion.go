package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EmotionType string

const (
	EmotionJoy          EmotionType = "joy"
	EmotionSadness      EmotionType = "sadness"
	EmotionAnger        EmotionType = "anger"
	EmotionFear         EmotionType = "fear"
	EmotionSurprise     EmotionType = "surprise"
	EmotionDisgust      EmotionType = "disgust"
	EmotionTrust        EmotionType = "trust"
	EmotionAnticipation EmotionType = "anticipation"

	// EmotionNeutral is the analyzer fallback; clients never submit it.
	EmotionNeutral EmotionType = "neutral"
)

func ValidEmotionType(t EmotionType) bool {
	switch t {
	case EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear,
		EmotionSurprise, EmotionDisgust, EmotionTrust, EmotionAnticipation,
		EmotionNeutral:
		return true
	}
	return false
}

// Polarity is +1 for positive emotions, -1 for negative ones, 0 for neutral.
func (t EmotionType) Polarity() float64 {
	switch t {
	case EmotionJoy, EmotionTrust, EmotionAnticipation, EmotionSurprise:
		return 1
	case EmotionSadness, EmotionAnger, EmotionFear, EmotionDisgust:
		return -1
	default:
		return 0
	}
}

const (
	EmotionSourceText  = "text"
	EmotionSourceVoice = "voice"
)

type EmotionRecord struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"index;not null" json:"user_id"`
	User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Text           string         `gorm:"not null;column:text" json:"text"`
	EmotionType    EmotionType    `gorm:"not null;column:emotion_type" json:"emotion_type"`
	Intensity      int            `gorm:"not null;column:intensity" json:"intensity"`
	SentimentScore float64        `gorm:"not null;column:sentiment_score" json:"sentiment_score"`
	AIAnalysis     datatypes.JSON `gorm:"column:ai_analysis" json:"ai_analysis,omitempty"`
	Source         string         `gorm:"not null;default:text;column:source" json:"source"`
	Transcript     string         `gorm:"column:transcript" json:"transcript,omitempty"`
	AudioKey       string         `gorm:"column:audio_key" json:"audio_key,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (EmotionRecord) TableName() string {
	return "emotion_record"
}
