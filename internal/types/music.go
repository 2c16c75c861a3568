package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RecommendationType string

const (
	RecMoodBoost RecommendationType = "mood_boost"
	RecCalmDown  RecommendationType = "calm_down"
	RecEnergize  RecommendationType = "energize"
	RecFocus     RecommendationType = "focus"
	RecSleep     RecommendationType = "sleep"
	RecHealing   RecommendationType = "healing"
	RecCathartic RecommendationType = "cathartic"
)

func ValidRecommendationType(t RecommendationType) bool {
	switch t {
	case RecMoodBoost, RecCalmDown, RecEnergize, RecFocus, RecSleep, RecHealing, RecCathartic:
		return true
	}
	return false
}

const (
	FeedbackLiked    = "liked"
	FeedbackDisliked = "disliked"
	FeedbackSaved    = "saved"
)

func ValidFeedback(f string) bool {
	return f == FeedbackLiked || f == FeedbackDisliked || f == FeedbackSaved
}

// Track is the shape stored inside the tracks JSON bag of a recommendation.
type Track struct {
	Title     string         `json:"title"`
	Artist    string         `json:"artist"`
	SpotifyID string         `json:"spotify_id,omitempty"`
	Genre     string         `json:"genre,omitempty"`
	Valence   float64        `json:"valence"`
	Energy    float64        `json:"energy"`
	Tempo     float64        `json:"tempo"`
	Score     float64        `json:"score,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

type MusicRecommendation struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID          `gorm:"index;not null" json:"user_id"`
	User           *User              `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	RecType        RecommendationType `gorm:"not null;column:rec_type" json:"rec_type"`
	EmotionContext datatypes.JSON     `gorm:"column:emotion_context" json:"emotion_context,omitempty"`
	Tracks         datatypes.JSON     `gorm:"column:tracks" json:"tracks,omitempty"`
	Feedback       *string            `gorm:"column:feedback" json:"feedback,omitempty"`
	PlayedAt       *time.Time         `gorm:"column:played_at" json:"played_at,omitempty"`
	CreatedAt      time.Time          `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"not null" json:"updated_at"`
}

func (MusicRecommendation) TableName() string {
	return "music_recommendation"
}

type MusicProfile struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"uniqueIndex;not null" json:"user_id"`
	User             *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	HealingPlaylist  datatypes.JSON `gorm:"column:healing_playlist" json:"healing_playlist,omitempty"`
	TriggerSongs     datatypes.JSON `gorm:"column:trigger_songs" json:"trigger_songs,omitempty"`
	MusicForEmotions datatypes.JSON `gorm:"column:music_for_emotions" json:"music_for_emotions,omitempty"`
	PreferredGenres  datatypes.JSON `gorm:"column:preferred_genres" json:"preferred_genres,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (MusicProfile) TableName() string {
	return "music_profile"
}

// ListeningEntry is one row of the music diary: what was listened to and
// how the mood moved around it.
type ListeningEntry struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"index;not null" json:"user_id"`
	User            *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Track           datatypes.JSON `gorm:"column:track" json:"track,omitempty"`
	EmotionBefore   EmotionType    `gorm:"column:emotion_before" json:"emotion_before"`
	EmotionAfter    EmotionType    `gorm:"column:emotion_after" json:"emotion_after"`
	IntensityBefore int            `gorm:"column:intensity_before" json:"intensity_before"`
	IntensityAfter  int            `gorm:"column:intensity_after" json:"intensity_after"`
	Note            string         `gorm:"column:note" json:"note,omitempty"`
	ListenedAt      time.Time      `gorm:"not null;index;column:listened_at" json:"listened_at"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (ListeningEntry) TableName() string {
	return "listening_entry"
}
