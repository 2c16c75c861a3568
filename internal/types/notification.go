package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

func ValidPlatform(p string) bool {
	return p == PlatformIOS || p == PlatformAndroid || p == PlatformWeb
}

type NotificationCategory string

const (
	NotifyDailyReminder NotificationCategory = "daily_reminder"
	NotifyStoryReady    NotificationCategory = "story_ready"
	NotifyMusicReady    NotificationCategory = "music_ready"
	NotifyEmotionAlert  NotificationCategory = "emotion_alert"
	NotifyTest          NotificationCategory = "test"
)

const (
	NotifyStatusPending = "pending"
	NotifyStatusSent    = "sent"
	NotifyStatusFailed  = "failed"
)

type DeviceToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"index:idx_device_token_user_token,unique;not null" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Token     string    `gorm:"index:idx_device_token_user_token,unique;not null;column:token" json:"token"`
	Platform  string    `gorm:"not null;column:platform" json:"platform"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (DeviceToken) TableName() string {
	return "device_token"
}

type NotificationPreference struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"uniqueIndex;not null" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Enabled         bool      `gorm:"not null;default:true;column:enabled" json:"enabled"`
	DailyReminder   bool      `gorm:"not null;default:true;column:daily_reminder" json:"daily_reminder"`
	StoryReady      bool      `gorm:"not null;default:true;column:story_ready" json:"story_ready"`
	MusicReady      bool      `gorm:"not null;default:true;column:music_ready" json:"music_ready"`
	EmotionAlert    bool      `gorm:"not null;default:true;column:emotion_alert" json:"emotion_alert"`
	QuietHoursStart string    `gorm:"column:quiet_hours_start" json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   string    `gorm:"column:quiet_hours_end" json:"quiet_hours_end,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (NotificationPreference) TableName() string {
	return "notification_preference"
}

type NotificationLog struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID            `gorm:"index;not null" json:"user_id"`
	User      *User                `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Category  NotificationCategory `gorm:"not null;column:category" json:"category"`
	Title     string               `gorm:"not null;column:title" json:"title"`
	Body      string               `gorm:"column:body" json:"body"`
	Data      datatypes.JSON       `gorm:"column:data" json:"data,omitempty"`
	Status    string               `gorm:"not null;column:status" json:"status"`
	Error     string               `gorm:"column:error" json:"error,omitempty"`
	SentAt    *time.Time           `gorm:"column:sent_at" json:"sent_at,omitempty"`
	CreatedAt time.Time            `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time            `gorm:"not null" json:"updated_at"`
}

func (NotificationLog) TableName() string {
	return "notification_log"
}
