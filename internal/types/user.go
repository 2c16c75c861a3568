package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password     string         `gorm:"not null;column:password" json:"-"`
	Name         string         `gorm:"column:name" json:"name"`
	AvatarURL    string         `gorm:"column:avatar_url" json:"avatar_url"`
	Preferences  datatypes.JSON `gorm:"column:preferences" json:"preferences,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

type UserToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"index;not null" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	AccessToken  string    `gorm:"uniqueIndex;not null;column:access_token" json:"-"`
	RefreshToken string    `gorm:"uniqueIndex;not null;column:refresh_token" json:"-"`
	ExpiresAt    time.Time `gorm:"column:expires_at" json:"expires_at"`
	Revoked      bool      `gorm:"not null;default:false;column:revoked" json:"revoked"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (UserToken) TableName() string {
	return "user_token"
}
