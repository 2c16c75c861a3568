package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type UserUpdate struct {
	Name        *string        `json:"name,omitempty"`
	AvatarURL   *string        `json:"avatar_url,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, upd UserUpdate) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return us.userRepo.GetByID(ctx, nil, userID)
}

func (us *userService) UpdateMe(ctx context.Context, userID uuid.UUID, upd UserUpdate) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*upd.AvatarURL)
	}
	if upd.Preferences != nil {
		raw, mErr := json.Marshal(upd.Preferences)
		if mErr != nil {
			return nil, fmt.Errorf("encode preferences: %w", mErr)
		}
		user.Preferences = datatypes.JSON(raw)
	}
	if err := us.userRepo.Update(ctx, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}
