package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type UserTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error)
	GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.UserToken, error)
	GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error)
	Revoke(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, before time.Time) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	repoLog := baseLog.With("repo", "UserTokenRepo")
	return &userTokenRepo{db: db, log: repoLog}
}

func (r *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (r *userTokenRepo) GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.UserToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var token types.UserToken
	if err := transaction.WithContext(ctx).
		Where("access_token = ?", accessToken).
		First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *userTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var token types.UserToken
	if err := transaction.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *userTokenRepo) Revoke(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserToken{}).
		Where("id = ?", tokenID).
		Update("revoked", true).Error
}

func (r *userTokenRepo) RevokeAllForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserToken{}).
		Where("user_id = ?", userID).
		Update("revoked", true).Error
}

func (r *userTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, before time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&types.UserToken{}).Error
}
