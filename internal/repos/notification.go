package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type DeviceTokenRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, token *types.DeviceToken) (*types.DeviceToken, error)
	GetByUserAndToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) (*types.DeviceToken, error)
	ListActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DeviceToken, error)
	Deactivate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) (int64, error)
	DeactivateByToken(ctx context.Context, tx *gorm.DB, token string) error
}

type deviceTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeviceTokenRepo(db *gorm.DB, baseLog *logger.Logger) DeviceTokenRepo {
	repoLog := baseLog.With("repo", "DeviceTokenRepo")
	return &deviceTokenRepo{db: db, log: repoLog}
}

func (r *deviceTokenRepo) Upsert(ctx context.Context, tx *gorm.DB, token *types.DeviceToken) (*types.DeviceToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var existing types.DeviceToken
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND token = ?", token.UserID, token.Token).
		First(&existing).Error
	if err == nil {
		existing.Platform = token.Platform
		existing.IsActive = true
		if uerr := transaction.WithContext(ctx).Save(&existing).Error; uerr != nil {
			return nil, uerr
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if cerr := transaction.WithContext(ctx).Create(token).Error; cerr != nil {
		return nil, cerr
	}
	return token, nil
}

func (r *deviceTokenRepo) GetByUserAndToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) (*types.DeviceToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var dt types.DeviceToken
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		First(&dt).Error; err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *deviceTokenRepo) ListActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DeviceToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var tokens []*types.DeviceToken
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *deviceTokenRepo) Deactivate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.DeviceToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *deviceTokenRepo) DeactivateByToken(ctx context.Context, tx *gorm.DB, token string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.DeviceToken{}).
		Where("token = ?", token).
		Update("is_active", false).Error
}

type NotificationPrefRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pref *types.NotificationPreference) (*types.NotificationPreference, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.NotificationPreference, error)
	Update(ctx context.Context, tx *gorm.DB, pref *types.NotificationPreference) error
}

type notificationPrefRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationPrefRepo(db *gorm.DB, baseLog *logger.Logger) NotificationPrefRepo {
	repoLog := baseLog.With("repo", "NotificationPrefRepo")
	return &notificationPrefRepo{db: db, log: repoLog}
}

func (r *notificationPrefRepo) Create(ctx context.Context, tx *gorm.DB, pref *types.NotificationPreference) (*types.NotificationPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(pref).Error; err != nil {
		return nil, err
	}
	return pref, nil
}

func (r *notificationPrefRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.NotificationPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var pref types.NotificationPreference
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *notificationPrefRepo) Update(ctx context.Context, tx *gorm.DB, pref *types.NotificationPreference) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(pref).Error
}

type NotificationLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logRow *types.NotificationLog) (*types.NotificationLog, error)
	Update(ctx context.Context, tx *gorm.DB, logRow *types.NotificationLog) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.NotificationLog, error)
}

type notificationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationLogRepo(db *gorm.DB, baseLog *logger.Logger) NotificationLogRepo {
	repoLog := baseLog.With("repo", "NotificationLogRepo")
	return &notificationLogRepo{db: db, log: repoLog}
}

func (r *notificationLogRepo) Create(ctx context.Context, tx *gorm.DB, logRow *types.NotificationLog) (*types.NotificationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(logRow).Error; err != nil {
		return nil, err
	}
	return logRow, nil
}

func (r *notificationLogRepo) Update(ctx context.Context, tx *gorm.DB, logRow *types.NotificationLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(logRow).Error
}

func (r *notificationLogRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.NotificationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.NotificationLog
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
