package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type EmotionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *types.EmotionRecord) (*types.EmotionRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, recID uuid.UUID) (*types.EmotionRecord, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.EmotionRecord, error)
	ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.EmotionRecord, error)
	ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.EmotionRecord, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, rec *types.EmotionRecord) error
	Delete(ctx context.Context, tx *gorm.DB, userID, recID uuid.UUID) (int64, error)
}

type emotionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmotionRepo(db *gorm.DB, baseLog *logger.Logger) EmotionRepo {
	repoLog := baseLog.With("repo", "EmotionRepo")
	return &emotionRepo{db: db, log: repoLog}
}

func (r *emotionRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.EmotionRecord) (*types.EmotionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *emotionRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, recID uuid.UUID) (*types.EmotionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rec types.EmotionRecord
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", recID, userID).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *emotionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.EmotionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var recs []*types.EmotionRecord
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *emotionRepo) ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.EmotionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var recs []*types.EmotionRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *emotionRepo) ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.EmotionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 5
	}
	var recs []*types.EmotionRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *emotionRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.EmotionRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *emotionRepo) Update(ctx context.Context, tx *gorm.DB, rec *types.EmotionRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(rec).Error
}

func (r *emotionRepo) Delete(ctx context.Context, tx *gorm.DB, userID, recID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", recID, userID).
		Delete(&types.EmotionRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
