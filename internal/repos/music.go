package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type MusicRecommendationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *types.MusicRecommendation) (*types.MusicRecommendation, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, recID uuid.UUID) (*types.MusicRecommendation, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.MusicRecommendation, error)
	Update(ctx context.Context, tx *gorm.DB, rec *types.MusicRecommendation) error
}

type musicRecommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMusicRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) MusicRecommendationRepo {
	repoLog := baseLog.With("repo", "MusicRecommendationRepo")
	return &musicRecommendationRepo{db: db, log: repoLog}
}

func (r *musicRecommendationRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.MusicRecommendation) (*types.MusicRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *musicRecommendationRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, recID uuid.UUID) (*types.MusicRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rec types.MusicRecommendation
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", recID, userID).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *musicRecommendationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.MusicRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var recs []*types.MusicRecommendation
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

func (r *musicRecommendationRepo) Update(ctx context.Context, tx *gorm.DB, rec *types.MusicRecommendation) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(rec).Error
}

type MusicProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profile *types.MusicProfile) (*types.MusicProfile, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.MusicProfile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *types.MusicProfile) error
}

type musicProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMusicProfileRepo(db *gorm.DB, baseLog *logger.Logger) MusicProfileRepo {
	repoLog := baseLog.With("repo", "MusicProfileRepo")
	return &musicProfileRepo{db: db, log: repoLog}
}

func (r *musicProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *types.MusicProfile) (*types.MusicProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *musicProfileRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.MusicProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var profile types.MusicProfile
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *musicProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *types.MusicProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(profile).Error
}
