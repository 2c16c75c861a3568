package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type StoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, storyID uuid.UUID) (*types.Story, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Story, error)
	ListAllByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Story, error)
	Update(ctx context.Context, tx *gorm.DB, story *types.Story) error
	Delete(ctx context.Context, tx *gorm.DB, userID, storyID uuid.UUID) (int64, error)
}

type storyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoryRepo(db *gorm.DB, baseLog *logger.Logger) StoryRepo {
	repoLog := baseLog.With("repo", "StoryRepo")
	return &storyRepo{db: db, log: repoLog}
}

func (r *storyRepo) Create(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(story).Error; err != nil {
		return nil, err
	}
	return story, nil
}

func (r *storyRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, storyID uuid.UUID) (*types.Story, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var story types.Story
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", storyID, userID).
		First(&story).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Story, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stories []*types.Story
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *storyRepo) ListAllByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Story, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stories []*types.Story
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *storyRepo) Update(ctx context.Context, tx *gorm.DB, story *types.Story) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(story).Error
}

func (r *storyRepo) Delete(ctx context.Context, tx *gorm.DB, userID, storyID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", storyID, userID).
		Delete(&types.Story{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
