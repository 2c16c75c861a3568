package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type ListeningEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.ListeningEntry) (*types.ListeningEntry, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.ListeningEntry, error)
	ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.ListeningEntry, error)
}

type listeningEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewListeningEntryRepo(db *gorm.DB, baseLog *logger.Logger) ListeningEntryRepo {
	repoLog := baseLog.With("repo", "ListeningEntryRepo")
	return &listeningEntryRepo{db: db, log: repoLog}
}

func (r *listeningEntryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ListeningEntry) (*types.ListeningEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *listeningEntryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.ListeningEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var entries []*types.ListeningEntry
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("listened_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *listeningEntryRepo) ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.ListeningEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var entries []*types.ListeningEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND listened_at >= ?", userID, since).
		Order("listened_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
