package repository

import (
	"context"

	"shinypull/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreatorStatRepo interface {
	UpsertDailyStat(ctx context.Context, stat *model.CreatorStat) error
	LastNDays(ctx context.Context, creatorID uint64, n int) ([]*model.CreatorStat, error)
}

type creatorStatRepoImpl struct {
	db *gorm.DB
}

func NewCreatorStatRepo(db *gorm.DB) CreatorStatRepo {
	return &creatorStatRepoImpl{db: db}
}

// UpsertDailyStat writes one (creator, day) row. A second write for the
// same day overwrites; duplicate-day rows cannot accumulate.
func (s *creatorStatRepoImpl) UpsertDailyStat(ctx context.Context, stat *model.CreatorStat) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "creator_id"}, {Name: "recorded_at"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscribers", "followers", "total_views", "total_posts", "updated_at",
		}),
	}).Create(stat).Error
}

// LastNDays returns up to n rows, newest first.
func (s *creatorStatRepoImpl) LastNDays(ctx context.Context, creatorID uint64, n int) ([]*model.CreatorStat, error) {
	stats := make([]*model.CreatorStat, 0, n)
	err := s.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("recorded_at DESC").
		Limit(n).
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
