package repository

import (
	"context"
	"errors"
	"strings"

	"shinypull/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreatorRepo interface {
	UpsertCreator(ctx context.Context, creator *model.Creator) (*model.Creator, error)
	GetByIdentity(ctx context.Context, platform, platformID string) (*model.Creator, error)
	LeastRecentlyUpdated(ctx context.Context, platform string, n int) ([]*model.Creator, error)
	TopByFollowers(ctx context.Context, platform string, n int, since string) ([]*model.Creator, error)
	UsernamesByPlatform(ctx context.Context, platform string) (map[string]struct{}, error)
}

type creatorRepoImpl struct {
	db *gorm.DB
}

func NewCreatorRepo(db *gorm.DB) CreatorRepo {
	return &creatorRepoImpl{db: db}
}

// UpsertCreator inserts or updates keyed on (platform, platform_id).
// Username and the other display fields are mutable and refreshed on
// every conflict; the identity columns never are.
func (s *creatorRepoImpl) UpsertCreator(ctx context.Context, creator *model.Creator) (*model.Creator, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}, {Name: "platform_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "display_name", "profile_image", "description", "category", "country", "updated_at",
		}),
	}).Create(creator).Error
	if err != nil {
		return nil, err
	}

	if creator.ID == 0 {
		return s.GetByIdentity(ctx, creator.Platform, creator.PlatformID)
	}
	return creator, nil
}

func (s *creatorRepoImpl) GetByIdentity(ctx context.Context, platform, platformID string) (*model.Creator, error) {
	var creator model.Creator
	err := s.db.WithContext(ctx).
		Where("platform = ? AND platform_id = ?", platform, platformID).
		First(&creator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &creator, nil
}

func (s *creatorRepoImpl) LeastRecentlyUpdated(ctx context.Context, platform string, n int) ([]*model.Creator, error) {
	creators := make([]*model.Creator, 0, n)
	err := s.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("updated_at ASC").
		Limit(n).
		Find(&creators).Error
	if err != nil {
		return nil, err
	}
	return creators, nil
}

// TopByFollowers ranks by each creator's most recent stat row on or
// after `since` (YYYY-MM-DD). Creators with no recent stat are excluded,
// not ranked as zero.
func (s *creatorRepoImpl) TopByFollowers(ctx context.Context, platform string, n int, since string) ([]*model.Creator, error) {
	creators := make([]*model.Creator, 0, n)
	err := s.db.WithContext(ctx).Raw(`
		SELECT creators.* FROM creators
		JOIN (
			SELECT cs.creator_id, cs.followers
			FROM creator_stats cs
			JOIN (
				SELECT creator_id, MAX(recorded_at) AS max_day
				FROM creator_stats
				WHERE recorded_at >= ?
				GROUP BY creator_id
			) latest ON latest.creator_id = cs.creator_id AND latest.max_day = cs.recorded_at
		) ranked ON ranked.creator_id = creators.id
		WHERE creators.platform = ?
		ORDER BY ranked.followers DESC
		LIMIT ?`, since, platform, n).
		Scan(&creators).Error
	if err != nil {
		return nil, err
	}
	return creators, nil
}

// UsernamesByPlatform returns the lowercased set of tracked usernames,
// used by discovery to skip candidates case-insensitively.
func (s *creatorRepoImpl) UsernamesByPlatform(ctx context.Context, platform string) (map[string]struct{}, error) {
	var usernames []string
	err := s.db.WithContext(ctx).
		Model(&model.Creator{}).
		Where("platform = ?", platform).
		Pluck("username", &usernames).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(usernames))
	for _, username := range usernames {
		set[strings.ToLower(username)] = struct{}{}
	}
	return set, nil
}
