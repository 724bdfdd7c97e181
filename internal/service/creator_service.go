package service

import (
	"context"

	"shinypull/internal/model"
	"shinypull/internal/pkg/platform"
	"shinypull/internal/pkg/util"
	"shinypull/internal/repository"
)

// descriptionMaxLen clamps profile descriptions at the write boundary.
const descriptionMaxLen = 500

// topFollowersWindowDays bounds how stale a stat row may be and still
// count toward rankings.
const topFollowersWindowDays = 14

type CreatorService interface {
	// IngestProfile upserts the creator's identity row and today's
	// (NY-local) stat row from one fetched snapshot.
	IngestProfile(ctx context.Context, profile *platform.Profile) (*model.Creator, error)
	TopByFollowers(ctx context.Context, platformName string, n int) ([]*model.Creator, error)
}

type creatorServiceImpl struct {
	creatorRepo repository.CreatorRepo
	statRepo    repository.CreatorStatRepo
}

func NewCreatorService(creatorRepo repository.CreatorRepo, statRepo repository.CreatorStatRepo) CreatorService {
	return &creatorServiceImpl{
		creatorRepo: creatorRepo,
		statRepo:    statRepo,
	}
}

func (s *creatorServiceImpl) IngestProfile(ctx context.Context, profile *platform.Profile) (*model.Creator, error) {
	description := profile.Description
	if len(description) > descriptionMaxLen {
		description = description[:descriptionMaxLen]
	}

	creator, err := s.creatorRepo.UpsertCreator(ctx, &model.Creator{
		Platform:     profile.Platform,
		PlatformID:   profile.PlatformID,
		Username:     profile.Username,
		DisplayName:  profile.DisplayName,
		ProfileImage: profile.ProfileImage,
		Description:  description,
		Category:     util.PtrString(profile.Category),
		Country:      util.PtrString(profile.Country),
	})
	if err != nil {
		return nil, err
	}

	err = s.statRepo.UpsertDailyStat(ctx, &model.CreatorStat{
		CreatorID:   creator.ID,
		RecordedAt:  util.TodayNY(),
		Subscribers: profile.Subscribers,
		Followers:   profile.Followers,
		TotalViews:  profile.TotalViews,
		TotalPosts:  profile.TotalPosts,
	})
	if err != nil {
		return nil, err
	}

	return creator, nil
}

func (s *creatorServiceImpl) TopByFollowers(ctx context.Context, platformName string, n int) ([]*model.Creator, error) {
	since := util.DateNY(util.NowNY().AddDate(0, 0, -topFollowersWindowDays))
	return s.creatorRepo.TopByFollowers(ctx, platformName, n, since)
}
