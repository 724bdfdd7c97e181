package job

import (
	"context"
	"strings"

	"shinypull/internal/model"
	"shinypull/internal/pkg/platform"
	"shinypull/internal/repository"
	"shinypull/internal/service"
)

// fakeClient serves canned profiles and fails on demand. errAt is the
// 1-based fetch number that returns errOnce's error.
type fakeClient struct {
	platformName string
	fetched      []string
	errAt        int
	errOnce      error
	errFor       map[string]error
}

func (f *fakeClient) Platform() string { return f.platformName }

func (f *fakeClient) FetchProfile(ctx context.Context, identifier string) (*platform.Profile, error) {
	f.fetched = append(f.fetched, identifier)
	if f.errAt > 0 && len(f.fetched) == f.errAt {
		return nil, f.errOnce
	}
	if err, ok := f.errFor[identifier]; ok {
		return nil, err
	}
	return &platform.Profile{
		Platform:   f.platformName,
		PlatformID: "id-" + identifier,
		Username:   identifier,
		Followers:  100,
	}, nil
}

type fakeCreatorRepo struct {
	creators []*model.Creator
}

func (f *fakeCreatorRepo) UpsertCreator(ctx context.Context, creator *model.Creator) (*model.Creator, error) {
	for _, existing := range f.creators {
		if existing.Platform == creator.Platform && existing.PlatformID == creator.PlatformID {
			existing.Username = creator.Username
			return existing, nil
		}
	}
	creator.ID = uint64(len(f.creators) + 1)
	f.creators = append(f.creators, creator)
	return creator, nil
}

func (f *fakeCreatorRepo) GetByIdentity(ctx context.Context, platformName, platformID string) (*model.Creator, error) {
	for _, existing := range f.creators {
		if existing.Platform == platformName && existing.PlatformID == platformID {
			return existing, nil
		}
	}
	return nil, nil
}

func (f *fakeCreatorRepo) LeastRecentlyUpdated(ctx context.Context, platformName string, n int) ([]*model.Creator, error) {
	out := make([]*model.Creator, 0, n)
	for _, c := range f.creators {
		if c.Platform != platformName {
			continue
		}
		out = append(out, c)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func (f *fakeCreatorRepo) TopByFollowers(ctx context.Context, platformName string, n int, since string) ([]*model.Creator, error) {
	return f.LeastRecentlyUpdated(ctx, platformName, n)
}

func (f *fakeCreatorRepo) UsernamesByPlatform(ctx context.Context, platformName string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for _, c := range f.creators {
		if c.Platform == platformName {
			set[strings.ToLower(c.Username)] = struct{}{}
		}
	}
	return set, nil
}

var _ repository.CreatorRepo = (*fakeCreatorRepo)(nil)

// fakeCreatorService records ingested profiles and backs them with the
// fake repo so discovery sees its own writes.
type fakeCreatorService struct {
	repo     *fakeCreatorRepo
	ingested []*platform.Profile
}

func (f *fakeCreatorService) IngestProfile(ctx context.Context, profile *platform.Profile) (*model.Creator, error) {
	f.ingested = append(f.ingested, profile)
	return f.repo.UpsertCreator(ctx, &model.Creator{
		Platform:   profile.Platform,
		PlatformID: profile.PlatformID,
		Username:   profile.Username,
	})
}

func (f *fakeCreatorService) TopByFollowers(ctx context.Context, platformName string, n int) ([]*model.Creator, error) {
	return f.repo.TopByFollowers(ctx, platformName, n, "")
}

var _ service.CreatorService = (*fakeCreatorService)(nil)
