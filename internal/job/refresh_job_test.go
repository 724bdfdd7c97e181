package job

import (
	"context"
	"testing"

	"shinypull/internal/model"
	"shinypull/internal/pkg/platform"
)

func seededRefreshJob(t *testing.T, client *fakeClient, usernames []string) (*RefreshJob, *fakeCreatorService) {
	t.Helper()
	repo := &fakeCreatorRepo{}
	for i, username := range usernames {
		repo.creators = append(repo.creators, &model.Creator{
			ID:         uint64(i + 1),
			Platform:   client.platformName,
			PlatformID: "id-" + username,
			Username:   username,
		})
	}
	svc := &fakeCreatorService{repo: repo}
	return NewRefreshJob(client, repo, svc, 25, 0), svc
}

func TestRefreshRunOnceContinuesPastFetchFailure(t *testing.T) {
	client := &fakeClient{
		platformName: model.PlatformTwitch,
		errFor:       map[string]error{"bad": &platform.ParseError{Platform: "twitch", Detail: "shape changed"}},
	}
	job, svc := seededRefreshJob(t, client, []string{"a", "bad", "b"})

	summary, err := job.RunOnce(context.Background(), 10)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if summary.Processed != 2 || summary.Failed != 1 || summary.StoppedEarly {
		t.Fatalf("summary = %+v", summary)
	}
	if len(svc.ingested) != 2 {
		t.Errorf("ingested = %d, want 2", len(svc.ingested))
	}
}

func TestRefreshRunOnceStopsOnRateLimit(t *testing.T) {
	client := &fakeClient{
		platformName: model.PlatformTikTok,
		errAt:        4,
		errOnce:      &platform.UpstreamHTTPError{Platform: "tiktok", Status: 429},
	}
	usernames := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9", "u10"}
	job, svc := seededRefreshJob(t, client, usernames)

	summary, err := job.RunOnce(context.Background(), 10)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if !summary.StoppedEarly {
		t.Error("429 should stop the batch")
	}
	if summary.Processed != 3 {
		t.Errorf("processed = %d, want 3 (items before the block)", summary.Processed)
	}
	if len(client.fetched) != 4 {
		t.Errorf("fetched %d creators, want 4 (no fetch after the block)", len(client.fetched))
	}
	if len(svc.ingested) != 3 {
		t.Errorf("ingested = %d, want the 3 completed items kept", len(svc.ingested))
	}
}

func TestRefreshRunOnceEmptyBatch(t *testing.T) {
	client := &fakeClient{platformName: model.PlatformKick}
	job, _ := seededRefreshJob(t, client, nil)

	summary, err := job.RunOnce(context.Background(), 10)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if summary.Processed != 0 || summary.Failed != 0 || summary.StoppedEarly {
		t.Fatalf("summary = %+v", summary)
	}
}
