package service

import (
	"context"
	"errors"
	"testing"

	"shinypull/internal/model"
	"shinypull/internal/pkg/platform"
	"shinypull/internal/repository"
)

type stubRequestRepo struct {
	created  []*model.CreatorRequest
	existing *model.CreatorRequest
	statuses map[uint64][]string
}

func (s *stubRequestRepo) Create(ctx context.Context, request *model.CreatorRequest) error {
	request.ID = uint64(len(s.created) + 1)
	s.created = append(s.created, request)
	return nil
}

func (s *stubRequestRepo) PendingOldest(ctx context.Context, limit int) ([]*model.CreatorRequest, error) {
	return nil, nil
}

func (s *stubRequestRepo) ExistingRequest(ctx context.Context, platform, username, status string) (*model.CreatorRequest, error) {
	return s.existing, nil
}

func (s *stubRequestRepo) UpdateStatus(ctx context.Context, id uint64, status string, errorMessage *string) error {
	if s.statuses == nil {
		s.statuses = make(map[uint64][]string)
	}
	s.statuses[id] = append(s.statuses[id], status)
	return nil
}

var _ repository.CreatorRequestRepo = (*stubRequestRepo)(nil)

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"@Nova.Daily", "nova.daily"},
		{"  nova_daily  ", "nova_daily"},
		{"NOVA", "nova"},
		{"no va!?", "nova"},
		{"@@double", "double"},
		{"日本語nova", "nova"},
		{"", ""},
		{"@", ""},
	}
	for _, tc := range cases {
		if got := NormalizeUsername(tc.raw); got != tc.want {
			t.Errorf("NormalizeUsername(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeUsernameCapsLength(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	if got := NormalizeUsername(string(long)); len(got) != 40 {
		t.Errorf("len = %d, want 40", len(got))
	}
}

func TestSubmitRejectsUnknownPlatform(t *testing.T) {
	svc := NewRequestService(&stubRequestRepo{}, nil, nil)
	_, err := svc.Submit(context.Background(), "myspace", "nova")
	if !errors.Is(err, ErrPlatformUnsupported) {
		t.Fatalf("err = %v, want ErrPlatformUnsupported", err)
	}
}

func TestSubmitRejectsEmptyNormalizedUsername(t *testing.T) {
	svc := NewRequestService(&stubRequestRepo{}, nil, nil)
	_, err := svc.Submit(context.Background(), model.PlatformTikTok, "@!?")
	if !errors.Is(err, ErrUsernameInvalid) {
		t.Fatalf("err = %v, want ErrUsernameInvalid", err)
	}
}

func TestSubmitRejectsDuplicatePending(t *testing.T) {
	repo := &stubRequestRepo{existing: &model.CreatorRequest{ID: 7, Status: model.RequestStatusPending}}
	svc := NewRequestService(repo, nil, nil)
	_, err := svc.Submit(context.Background(), model.PlatformTikTok, "nova")
	if !errors.Is(err, ErrRequestDuplicate) {
		t.Fatalf("err = %v, want ErrRequestDuplicate", err)
	}
	if len(repo.created) != 0 {
		t.Error("duplicate submit still created a row")
	}
}

func TestSubmitStoresNormalizedUsername(t *testing.T) {
	repo := &stubRequestRepo{}
	svc := NewRequestService(repo, nil, nil)

	request, err := svc.Submit(context.Background(), model.PlatformTwitch, "@Nova_Daily")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if request.Username != "nova_daily" {
		t.Errorf("stored username = %q", request.Username)
	}
	if request.Status != model.RequestStatusPending {
		t.Errorf("status = %q", request.Status)
	}
}

func TestSubmitResolvesTikTokInstantly(t *testing.T) {
	repo := &stubRequestRepo{}
	creatorSvc := NewCreatorService(&stubCreatorRepo{}, &stubStatRepo{})
	client := &stubClient{
		platformName: model.PlatformTikTok,
		profile:      &platform.Profile{Platform: model.PlatformTikTok, PlatformID: "777", Username: "nova", Followers: 100},
	}
	svc := NewRequestService(repo, creatorSvc, client)

	request, err := svc.Submit(context.Background(), model.PlatformTikTok, "nova")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if request.Status != model.RequestStatusCompleted {
		t.Errorf("status = %q, want completed after instant lookup", request.Status)
	}
	if got := repo.statuses[request.ID]; len(got) != 1 || got[0] != model.RequestStatusCompleted {
		t.Errorf("status transitions = %v", got)
	}
}

func TestSubmitLeavesTikTokPendingWhenLookupFails(t *testing.T) {
	repo := &stubRequestRepo{}
	creatorSvc := NewCreatorService(&stubCreatorRepo{}, &stubStatRepo{})
	client := &stubClient{
		platformName: model.PlatformTikTok,
		err:          &platform.UpstreamHTTPError{Platform: "tiktok", Status: 500},
	}
	svc := NewRequestService(repo, creatorSvc, client)

	request, err := svc.Submit(context.Background(), model.PlatformTikTok, "nova")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if request.Status != model.RequestStatusPending {
		t.Errorf("status = %q, want pending for the processor", request.Status)
	}
}
