package service

import (
	"context"
	log "log/slog"
	"strings"
	"time"

	"shinypull/internal/model"
	"shinypull/internal/pkg/platform"
	"shinypull/internal/repository"
)

const usernameMaxLen = 40

// instantLookupTimeout caps the optional synchronous resolution done at
// submit time. On timeout the request simply stays pending for the
// processor.
const instantLookupTimeout = 7 * time.Second

type RequestService interface {
	// Submit records a pending onboarding request, rejecting a duplicate
	// pending one for the same (platform, normalized username). TikTok
	// requests are additionally resolved in-line when the profile answers
	// quickly, so the caller sees the tracked creator right away.
	Submit(ctx context.Context, platformName, rawUsername string) (*model.CreatorRequest, error)
}

type requestServiceImpl struct {
	requestRepo repository.CreatorRequestRepo
	creatorSvc  CreatorService
	tiktok      platform.Client
}

func NewRequestService(requestRepo repository.CreatorRequestRepo, creatorSvc CreatorService, tiktok platform.Client) RequestService {
	return &requestServiceImpl{
		requestRepo: requestRepo,
		creatorSvc:  creatorSvc,
		tiktok:      tiktok,
	}
}

// NormalizeUsername strips a leading @, drops everything outside
// [a-z0-9._], lowercases, and caps the length. Every lookup and write
// uses the normalized form.
func NormalizeUsername(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "@")
	s = strings.ToLower(s)

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
		}
	}

	normalized := b.String()
	if len(normalized) > usernameMaxLen {
		normalized = normalized[:usernameMaxLen]
	}
	return normalized
}

func validPlatform(platformName string) bool {
	for _, p := range model.AllPlatforms {
		if p == platformName {
			return true
		}
	}
	return false
}

func (s *requestServiceImpl) Submit(ctx context.Context, platformName, rawUsername string) (*model.CreatorRequest, error) {
	if !validPlatform(platformName) {
		return nil, ErrPlatformUnsupported
	}

	username := NormalizeUsername(rawUsername)
	if username == "" {
		return nil, ErrUsernameInvalid
	}

	existing, err := s.requestRepo.ExistingRequest(ctx, platformName, username, model.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRequestDuplicate
	}

	request := &model.CreatorRequest{
		Platform: platformName,
		Username: username,
		Status:   model.RequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	if platformName == model.PlatformTikTok && s.tiktok != nil && s.creatorSvc != nil {
		s.tryInstantResolve(ctx, request)
	}
	return request, nil
}

// tryInstantResolve attempts to complete a fresh TikTok request in-line.
// Any failure leaves the request pending; the processor retries it on
// its own schedule.
func (s *requestServiceImpl) tryInstantResolve(ctx context.Context, request *model.CreatorRequest) {
	fetchCtx, cancel := context.WithTimeout(ctx, instantLookupTimeout)
	defer cancel()

	profile, err := s.tiktok.FetchProfile(fetchCtx, request.Username)
	if err != nil {
		log.InfoContext(ctx, "instant lookup deferred to processor",
			"username", request.Username, "err", err)
		return
	}

	if _, err := s.creatorSvc.IngestProfile(ctx, profile); err != nil {
		log.WarnContext(ctx, "instant lookup ingest failed",
			"username", request.Username, "err", err)
		return
	}
	if err := s.requestRepo.UpdateStatus(ctx, request.ID, model.RequestStatusCompleted, nil); err != nil {
		log.WarnContext(ctx, "instant lookup status update failed",
			"request_id", request.ID, "err", err)
		return
	}
	request.Status = model.RequestStatusCompleted
}
