package job

import (
	"context"
	log "log/slog"
	"strings"
	"time"

	"shinypull/internal/pkg/platform"
	"shinypull/internal/repository"
	"shinypull/internal/service"
)

// DiscoveryJob walks a curated candidate list and onboards the first N
// usernames not yet tracked. Because candidates already present are
// skipped case-insensitively, repeated invocations make monotonic
// progress through the list and never re-add a creator.
type DiscoveryJob struct {
	client      platform.Client
	creatorRepo repository.CreatorRepo
	creatorSvc  service.CreatorService
	candidates  []string
	target      int
	delay       time.Duration
}

func NewDiscoveryJob(
	client platform.Client,
	creatorRepo repository.CreatorRepo,
	creatorSvc service.CreatorService,
	candidates []string,
	target int,
	delay time.Duration,
) *DiscoveryJob {
	if target <= 0 {
		target = 10
	}
	return &DiscoveryJob{
		client:      client,
		creatorRepo: creatorRepo,
		creatorSvc:  creatorSvc,
		candidates:  candidates,
		target:      target,
		delay:       delay,
	}
}

func (s *DiscoveryJob) Run() {
	ctx := newRunContext()
	summary, err := s.RunOnce(ctx, s.target)
	if err != nil {
		log.ErrorContext(ctx, "discovery run failed", "platform", s.client.Platform(), "err", err)
		return
	}
	log.InfoContext(ctx, "discovery run finished",
		"platform", s.client.Platform(),
		"processed", summary.Processed,
		"failed", summary.Failed,
		"stopped_early", summary.StoppedEarly,
	)
}

// RunOnce onboards up to target fresh candidates in list order. One bad
// username never aborts the run; a 429/403 does, so the next scheduled
// run resumes from where this one left off.
func (s *DiscoveryJob) RunOnce(ctx context.Context, target int) (*RunSummary, error) {
	if target <= 0 {
		target = s.target
	}

	existing, err := s.creatorRepo.UsernamesByPlatform(ctx, s.client.Platform())
	if err != nil {
		return nil, err
	}

	fresh := freshCandidates(s.candidates, existing, target)
	log.InfoContext(ctx, "discovery candidates selected",
		"platform", s.client.Platform(), "fresh", len(fresh), "tracked", len(existing))

	summary := &RunSummary{}
	for i, candidate := range fresh {
		if i > 0 && s.delay > 0 {
			time.Sleep(s.delay)
		}

		profile, err := s.client.FetchProfile(ctx, candidate)
		if err != nil {
			if platform.IsRateLimitSignal(err) {
				log.WarnContext(ctx, "rate limit signal, stopping batch",
					"platform", s.client.Platform(), "candidate", candidate, "err", err)
				summary.StoppedEarly = true
				break
			}
			log.WarnContext(ctx, "discovery fetch failed",
				"platform", s.client.Platform(), "candidate", candidate, "err", err)
			summary.Failed++
			continue
		}

		if _, err := s.creatorSvc.IngestProfile(ctx, profile); err != nil {
			log.ErrorContext(ctx, "discovery ingest failed",
				"platform", s.client.Platform(), "candidate", candidate, "err", err)
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	return summary, nil
}

// freshCandidates keeps list order, drops tracked usernames and
// in-list duplicates, and caps at target.
func freshCandidates(candidates []string, existing map[string]struct{}, target int) []string {
	fresh := make([]string, 0, target)
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		key := strings.ToLower(strings.TrimSpace(candidate))
		if key == "" {
			continue
		}
		if _, ok := existing[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, key)
		if len(fresh) == target {
			break
		}
	}
	return fresh
}
