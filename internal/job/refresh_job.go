package job

import (
	"context"
	log "log/slog"
	"time"

	"shinypull/internal/pkg/platform"
	"shinypull/internal/repository"
	"shinypull/internal/service"
)

// RefreshJob re-fetches the least-recently-updated creators of one
// platform and overwrites today's stat row. Creators are processed
// strictly in updated_at order, one at a time; that ordering is the
// fairness mechanism.
type RefreshJob struct {
	client      platform.Client
	creatorRepo repository.CreatorRepo
	creatorSvc  service.CreatorService
	batchSize   int
	delay       time.Duration
}

func NewRefreshJob(
	client platform.Client,
	creatorRepo repository.CreatorRepo,
	creatorSvc service.CreatorService,
	batchSize int,
	delay time.Duration,
) *RefreshJob {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &RefreshJob{
		client:      client,
		creatorRepo: creatorRepo,
		creatorSvc:  creatorSvc,
		batchSize:   batchSize,
		delay:       delay,
	}
}

func (s *RefreshJob) Run() {
	ctx := newRunContext()
	summary, err := s.RunOnce(ctx, s.batchSize)
	if err != nil {
		log.ErrorContext(ctx, "refresh run failed", "platform", s.client.Platform(), "err", err)
		return
	}
	log.InfoContext(ctx, "refresh run finished",
		"platform", s.client.Platform(),
		"processed", summary.Processed,
		"failed", summary.Failed,
		"stopped_early", summary.StoppedEarly,
	)
}

// RunOnce refreshes up to batchSize creators. A per-creator failure is
// recorded and the batch continues; a 429/403 stops the batch
// immediately so the next scheduled run resumes instead of compounding a
// block.
func (s *RefreshJob) RunOnce(ctx context.Context, batchSize int) (*RunSummary, error) {
	if batchSize <= 0 {
		batchSize = s.batchSize
	}

	creators, err := s.creatorRepo.LeastRecentlyUpdated(ctx, s.client.Platform(), batchSize)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{}
	for i, creator := range creators {
		if i > 0 && s.delay > 0 {
			time.Sleep(s.delay)
		}

		profile, err := s.client.FetchProfile(ctx, creator.Username)
		if err != nil {
			if platform.IsRateLimitSignal(err) {
				log.WarnContext(ctx, "rate limit signal, stopping batch",
					"platform", s.client.Platform(), "username", creator.Username, "err", err)
				summary.StoppedEarly = true
				break
			}
			log.WarnContext(ctx, "refresh fetch failed",
				"platform", s.client.Platform(), "username", creator.Username, "err", err)
			summary.Failed++
			continue
		}

		if _, err := s.creatorSvc.IngestProfile(ctx, profile); err != nil {
			log.ErrorContext(ctx, "refresh ingest failed",
				"platform", s.client.Platform(), "username", creator.Username, "err", err)
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	return summary, nil
}
