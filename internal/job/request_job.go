package job

import (
	"context"
	log "log/slog"
	"time"

	"shinypull/internal/model"
	"shinypull/internal/pkg/platform"
	"shinypull/internal/pkg/util"
	"shinypull/internal/repository"
	"shinypull/internal/service"
)

const (
	requestDelayMin = 5 * time.Second
	requestDelayMax = 8 * time.Second

	// Outbound profile lookups for user-submitted requests are capped so
	// one hung scrape cannot stall the queue.
	requestFetchTimeout = 7 * time.Second
)

// RequestJob drains pending onboarding requests, oldest first. Failures
// are terminal; a rate-limit signal puts the current request back to
// pending and stops the batch.
type RequestJob struct {
	clients     map[string]platform.Client
	requestRepo repository.CreatorRequestRepo
	creatorRepo repository.CreatorRepo
	creatorSvc  service.CreatorService
	batchSize   int
	sleep       func(time.Duration)
}

func NewRequestJob(
	clients map[string]platform.Client,
	requestRepo repository.CreatorRequestRepo,
	creatorRepo repository.CreatorRepo,
	creatorSvc service.CreatorService,
	batchSize int,
) *RequestJob {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &RequestJob{
		clients:     clients,
		requestRepo: requestRepo,
		creatorRepo: creatorRepo,
		creatorSvc:  creatorSvc,
		batchSize:   batchSize,
		sleep:       time.Sleep,
	}
}

func (s *RequestJob) Run() {
	ctx := newRunContext()
	summary, err := s.RunOnce(ctx, s.batchSize)
	if err != nil {
		log.ErrorContext(ctx, "request run failed", "err", err)
		return
	}
	log.InfoContext(ctx, "request run finished",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"stopped_early", summary.StoppedEarly,
	)
}

func (s *RequestJob) RunOnce(ctx context.Context, batchSize int) (*RunSummary, error) {
	if batchSize <= 0 {
		batchSize = s.batchSize
	}

	requests, err := s.requestRepo.PendingOldest(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{}
	for i, request := range requests {
		if i > 0 {
			s.sleep(randomDelay(requestDelayMin, requestDelayMax))
		}

		stopped, err := s.processRequest(ctx, request)
		if stopped {
			// The request went back to pending for the next run, so it
			// counts as neither processed nor failed.
			summary.StoppedEarly = true
			break
		}
		if err != nil {
			summary.Failed++
		} else {
			summary.Processed++
		}
	}

	return summary, nil
}

func (s *RequestJob) processRequest(ctx context.Context, request *model.CreatorRequest) (stopped bool, err error) {
	if err := s.requestRepo.UpdateStatus(ctx, request.ID, model.RequestStatusProcessing, nil); err != nil {
		return false, err
	}

	client, ok := s.clients[request.Platform]
	if !ok {
		return false, s.fail(ctx, request, "no client configured for platform "+request.Platform)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, requestFetchTimeout)
	profile, fetchErr := client.FetchProfile(fetchCtx, request.Username)
	cancel()

	if fetchErr != nil {
		if platform.IsRateLimitSignal(fetchErr) {
			// Not this request's fault. Put it back and let the next
			// scheduled run pick it up.
			if err := s.requestRepo.UpdateStatus(ctx, request.ID, model.RequestStatusPending, nil); err != nil {
				log.ErrorContext(ctx, "failed to re-queue request", "request_id", request.ID, "err", err)
			}
			return true, fetchErr
		}
		return false, s.fail(ctx, request, fetchErr.Error())
	}

	// A creator with this identity may have appeared since the request
	// was filed; IngestProfile upserts on (platform, platform_id) so the
	// race resolves to one row either way.
	if _, err := s.creatorSvc.IngestProfile(ctx, profile); err != nil {
		return false, s.fail(ctx, request, err.Error())
	}

	if err := s.requestRepo.UpdateStatus(ctx, request.ID, model.RequestStatusCompleted, nil); err != nil {
		return false, err
	}
	log.InfoContext(ctx, "request completed",
		"request_id", request.ID, "platform", request.Platform, "username", request.Username)
	return false, nil
}

func (s *RequestJob) fail(ctx context.Context, request *model.CreatorRequest, message string) error {
	log.WarnContext(ctx, "request failed",
		"request_id", request.ID, "platform", request.Platform, "username", request.Username, "reason", message)
	if err := s.requestRepo.UpdateStatus(ctx, request.ID, model.RequestStatusFailed, util.PtrString(message)); err != nil {
		return err
	}
	return &requestFailedError{message: message}
}

type requestFailedError struct {
	message string
}

func (e *requestFailedError) Error() string {
	return e.message
}
