package job

import (
	"context"
	log "log/slog"

	"shinypull/internal/model"
	"shinypull/internal/service"
)

// IntegrityJob evaluates the five data-integrity checks for the top-N
// creators of every platform. It reads history and the live APIs and
// never writes.
type IntegrityJob struct {
	integritySvc service.IntegrityService
	topN         int
}

func NewIntegrityJob(integritySvc service.IntegrityService, topN int) *IntegrityJob {
	if topN <= 0 {
		topN = 5
	}
	return &IntegrityJob{integritySvc: integritySvc, topN: topN}
}

func (s *IntegrityJob) Run() {
	ctx := newRunContext()
	tally, _, err := s.RunOnce(ctx, s.topN)
	if err != nil {
		log.ErrorContext(ctx, "integrity run failed", "err", err)
		return
	}
	log.InfoContext(ctx, "integrity run finished",
		"pass", tally.Pass, "warn", tally.Warn, "fail", tally.Fail)
}

// RunOnce returns the run tally plus per-creator reports. The caller
// decides the exit status: non-zero iff tally.Fail > 0.
func (s *IntegrityJob) RunOnce(ctx context.Context, topN int) (*service.Tally, []*service.CreatorReport, error) {
	if topN <= 0 {
		topN = s.topN
	}

	tally := &service.Tally{}
	var all []*service.CreatorReport

	for _, platformName := range model.AllPlatforms {
		reports, err := s.integritySvc.CheckPlatform(ctx, platformName, topN)
		if err != nil {
			return nil, nil, err
		}
		for _, report := range reports {
			tally.Add(report.Results...)
			all = append(all, report)
		}
	}

	return tally, all, nil
}
