package cron

import (
	log "log/slog"

	"shinypull/internal/job"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine       *cron.Cron
	refreshJobs  []*job.RefreshJob
	discoveryJob *job.DiscoveryJob
	requestJob   *job.RequestJob
	integrityJob *job.IntegrityJob
}

func NewCronManager(
	refreshJobs []*job.RefreshJob,
	discoveryJob *job.DiscoveryJob,
	requestJob *job.RequestJob,
	integrityJob *job.IntegrityJob,
) *Manager {
	return &Manager{
		engine:       cron.New(cron.WithSeconds()),
		refreshJobs:  refreshJobs,
		discoveryJob: discoveryJob,
		requestJob:   requestJob,
		integrityJob: integrityJob,
	}
}

// RegisterJobs installs the collection schedules. Refresh batches are
// staggered by platform so two scrape campaigns never start together.
func (s *Manager) RegisterJobs() error {
	for i, refreshJob := range s.refreshJobs {
		schedule := refreshSchedules[i%len(refreshSchedules)]
		if _, err := s.engine.AddJob(schedule, refreshJob); err != nil {
			return err
		}
	}
	if _, err := s.engine.AddJob("0 30 4 * * *", s.discoveryJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("0 */5 * * * *", s.requestJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("0 0 6 * * *", s.integrityJob); err != nil {
		return err
	}
	return nil
}

var refreshSchedules = []string{
	"0 0 */6 * * *",
	"0 12 */6 * * *",
	"0 24 */6 * * *",
	"0 36 */6 * * *",
	"0 48 */6 * * *",
}

func (s *Manager) Start() {
	log.Info("Cron job engine starting")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron job engine stopping")
	s.engine.Stop()
}
