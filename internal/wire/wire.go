package wire

import (
	"os"
	"strings"
	"time"

	"shinypull/internal/api"
	"shinypull/internal/api/config"
	"shinypull/internal/api/handler"
	"shinypull/internal/job"
	"shinypull/internal/model"
	"shinypull/internal/pkg/cron"
	"shinypull/internal/pkg/platform"
	"shinypull/internal/pkg/ratelimit"
	"shinypull/internal/repository"
	"shinypull/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pipeline holds the collection runners shared by the daemon and the
// one-shot maintenance scripts.
type Pipeline struct {
	Clients      map[string]platform.Client
	RefreshJobs  map[string]*job.RefreshJob
	DiscoveryJob *job.DiscoveryJob
	RequestJob   *job.RequestJob
	IntegrityJob *job.IntegrityJob
	CreatorSvc   service.CreatorService
	Instagram    *platform.InstagramClient
}

// ApplicationContainer adds the daemon-only surfaces on top of the
// pipeline.
type ApplicationContainer struct {
	Router   *gin.Engine
	DB       *gorm.DB
	CronMgr  *cron.Manager
	Pipeline *Pipeline
}

// BuildPipeline wires repositories, services, platform clients, and
// runners. Scripts use this directly; it touches neither gin nor redis.
func BuildPipeline(db *gorm.DB, cfg *config.Config) (*Pipeline, error) {
	creatorRepo := repository.NewCreatorRepo(db)
	statRepo := repository.NewCreatorStatRepo(db)
	requestRepo := repository.NewCreatorRequestRepo(db)

	creatorSvc := service.NewCreatorService(creatorRepo, statRepo)

	scrapeTimeout := time.Duration(cfg.Scraper.TimeoutS) * time.Second
	instagram := platform.NewInstagramClient(cfg.Scraper.UserAgent, scrapeTimeout)

	clients := map[string]platform.Client{
		model.PlatformYouTube:   platform.NewYouTubeClient(cfg.YouTube.APIKey),
		model.PlatformTwitch:    platform.NewTwitchClient(cfg.Twitch.ClientID, cfg.Twitch.ClientSecret),
		model.PlatformKick:      platform.NewKickClient(cfg.Kick.ClientID, cfg.Kick.ClientSecret),
		model.PlatformTikTok:    platform.NewTikTokClient(cfg.Scraper.UserAgent, scrapeTimeout),
		model.PlatformInstagram: instagram,
	}

	refreshDelay := time.Duration(cfg.Collector.RefreshDelayMs) * time.Millisecond
	refreshJobs := make(map[string]*job.RefreshJob, len(clients))
	for platformName, client := range clients {
		refreshJobs[platformName] = job.NewRefreshJob(
			client, creatorRepo, creatorSvc, cfg.Collector.RefreshBatch, refreshDelay)
	}

	candidates, err := loadCandidates(cfg.Collector.CandidateFile)
	if err != nil {
		return nil, err
	}
	discoveryJob := job.NewDiscoveryJob(
		clients[model.PlatformTikTok], creatorRepo, creatorSvc,
		candidates, cfg.Collector.DiscoverTarget, refreshDelay)

	requestJob := job.NewRequestJob(clients, requestRepo, creatorRepo, creatorSvc, cfg.Collector.RequestBatch)

	integritySvc := service.NewIntegrityService(creatorSvc, statRepo, clients)
	integrityJob := job.NewIntegrityJob(integritySvc, cfg.Collector.IntegrityTopN)

	return &Pipeline{
		Clients:      clients,
		RefreshJobs:  refreshJobs,
		DiscoveryJob: discoveryJob,
		RequestJob:   requestJob,
		IntegrityJob: integrityJob,
		CreatorSvc:   creatorSvc,
		Instagram:    instagram,
	}, nil
}

// BuildApplication wires the full daemon: pipeline + HTTP API + cron.
// Requires redis to be initialized for the request rate limiter.
func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	pipeline, err := BuildPipeline(db, cfg)
	if err != nil {
		return nil, err
	}

	requestRepo := repository.NewCreatorRequestRepo(db)
	requestSvc := service.NewRequestService(requestRepo, pipeline.CreatorSvc, pipeline.Clients[model.PlatformTikTok])
	limiter := ratelimit.NewFixedWindowLimiter("ratelimit:requests:")

	handlers := &api.HandlersGroup{
		RequestHandler: handler.NewRequestHandler(
			requestSvc, limiter,
			cfg.Collector.RequestRateMax,
			time.Duration(cfg.Collector.RequestRateWinS)*time.Second,
		),
	}
	router := api.SetupRouter(handlers)

	refreshJobs := make([]*job.RefreshJob, 0, len(pipeline.RefreshJobs))
	for _, platformName := range model.AllPlatforms {
		if refreshJob, ok := pipeline.RefreshJobs[platformName]; ok {
			refreshJobs = append(refreshJobs, refreshJob)
		}
	}
	cronMgr := cron.NewCronManager(refreshJobs, pipeline.DiscoveryJob, pipeline.RequestJob, pipeline.IntegrityJob)

	return &ApplicationContainer{
		Router:   router,
		DB:       db,
		CronMgr:  cronMgr,
		Pipeline: pipeline,
	}, nil
}

// loadCandidates reads the curated onboarding list, one username per
// line. A missing path just means discovery has nothing to do.
func loadCandidates(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var candidates []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		candidates = append(candidates, line)
	}
	return candidates, nil
}
