package jobs

import (
	"maintlog/config"
	"maintlog/internal/repositories"
	"maintlog/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if config.IsMemoryStore() || !config.CacheEnabled() {
		log.Info("No lookup cache in use, skipping lookup cache refresh job")
		return nil
	}

	lookupCacheRefreshJob := NewLookupCacheRefreshJob(repos.Lookup, Hourly)
	if err := schedulerService.AddJob(lookupCacheRefreshJob); err != nil {
		return log.Err("failed to register lookup cache refresh job", err)
	}
	log.Info("Registered lookup cache refresh job", "schedule", "hourly")

	return nil
}
