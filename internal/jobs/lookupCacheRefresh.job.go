package jobs

import (
	"context"

	"maintlog/internal/repositories"
	"maintlog/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// LookupCacheRefreshJob rereads the lookup tables so edits made directly in
// the database reach clients before the cache entry expires.
type LookupCacheRefreshJob struct {
	lookups  repositories.LookupRepository
	log      logger.Logger
	schedule services.Schedule
}

func NewLookupCacheRefreshJob(
	lookups repositories.LookupRepository,
	schedule services.Schedule,
) *LookupCacheRefreshJob {
	log := logger.New("lookupCacheRefreshJob")
	log.Info("Creating new lookup cache refresh job", "schedule", schedule)

	return &LookupCacheRefreshJob{
		lookups:  lookups,
		log:      log,
		schedule: schedule,
	}
}

func (j *LookupCacheRefreshJob) Name() string {
	return "LookupCacheRefresh"
}

func (j *LookupCacheRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if _, err := j.lookups.Refresh(ctx); err != nil {
		return log.Err("lookup cache refresh failed", err)
	}

	return nil
}

func (j *LookupCacheRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
