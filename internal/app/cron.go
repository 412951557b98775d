package app

import (
	"context"
	"fmt"
	"time"

	pkgcron "github.com/studykit/core/internal/pkg/cron"
	"github.com/studykit/core/internal/pkg/taskqueue"
	"github.com/studykit/core/internal/transform"
	"go.uber.org/zap"
)

const finishedTaskRetention = 7 * 24 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, sessions *transform.Store, tasks *taskqueue.Service, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "prune_sessions",
		Description: "Drop study sessions idle past their TTL",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			pruned := sessions.PruneStale(time.Now())
			if pruned > 0 {
				cronLogger.Info(fmt.Sprintf("pruned %d stale study sessions", pruned))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "cleanup_tasks",
		Description: "Delete finished transform tasks older than 7 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-finishedTaskRetention).UnixMilli()
			if err := tasks.DeleteCompleted(ctx, cutoff); err != nil {
				cronLogger.Warn("task cleanup failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}
