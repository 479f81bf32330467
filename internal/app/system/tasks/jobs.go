// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	activitystore "github.com/filedock/filedock/internal/app/store/activity"
	grantstore "github.com/filedock/filedock/internal/app/store/grants"
	sharelinkstore "github.com/filedock/filedock/internal/app/store/sharelinks"
	trashstore "github.com/filedock/filedock/internal/app/store/trash"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"go.uber.org/zap"
)

// Job is a named periodic maintenance task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// GrantSweepJob physically deletes expired file grants. Lookups filter
// expiry at read time independently, so the sweep never changes an answer;
// it only reclaims rows.
func GrantSweepJob(grants *grantstore.Store, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "grant-sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := grants.SweepExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("swept expired grants", zap.Int64("count", count))
			}
			return nil
		},
	}
}

// TrashPurgeJob deletes trash entries (and their objects) older than the
// retention window.
func TrashPurgeJob(trash *trashstore.Store, objects *objstore.Store, logger *zap.Logger, interval, retention time.Duration) Job {
	return Job{
		Name:     "trash-purge",
		Interval: interval,
		Run: func(ctx context.Context) error {
			entries, err := trash.OlderThan(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			for _, e := range entries {
				// A trashed folder leaves no object at the entry's own
				// key; its subtree has to go prefix by prefix.
				isFile, err := objects.Exists(ctx, e.TrashPath)
				if err != nil {
					logger.Warn("trash purge: stat failed",
						zap.String("path", e.TrashPath), zap.Error(err))
					continue
				}
				if isFile {
					err = objects.Delete(ctx, e.TrashPath)
				} else {
					_, err = objects.DeletePrefix(ctx, e.TrashPath+"/")
				}
				if err != nil {
					logger.Warn("trash purge: object delete failed",
						zap.String("path", e.TrashPath), zap.Error(err))
					continue
				}
				if err := trash.Delete(ctx, e.ID); err != nil {
					return err
				}
			}
			if len(entries) > 0 {
				logger.Info("purged trash entries", zap.Int("count", len(entries)))
			}
			return nil
		},
	}
}

// ShareLinkCleanupJob removes expired share links.
func ShareLinkCleanupJob(links *sharelinkstore.Store, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "sharelink-cleanup",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := links.SweepExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired share links", zap.Int64("count", count))
			}
			return nil
		},
	}
}

// ActivityPruneJob trims the activity feed past the retention window.
func ActivityPruneJob(activity *activitystore.Store, logger *zap.Logger, interval, retention time.Duration) Job {
	return Job{
		Name:     "activity-prune",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := activity.DeleteOlderThan(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("pruned activity entries", zap.Int64("count", count))
			}
			return nil
		},
	}
}
