// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"time"

	activitystore "github.com/filedock/filedock/internal/app/store/activity"
	"github.com/filedock/filedock/internal/domain/models"
	"go.uber.org/zap"
)

// Logger records file and admin operations to the activity collection and
// to structured logs. A nil Logger is a no-op, which lets tests pass nil.
type Logger struct {
	store  *activitystore.Store
	zapLog *zap.Logger
}

// New creates an activity Logger.
func New(store *activitystore.Store, zapLog *zap.Logger) *Logger {
	return &Logger{store: store, zapLog: zapLog}
}

// Record writes one activity entry. Failures to persist are logged and
// swallowed; activity recording must never fail the user's operation.
func (l *Logger) Record(ctx context.Context, username, action, path, detail string) {
	if l == nil {
		return
	}

	l.zapLog.Info("activity",
		zap.String("user", username),
		zap.String("action", action),
		zap.String("path", path))

	wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := l.store.Record(wctx, models.ActivityEntry{
		Username: username,
		Action:   action,
		Path:     path,
		Detail:   detail,
	})
	if err != nil {
		l.zapLog.Warn("activity record failed",
			zap.String("action", action),
			zap.Error(err))
	}
}
