package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"gorm.io/gorm"
)

// purgeFunc deletes system log rows older than cutoff.
type purgeFunc func(cutoff time.Time) (int64, error)

// StartCleanup prunes system_logs older than retention once at startup and
// then daily, until done is closed.
func StartCleanup(db *gorm.DB, retention time.Duration, done <-chan struct{}) {
	purge := func(cutoff time.Time) (int64, error) {
		result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
		return result.RowsAffected, result.Error
	}
	go runCleanup(purge, retention, 24*time.Hour, time.Now, done)
}

func runCleanup(purge purgeFunc, retention, every time.Duration, now func() time.Time, done <-chan struct{}) {
	prune := func() {
		deleted, err := purge(now().Add(-retention))
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted, "retention", retention.String())
		}
	}

	prune()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			prune()
		case <-done:
			return
		}
	}
}
