package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// initJob starts the background scheduler. The only recurring job purges
// media temp files left behind by crashed uploads.
func (a *Application) initJob() {
	a.sched = cron.New()
	_, err := a.sched.AddFunc("@every 1h", a.purgeTempMedia)
	if err != nil {
		zap.L().Error("failed to register temp media purge job", zap.Error(err))
	}
	a.sched.Start()
}

func (a *Application) purgeTempMedia() {
	tempDir := a.appConfig.GetTempDir()
	ttl := time.Duration(a.GetSettingsInt64Value("media", "temp_ttl_minutes")) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		zap.L().Warn("failed to read temp media dir", zap.String("dir", tempDir), zap.Error(err))
		return
	}

	var purged int
	deadline := time.Now().Add(-ttl)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(deadline) {
			if err := os.Remove(filepath.Join(tempDir, entry.Name())); err == nil {
				purged++
			}
		}
	}
	if purged > 0 {
		zap.L().Info("purged stale temp media files", zap.Int("count", purged))
	}
}
