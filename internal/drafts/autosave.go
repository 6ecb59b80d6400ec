// internal/drafts/autosave.go
package drafts

import (
	"context"
	"time"

	"loan-origination/internal/common/logger"
	"loan-origination/internal/common/metrics"
)

const DefaultAutoSaveInterval = 30 * time.Second

// AutoSaveSource is what the auto-saver drives. SaveDraft reports false
// when the save was dropped because another one was in flight.
type AutoSaveSource interface {
	AutoSaveReady() bool
	SaveDraft(ctx context.Context) (bool, error)
}

// AutoSaver periodically saves a draft. Failures are logged and passed to
// OnError; they never stop the loop.
type AutoSaver struct {
	source   AutoSaveSource
	interval time.Duration
	logger   logger.Logger
	OnError  func(error)
}

func NewAutoSaver(source AutoSaveSource, interval time.Duration, log logger.Logger) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}
	return &AutoSaver{
		source:   source,
		interval: interval,
		logger:   log.WithFields(map[string]interface{}{"component": "auto-save"}),
	}
}

// Run ticks until ctx is cancelled.
func (a *AutoSaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Tick(ctx)
		}
	}
}

// Tick performs one auto-save attempt and reports whether a draft was written.
func (a *AutoSaver) Tick(ctx context.Context) bool {
	if !a.source.AutoSaveReady() {
		metrics.DraftSaves.WithLabelValues("auto", "skipped").Inc()
		return false
	}

	saved, err := a.source.SaveDraft(ctx)
	if err != nil {
		metrics.DraftSaves.WithLabelValues("auto", "failed").Inc()
		a.logger.Warn("auto-save failed", map[string]interface{}{"error": err.Error()})
		if a.OnError != nil {
			a.OnError(err)
		}
		return false
	}
	if !saved {
		metrics.DraftSaves.WithLabelValues("auto", "dropped").Inc()
		return false
	}
	metrics.DraftSaves.WithLabelValues("auto", "saved").Inc()
	return true
}
