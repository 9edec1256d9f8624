package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/wchwawa/journal-app-mvp/internal/logger"
	"github.com/wchwawa/journal-app-mvp/internal/model"
)

var syncModes = []string{model.ModeDaily, model.ModeWeekly, model.ModeMonthly}

// SyncService regenerates every reflection covering an anchor date. Callers
// run it in a goroutine; nothing awaits its completion.
type SyncService struct {
	reflections *ReflectionService
}

func NewSyncService(reflections *ReflectionService) *SyncService {
	return &SyncService{reflections: reflections}
}

// SyncForDate regenerates daily, weekly and monthly reflections in order.
// Each mode fails independently: a brand-new week with no data must not stop
// the daily refresh, so errors are logged and swallowed per mode.
func (s *SyncService) SyncForDate(ctx context.Context, userID uuid.UUID, anchorDate string) {
	for _, mode := range syncModes {
		if _, err := s.reflections.Generate(ctx, userID, mode, anchorDate); err != nil {
			logger.Warn("reflection.sync_mode_failed", "mode", mode, "anchor", anchorDate, "uid", userID, "err", err)
		}
	}
}
