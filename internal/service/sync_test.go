package service

import (
	"context"
	"testing"

	"github.com/wchwawa/journal-app-mvp/internal/model"
)

// A summary exists elsewhere in the week but not on the anchor date, so the
// daily pass fails while weekly and monthly still regenerate.
func TestSyncForDateContinuesPastModeFailures(t *testing.T) {
	f := newReflectionFixture(t)
	f.seedSummary(t, "2025-11-11", "Tuesday.", 2, "Calm")
	f.ai.jsonOutput = validReflectionJSON

	sync := NewSyncService(f.svc)
	sync.SyncForDate(context.Background(), f.user, "2025-11-13")

	if n := countRows(t, f.db, &model.PeriodReflection{}); n != 2 {
		t.Fatalf("expected weekly and monthly rows, found %d", n)
	}

	var weekly model.PeriodReflection
	err := f.db.Where("user_id = ? AND period_type = ?", f.user, model.ModeWeekly).First(&weekly).Error
	if err != nil {
		t.Fatalf("weekly row missing: %v", err)
	}
	if weekly.PeriodStart != "2025-11-10" || weekly.PeriodEnd != "2025-11-16" {
		t.Fatalf("weekly bounds = %s..%s", weekly.PeriodStart, weekly.PeriodEnd)
	}

	var monthly model.PeriodReflection
	err = f.db.Where("user_id = ? AND period_type = ?", f.user, model.ModeMonthly).First(&monthly).Error
	if err != nil {
		t.Fatalf("monthly row missing: %v", err)
	}
	if monthly.PeriodStart != "2025-11-01" || monthly.PeriodEnd != "2025-11-30" {
		t.Fatalf("monthly bounds = %s..%s", monthly.PeriodStart, monthly.PeriodEnd)
	}
}

// All three modes succeed when the anchor day itself has data.
func TestSyncForDateRefreshesAllModes(t *testing.T) {
	f := newReflectionFixture(t)
	f.seedSummary(t, "2025-11-13", "Thursday.", 1, "Happy")
	f.ai.jsonOutput = validReflectionJSON

	sync := NewSyncService(f.svc)
	sync.SyncForDate(context.Background(), f.user, "2025-11-13")

	var daily model.DailySummary
	if err := f.db.Where("user_id = ? AND date = ?", f.user, "2025-11-13").First(&daily).Error; err != nil {
		t.Fatalf("daily row missing: %v", err)
	}
	if daily.GenVersion == nil || *daily.GenVersion != GenVersion {
		t.Fatalf("daily reflection not generated: %+v", daily.GenVersion)
	}
	if n := countRows(t, f.db, &model.PeriodReflection{}); n != 2 {
		t.Fatalf("expected weekly and monthly rows, found %d", n)
	}
	if f.ai.calls != 3 {
		t.Fatalf("expected 3 model calls, got %d", f.ai.calls)
	}
}
