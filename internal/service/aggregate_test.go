package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/timezone"
)

func TestPeriodBounds(t *testing.T) {
	cases := []struct {
		mode   string
		anchor string
		start  string
		end    string
	}{
		{model.ModeDaily, "2025-11-13", "2025-11-13", "2025-11-13"},
		{model.ModeWeekly, "2025-11-13", "2025-11-10", "2025-11-16"}, // Thursday
		{model.ModeWeekly, "2025-11-10", "2025-11-10", "2025-11-16"}, // Monday
		{model.ModeWeekly, "2025-11-16", "2025-11-10", "2025-11-16"}, // Sunday ends its week
		{model.ModeMonthly, "2025-11-13", "2025-11-01", "2025-11-30"},
		{model.ModeMonthly, "2024-02-10", "2024-02-01", "2024-02-29"}, // leap year
		{model.ModeMonthly, "2025-12-31", "2025-12-01", "2025-12-31"},
	}
	for _, tc := range cases {
		start, end, err := PeriodBounds(tc.mode, tc.anchor)
		if err != nil {
			t.Fatalf("PeriodBounds(%s, %s): %v", tc.mode, tc.anchor, err)
		}
		if start != tc.start || end != tc.end {
			t.Fatalf("PeriodBounds(%s, %s) = %s..%s, want %s..%s",
				tc.mode, tc.anchor, start, end, tc.start, tc.end)
		}
	}
}

func TestPeriodBoundsRejectsBadInput(t *testing.T) {
	if _, _, err := PeriodBounds(model.ModeWeekly, "13/11/2025"); !errors.Is(err, timezone.ErrInvalidDate) {
		t.Fatalf("bad date: err = %v, want ErrInvalidDate", err)
	}
	if _, _, err := PeriodBounds("yearly", "2025-11-13"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestCountEmotionsOrdersByFrequency(t *testing.T) {
	aggregates := []DailyAggregate{
		{Summary: model.DailySummary{DominantEmotions: datatypes.NewJSONSlice([]string{"Happy", "Calm"})}},
		{Summary: model.DailySummary{DominantEmotions: datatypes.NewJSONSlice([]string{"Calm", "Focused"})}},
	}
	got := CountEmotions(aggregates)
	if !sameList(got, []string{"Calm", "Happy", "Focused"}) {
		t.Fatalf("CountEmotions = %v, want [Calm Happy Focused]", got)
	}
}

func TestCountEmotionsIncludesMoodCheckins(t *testing.T) {
	aggregates := []DailyAggregate{
		{
			Summary: model.DailySummary{DominantEmotions: datatypes.NewJSONSlice([]string{"Tired"})},
			Mood:    &model.MoodEntry{Emotions: datatypes.NewJSONSlice([]string{"Grateful", "Tired"})},
		},
	}
	got := CountEmotions(aggregates)
	if !sameList(got, []string{"Tired", "Grateful"}) {
		t.Fatalf("CountEmotions = %v, want [Tired Grateful]", got)
	}
}

func TestSumEntries(t *testing.T) {
	aggregates := []DailyAggregate{
		{Summary: model.DailySummary{EntryCount: 2}},
		{Summary: model.DailySummary{EntryCount: 3}},
	}
	if got := SumEntries(aggregates); got != 5 {
		t.Fatalf("SumEntries = %d, want 5", got)
	}
	if got := SumEntries(nil); got != 0 {
		t.Fatalf("SumEntries(nil) = %d, want 0", got)
	}
}

func TestFetchDailyAggregate(t *testing.T) {
	f := newReflectionFixture(t)
	agg := NewAggregateService(f.db, f.tz)
	ctx := context.Background()

	// No summary yet: absence, not an error.
	got, err := agg.FetchDailyAggregate(ctx, f.user, "2025-11-15")
	if err != nil {
		t.Fatalf("FetchDailyAggregate: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil aggregate for missing summary, got %+v", got)
	}

	f.seedSummary(t, "2025-11-15", "A good day.", 2, "Happy")

	// Mood recorded at 10:00 local on the same civil day.
	mood := model.MoodEntry{
		UserID:     f.user,
		DayQuality: "good",
		Emotions:   datatypes.NewJSONSlice([]string{"Calm"}),
		CreatedAt:  time.Date(2025, 11, 14, 23, 0, 0, 0, time.UTC),
	}
	if err := f.db.Create(&mood).Error; err != nil {
		t.Fatalf("seed mood: %v", err)
	}

	got, err = agg.FetchDailyAggregate(ctx, f.user, "2025-11-15")
	if err != nil {
		t.Fatalf("FetchDailyAggregate: %v", err)
	}
	if got == nil || got.Mood == nil {
		t.Fatalf("expected summary and mood, got %+v", got)
	}
	if got.Summary.Date != "2025-11-15" || got.Mood.DayQuality != "good" {
		t.Fatalf("unexpected aggregate: %+v", got)
	}

	// A day with a summary but no mood leaves Mood nil.
	f.seedSummary(t, "2025-11-16", "Quiet Sunday.", 1)
	got, err = agg.FetchDailyAggregate(ctx, f.user, "2025-11-16")
	if err != nil {
		t.Fatalf("FetchDailyAggregate: %v", err)
	}
	if got == nil || got.Mood != nil {
		t.Fatalf("expected summary with nil mood, got %+v", got)
	}
}

func TestFetchAggregatesInRange(t *testing.T) {
	f := newReflectionFixture(t)
	agg := NewAggregateService(f.db, f.tz)
	ctx := context.Background()

	f.seedSummary(t, "2025-11-12", "Midweek.", 1, "Focused")
	f.seedSummary(t, "2025-11-10", "Slow start.", 2)
	f.seedSummary(t, "2025-11-20", "Out of range.", 1)

	// Mood on the 12th, 09:30 local.
	mood := model.MoodEntry{
		UserID:     f.user,
		DayQuality: "okay",
		Emotions:   datatypes.NewJSONSlice([]string{"Tired"}),
		CreatedAt:  time.Date(2025, 11, 11, 22, 30, 0, 0, time.UTC),
	}
	if err := f.db.Create(&mood).Error; err != nil {
		t.Fatalf("seed mood: %v", err)
	}

	got, err := agg.FetchAggregatesInRange(ctx, f.user, "2025-11-10", "2025-11-16")
	if err != nil {
		t.Fatalf("FetchAggregatesInRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(got))
	}
	if got[0].Summary.Date != "2025-11-10" || got[1].Summary.Date != "2025-11-12" {
		t.Fatalf("aggregates out of order: %s, %s", got[0].Summary.Date, got[1].Summary.Date)
	}
	if got[0].Mood != nil {
		t.Fatalf("2025-11-10 should have no mood")
	}
	if got[1].Mood == nil || got[1].Mood.DayQuality != "okay" {
		t.Fatalf("2025-11-12 mood not joined: %+v", got[1].Mood)
	}

	empty, err := agg.FetchAggregatesInRange(ctx, f.user, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("FetchAggregatesInRange: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result, got %d", len(empty))
	}
}
