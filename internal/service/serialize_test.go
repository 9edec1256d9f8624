package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/wchwawa/journal-app-mvp/internal/model"
)

func TestSerializeDaily(t *testing.T) {
	ts := time.Date(2025, 11, 15, 10, 30, 0, 0, time.UTC)
	gen := GenVersion
	row := model.DailySummary{
		ID:              uuid.New(),
		Date:            "2025-11-15",
		Achievements:    datatypes.NewJSONSlice([]string{"Did a thing", "   ", "Another"}),
		MoodOverall:     strptr("content"),
		Stats:           encodeStats(&model.ReflectionStats{TopEmotions: []string{"Calm"}}),
		Edited:          true,
		GenVersion:      &gen,
		LastGeneratedAt: &ts,
	}

	card := SerializeDaily(&row)
	if card.RecordID != row.ID.String() {
		t.Fatalf("recordId = %s", card.RecordID)
	}
	if card.Period.Type != model.ModeDaily || card.Period.Date != "2025-11-15" ||
		card.Period.Start != "2025-11-15" || card.Period.End != "2025-11-15" {
		t.Fatalf("unexpected period: %+v", card.Period)
	}
	// Blank entries are dropped, not surfaced.
	if !sameList(card.Achievements, []string{"Did a thing", "Another"}) {
		t.Fatalf("achievements = %v", card.Achievements)
	}
	// Absent commitments coalesce to an empty list, never null.
	if card.Commitments == nil || len(card.Commitments) != 0 {
		t.Fatalf("commitments = %v, want empty list", card.Commitments)
	}
	if card.Stats == nil || !sameList(card.Stats.TopEmotions, []string{"Calm"}) {
		t.Fatalf("stats = %+v", card.Stats)
	}
	if card.LastGeneratedAt == nil || *card.LastGeneratedAt != "2025-11-15T10:30:00Z" {
		t.Fatalf("lastGeneratedAt = %v", card.LastGeneratedAt)
	}
	if !card.Edited {
		t.Fatalf("edited flag lost")
	}
}

func TestSerializePeriod(t *testing.T) {
	row := model.PeriodReflection{
		ID:          uuid.New(),
		PeriodType:  model.ModeWeekly,
		PeriodStart: "2025-11-10",
		PeriodEnd:   "2025-11-16",
	}

	card := SerializePeriod(&row)
	if card.Period.Type != model.ModeWeekly || card.Period.Start != "2025-11-10" || card.Period.End != "2025-11-16" {
		t.Fatalf("unexpected period: %+v", card.Period)
	}
	if card.Period.Date != "" {
		t.Fatalf("period cards carry no date, got %q", card.Period.Date)
	}
	if card.Stats != nil {
		t.Fatalf("empty stats column must serialize as nil, got %+v", card.Stats)
	}
	if card.MoodOverall != nil || card.LastGeneratedAt != nil {
		t.Fatalf("unset fields must stay null: %+v", card)
	}
}

func TestEncodeStatsDropsEmpty(t *testing.T) {
	if got := encodeStats(nil); got != nil {
		t.Fatalf("encodeStats(nil) = %v", got)
	}
	if got := encodeStats(&model.ReflectionStats{}); got != nil {
		t.Fatalf("empty stats must encode to nil, got %s", got)
	}

	count := 4
	raw := encodeStats(&model.ReflectionStats{EntryCount: &count, Keywords: []string{"work"}})
	stats := decodeStats(raw)
	if stats == nil || *stats.EntryCount != 4 || !sameList(stats.Keywords, []string{"work"}) {
		t.Fatalf("round trip lost data: %+v", stats)
	}
}
