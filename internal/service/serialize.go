package service

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/wchwawa/journal-app-mvp/internal/model"
)

// SerializeDaily projects a daily summary row onto the card shape.
func SerializeDaily(row *model.DailySummary) model.ReflectionCard {
	return model.ReflectionCard{
		RecordID: row.ID.String(),
		Period: model.ReflectionPeriod{
			Type:  model.ModeDaily,
			Start: row.Date,
			End:   row.Date,
			Date:  row.Date,
		},
		Achievements:    presentList(row.Achievements),
		Commitments:     presentList(row.Commitments),
		MoodOverall:     row.MoodOverall,
		MoodReason:      row.MoodReason,
		Flashback:       row.Flashback,
		Stats:           decodeStats(row.Stats),
		Edited:          row.Edited,
		LastGeneratedAt: formatInstant(row.LastGeneratedAt),
		GenVersion:      row.GenVersion,
	}
}

// SerializePeriod projects a weekly/monthly reflection row onto the card
// shape. Period cards carry no date field.
func SerializePeriod(row *model.PeriodReflection) model.ReflectionCard {
	return model.ReflectionCard{
		RecordID: row.ID.String(),
		Period: model.ReflectionPeriod{
			Type:  row.PeriodType,
			Start: row.PeriodStart,
			End:   row.PeriodEnd,
		},
		Achievements:    presentList(row.Achievements),
		Commitments:     presentList(row.Commitments),
		MoodOverall:     row.MoodOverall,
		MoodReason:      row.MoodReason,
		Flashback:       row.Flashback,
		Stats:           decodeStats(row.Stats),
		Edited:          row.Edited,
		LastGeneratedAt: formatInstant(row.LastGeneratedAt),
		GenVersion:      row.GenVersion,
	}
}

// presentList null-coalesces to an empty list and drops blank entries.
func presentList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}

func decodeStats(raw datatypes.JSON) *model.ReflectionStats {
	if len(raw) == 0 {
		return nil
	}
	var stats model.ReflectionStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func encodeStats(stats *model.ReflectionStats) datatypes.JSON {
	if stats == nil {
		return nil
	}
	if stats.EntryCount == nil && len(stats.TopEmotions) == 0 && len(stats.Keywords) == 0 {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return nil
	}
	return raw
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
