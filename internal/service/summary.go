package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/timezone"
)

const summarySystemPrompt = `You are a thoughtful journal assistant that creates concise daily summaries.

Your task is to:
- Synthesize multiple journal entries into a coherent daily narrative
- Maintain first-person perspective throughout
- Identify key themes, emotions, and insights from the day
- Highlight important events or realizations
- Keep the summary between 3-5 sentences
- Make it reflective and meaningful
- Consider the overall mood context if provided

The summary should read like a thoughtful reflection on the day, not just a list of events.`

// SummaryService condenses a day's journal entries into the daily_summaries
// narrative row that the reflection pipeline aggregates.
type SummaryService struct {
	db  *gorm.DB
	ai  Completer
	agg *AggregateService
	tz  *timezone.Resolver
}

func NewSummaryService(db *gorm.DB, ai Completer, agg *AggregateService, tz *timezone.Resolver) *SummaryService {
	return &SummaryService{db: db, ai: ai, agg: agg, tz: tz}
}

type SummaryResult struct {
	SummaryID  uuid.UUID `json:"summaryId"`
	Summary    string    `json:"summary"`
	EntryCount int       `json:"entryCount"`
}

// GenerateForDate summarises the journal entries recorded on one local day
// and upserts the result on (user_id, date). Returns nil when the day has no
// entries; nothing is written in that case.
func (s *SummaryService) GenerateForDate(ctx context.Context, userID uuid.UUID, date string) (*SummaryResult, error) {
	dayStart, dayEnd, err := s.tz.UTCRangeForDate(date)
	if err != nil {
		return nil, err
	}

	var entries []model.JournalEntry
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, dayStart, dayEnd).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("fetch journal entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	mood, err := s.agg.fetchMoodForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	summary, err := s.ai.Complete(ctx, summarySystemPrompt, s.buildSummaryPrompt(entries, mood))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	row := model.DailySummary{
		UserID:     userID,
		Date:       date,
		Summary:    summary,
		EntryCount: len(entries),
	}
	if mood != nil {
		quality := mood.DayQuality
		row.MoodQuality = &quality
		row.DominantEmotions = mood.Emotions
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary",
			"entry_count",
			"mood_quality",
			"dominant_emotions",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert daily summary: %w", err)
	}

	var saved model.DailySummary
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("reload daily summary: %w", err)
	}

	return &SummaryResult{
		SummaryID:  saved.ID,
		Summary:    saved.Summary,
		EntryCount: saved.EntryCount,
	}, nil
}

func (s *SummaryService) buildSummaryPrompt(entries []model.JournalEntry, mood *model.MoodEntry) string {
	texts := make([]string, 0, len(entries))
	for i, entry := range entries {
		text := entry.RephrasedText
		if text == "" {
			text = entry.Text
		}
		stamp := entry.CreatedAt.In(s.tz.Location()).Format("15:04")
		texts = append(texts, fmt.Sprintf("Entry %d (%s): %s", i+1, stamp, text))
	}

	moodContext := ""
	if mood != nil {
		moodContext = fmt.Sprintf("\nToday's mood: %s, feeling %s.", mood.DayQuality, strings.Join(mood.Emotions, ", "))
	}
	return fmt.Sprintf("Create a daily summary from these journal entries:%s\n\n%s", moodContext, strings.Join(texts, "\n\n"))
}
