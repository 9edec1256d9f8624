package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wchwawa/journal-app-mvp/internal/logger"
	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/timezone"
)

// GenVersion tags rows with the generation logic that produced them.
const GenVersion = "reflections-v1"

const reflectionSystemPrompt = `You are an empathetic journaling coach. Respond strictly with JSON matching:
{
  "achievements": string[<=3],
  "commitments": string[<=3],
  "mood": {
    "overall": string | null,
    "reason": string | null
  },
  "flashback": string | null,
  "stats": {
    "entryCount"?: number,
    "topEmotions"?: string[],
    "keywords"?: string[]
  }
}`

// ReflectionService produces or refreshes exactly one reflection per
// (user, mode, anchor date), preserving prior user edits.
type ReflectionService struct {
	db  *gorm.DB
	ai  Completer
	agg *AggregateService
	tz  *timezone.Resolver
	now func() time.Time
}

func NewReflectionService(db *gorm.DB, ai Completer, agg *AggregateService, tz *timezone.Resolver) *ReflectionService {
	return &ReflectionService{db: db, ai: ai, agg: agg, tz: tz, now: time.Now}
}

// Generate runs the full pipeline for one period: aggregate, model call,
// schema validation, edit-preserving merge, persist. anchorDate defaults to
// today in the configured timezone.
func (s *ReflectionService) Generate(ctx context.Context, userID uuid.UUID, mode, anchorDate string) (*model.ReflectionCard, error) {
	if anchorDate == "" {
		anchorDate = s.tz.Today()
	}
	start, end, err := PeriodBounds(mode, anchorDate)
	if err != nil {
		return nil, err
	}

	if mode == model.ModeDaily {
		return s.generateDaily(ctx, userID, anchorDate)
	}
	return s.generatePeriod(ctx, userID, mode, start, end)
}

func (s *ReflectionService) generateDaily(ctx context.Context, userID uuid.UUID, date string) (*model.ReflectionCard, error) {
	daily, err := s.agg.FetchDailyAggregate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if daily == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDataForPeriod, date)
	}

	// Month-level aggregates enrich the prompt stats only; the narrative
	// context stays focused on the single day.
	monthStart, monthEnd, err := PeriodBounds(model.ModeMonthly, date)
	if err != nil {
		return nil, err
	}
	aggregates, err := s.agg.FetchAggregatesInRange(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	parsed, err := s.invokeModel(ctx, model.ModeDaily, buildDailyContext(daily), aggregates, "")
	if err != nil {
		return nil, err
	}

	existing := daily.Summary
	stats := parsed.Stats
	if stats == nil {
		count := existing.EntryCount
		stats = &model.ReflectionStats{
			EntryCount:  &count,
			TopEmotions: CountEmotions(aggregates),
		}
	}

	generatedAt := s.now().UTC()
	genVersion := GenVersion
	updates := map[string]interface{}{
		"stats":             encodeStats(stats),
		"gen_version":       genVersion,
		"last_generated_at": generatedAt,
	}
	// A user-edited row keeps its narrative fields verbatim.
	if !existing.Edited {
		updates["achievements"] = toJSONSlice(parsed.Achievements)
		updates["commitments"] = toJSONSlice(parsed.Commitments)
		updates["mood_overall"] = parsed.Mood.Overall
		updates["mood_reason"] = parsed.Mood.Reason
		updates["flashback"] = parsed.Flashback
	}

	err = s.db.WithContext(ctx).
		Model(&model.DailySummary{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("update daily reflection: %w", err)
	}

	var row model.DailySummary
	if err := s.db.WithContext(ctx).First(&row, "id = ?", existing.ID).Error; err != nil {
		return nil, fmt.Errorf("reload daily reflection: %w", err)
	}
	card := SerializeDaily(&row)
	return &card, nil
}

func (s *ReflectionService) generatePeriod(ctx context.Context, userID uuid.UUID, mode, start, end string) (*model.ReflectionCard, error) {
	aggregates, err := s.agg.FetchAggregatesInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(aggregates) == 0 {
		return nil, fmt.Errorf("%w: %s..%s", ErrNoDataForPeriod, start, end)
	}

	var label string
	if mode == model.ModeWeekly {
		label = fmt.Sprintf("Week of %s - %s", start, end)
	} else {
		label = fmt.Sprintf("Month of %s", start[:7])
	}
	context := buildPeriodIntro(mode) + "\n\n" + buildAggregatedText(aggregates)

	parsed, err := s.invokeModel(ctx, mode, context, aggregates, label)
	if err != nil {
		return nil, err
	}

	var existing *model.PeriodReflection
	var found model.PeriodReflection
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND period_type = ? AND period_start = ?", userID, mode, start).
		First(&found).Error
	if err == nil {
		existing = &found
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("fetch period reflection: %w", err)
	}

	stats := parsed.Stats
	if stats == nil {
		count := SumEntries(aggregates)
		stats = &model.ReflectionStats{
			EntryCount:  &count,
			TopEmotions: CountEmotions(aggregates),
		}
	}

	genVersion := GenVersion
	generatedAt := s.now().UTC()
	row := model.PeriodReflection{
		UserID:          userID,
		PeriodType:      mode,
		PeriodStart:     start,
		PeriodEnd:       end,
		Achievements:    toJSONSlice(parsed.Achievements),
		Commitments:     toJSONSlice(parsed.Commitments),
		MoodOverall:     parsed.Mood.Overall,
		MoodReason:      parsed.Mood.Reason,
		Flashback:       parsed.Flashback,
		Stats:           encodeStats(stats),
		GenVersion:      &genVersion,
		LastGeneratedAt: &generatedAt,
	}
	if existing != nil {
		// The upsert never flips edited back to false, and an edited row
		// keeps its narrative fields.
		row.Edited = existing.Edited
		if existing.Edited {
			row.Achievements = existing.Achievements
			row.Commitments = existing.Commitments
			row.MoodOverall = existing.MoodOverall
			row.MoodReason = existing.MoodReason
			row.Flashback = existing.Flashback
		}
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "period_type"}, {Name: "period_start"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"period_end",
			"achievements",
			"commitments",
			"mood_overall",
			"mood_reason",
			"flashback",
			"stats",
			"edited",
			"gen_version",
			"last_generated_at",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert period reflection: %w", err)
	}

	var saved model.PeriodReflection
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND period_type = ? AND period_start = ?", userID, mode, start).
		First(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("reload period reflection: %w", err)
	}
	card := SerializePeriod(&saved)
	return &card, nil
}

// invokeModel calls the LLM and validates its output. Raw text is logged on
// any parse or schema failure; the error propagates without retry.
func (s *ReflectionService) invokeModel(ctx context.Context, mode, contextText string, aggregates []DailyAggregate, label string) (*ReflectionOutput, error) {
	userPrompt := buildUserPrompt(mode, contextText, aggregates)
	if label != "" {
		userPrompt = label + "\n\n" + userPrompt
	}

	raw, err := s.ai.CompleteJSON(ctx, reflectionSystemPrompt, userPrompt)
	if err != nil {
		logger.Error("reflection.model_call_failed", "mode", mode, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	parsed, err := ParseReflectionOutput(raw)
	if err != nil {
		logger.Error("reflection.output_rejected", "mode", mode, "raw", raw, "err", err)
		return nil, err
	}
	return parsed, nil
}

func buildDailyContext(daily *DailyAggregate) string {
	summary := daily.Summary
	parts := []string{
		fmt.Sprintf("Date: %s", summary.Date),
		fmt.Sprintf("Daily summary: %s", summary.Summary),
		fmt.Sprintf("Entry count: %d", summary.EntryCount),
	}
	if summary.MoodQuality != nil {
		parts = append(parts, fmt.Sprintf("Mood quality: %s", *summary.MoodQuality))
	}

	emotions := presentList(summary.DominantEmotions)
	if len(emotions) == 0 && daily.Mood != nil {
		emotions = presentList(daily.Mood.Emotions)
	}
	if len(emotions) > 0 {
		parts = append(parts, "Emotions: "+strings.Join(emotions, ", "))
	}

	// Fall back to the raw check-in when the summary has no mood label.
	if daily.Mood != nil && summary.MoodQuality == nil && daily.Mood.DayQuality != "" {
		parts = append(parts, fmt.Sprintf("Mood (check-in): %s", daily.Mood.DayQuality))
	}
	return strings.Join(parts, "\n")
}

func buildPeriodIntro(mode string) string {
	label := "week"
	if mode == model.ModeMonthly {
		label = "month"
	}
	return fmt.Sprintf("You are summarising the user's %s. Consider the progression across days, highlight sustained achievements and commitments, and reflect on overall mood.", label)
}

func buildAggregatedText(aggregates []DailyAggregate) string {
	lines := make([]string, 0, len(aggregates))
	for _, agg := range aggregates {
		summary := agg.Summary
		dayParts := []string{
			fmt.Sprintf("Date: %s", summary.Date),
			fmt.Sprintf("Summary: %s", summary.Summary),
			fmt.Sprintf("Entries: %d", summary.EntryCount),
		}
		switch {
		case summary.MoodQuality != nil:
			dayParts = append(dayParts, fmt.Sprintf("Mood: %s", *summary.MoodQuality))
		case agg.Mood != nil && agg.Mood.DayQuality != "":
			dayParts = append(dayParts, fmt.Sprintf("Mood: %s", agg.Mood.DayQuality))
		}
		emotions := presentList(summary.DominantEmotions)
		if len(emotions) == 0 && agg.Mood != nil {
			emotions = presentList(agg.Mood.Emotions)
		}
		if len(emotions) > 0 {
			dayParts = append(dayParts, "Emotions: "+strings.Join(emotions, ", "))
		}
		lines = append(lines, strings.Join(dayParts, " | "))
	}
	return strings.Join(lines, "\n")
}

func buildUserPrompt(mode, contextText string, aggregates []DailyAggregate) string {
	subject := mode
	if mode == model.ModeDaily {
		subject = "day"
	}
	topEmotions := strings.Join(CountEmotions(aggregates), ", ")
	if topEmotions == "" {
		topEmotions = "None"
	}

	return fmt.Sprintf(`Use the JSON schema from the system message to summarise the following %s.

Context:
%s

Aggregated stats:
- Total entries: %d
- Top emotions: %s

Remember:
- achievements: <=3 concise bullet statements focusing on wins or progress.
- commitments: <=3 upcoming focus points or promises hinted in the context.
- mood.overall: one-word or short phrase descriptor (e.g. "happy", "reflective").
- mood.reason: <=120 chars justification rooted in the context.
- flashback: <=120 chars hook to re-engage the user later.
- stats: optionally include entryCount, topEmotions, keywords if helpful.

Return JSON only.`, subject, contextText, SumEntries(aggregates), topEmotions)
}

func toJSONSlice(items []string) datatypes.JSONSlice[string] {
	if items == nil {
		items = []string{}
	}
	return datatypes.NewJSONSlice(items)
}
