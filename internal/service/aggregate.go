package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/timezone"
)

// DailyAggregate joins one day's summary with the mood check-in recorded the
// same civil day, if any.
type DailyAggregate struct {
	Summary model.DailySummary
	Mood    *model.MoodEntry
}

// AggregateService reads daily summaries and mood entries over period ranges.
// It creates nothing and treats "no rows" as absence, never as an error.
type AggregateService struct {
	db *gorm.DB
	tz *timezone.Resolver
}

func NewAggregateService(db *gorm.DB, tz *timezone.Resolver) *AggregateService {
	return &AggregateService{db: db, tz: tz}
}

// PeriodBounds computes the inclusive civil-date bounds of the period
// containing anchorDate. Weeks run Monday through Sunday.
func PeriodBounds(mode, anchorDate string) (start, end string, err error) {
	anchor, err := time.Parse("2006-01-02", anchorDate)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", timezone.ErrInvalidDate, anchorDate)
	}

	switch mode {
	case model.ModeDaily:
		return anchorDate, anchorDate, nil
	case model.ModeWeekly:
		// Sunday is the end of its week, not the start of the next.
		dow := int(anchor.Weekday())
		if dow == 0 {
			dow = 7
		}
		monday := anchor.AddDate(0, 0, 1-dow)
		sunday := monday.AddDate(0, 0, 6)
		return isoDate(monday), isoDate(sunday), nil
	case model.ModeMonthly:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return isoDate(first), isoDate(last), nil
	default:
		return "", "", fmt.Errorf("unknown reflection mode %q", mode)
	}
}

func isoDate(t time.Time) string { return t.Format("2006-01-02") }

// FetchDailyAggregate returns nil when no summary exists for the date. A
// missing mood entry leaves Mood nil; any other store error propagates.
func (s *AggregateService) FetchDailyAggregate(ctx context.Context, userID uuid.UUID, date string) (*DailyAggregate, error) {
	var summary model.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch daily summary: %w", err)
	}

	mood, err := s.fetchMoodForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return &DailyAggregate{Summary: summary, Mood: mood}, nil
}

func (s *AggregateService) fetchMoodForDate(ctx context.Context, userID uuid.UUID, date string) (*model.MoodEntry, error) {
	dayStart, dayEnd, err := s.tz.UTCRangeForDate(date)
	if err != nil {
		return nil, err
	}
	var mood model.MoodEntry
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, dayStart, dayEnd).
		First(&mood).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch mood entry: %w", err)
	}
	return &mood, nil
}

// FetchAggregatesInRange fetches all summaries in [start, end] ordered by date
// ascending and joins each to the mood entry recorded on the same civil day.
func (s *AggregateService) FetchAggregatesInRange(ctx context.Context, userID uuid.UUID, start, end string) ([]DailyAggregate, error) {
	var summaries []model.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("fetch summaries range: %w", err)
	}
	if len(summaries) == 0 {
		return []DailyAggregate{}, nil
	}

	rangeStart, _, err := s.tz.UTCRangeForDate(start)
	if err != nil {
		return nil, err
	}
	_, rangeEnd, err := s.tz.UTCRangeForDate(end)
	if err != nil {
		return nil, err
	}

	var moods []model.MoodEntry
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, rangeStart, rangeEnd).
		Find(&moods).Error
	if err != nil {
		return nil, fmt.Errorf("fetch moods range: %w", err)
	}

	moodByDate := make(map[string]*model.MoodEntry, len(moods))
	for i := range moods {
		moodByDate[s.tz.LocalDate(moods[i].CreatedAt)] = &moods[i]
	}

	aggregates := make([]DailyAggregate, 0, len(summaries))
	for _, summary := range summaries {
		aggregates = append(aggregates, DailyAggregate{
			Summary: summary,
			Mood:    moodByDate[summary.Date],
		})
	}
	return aggregates, nil
}

// CountEmotions tallies emotion labels across summary and mood sources and
// returns them by descending frequency. Ties keep first-encountered order.
func CountEmotions(aggregates []DailyAggregate) []string {
	counts := make(map[string]int)
	var order []string
	tally := func(emotion string) {
		if _, seen := counts[emotion]; !seen {
			order = append(order, emotion)
		}
		counts[emotion]++
	}
	for _, agg := range aggregates {
		for _, emotion := range agg.Summary.DominantEmotions {
			tally(emotion)
		}
		if agg.Mood != nil {
			for _, emotion := range agg.Mood.Emotions {
				tally(emotion)
			}
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// SumEntries totals entry_count across aggregates.
func SumEntries(aggregates []DailyAggregate) int {
	total := 0
	for _, agg := range aggregates {
		total += agg.Summary.EntryCount
	}
	return total
}
