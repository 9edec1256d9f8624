package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wchwawa/journal-app-mvp/internal/model"
)

// ListDaily returns daily reflection cards newest first, optionally starting
// from a given date going backwards. The cap is 30 regardless of the
// requested limit.
func (s *ReflectionService) ListDaily(ctx context.Context, userID uuid.UUID, limit int, start string) ([]model.ReflectionCard, error) {
	if limit < 1 || limit > model.MaxListedDaily {
		limit = model.MaxListedDaily
	}

	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit)
	if start != "" {
		query = query.Where("date <= ?", start)
	}

	var rows []model.DailySummary
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list daily reflections: %w", err)
	}

	cards := make([]model.ReflectionCard, 0, len(rows))
	for i := range rows {
		cards = append(cards, SerializeDaily(&rows[i]))
	}
	return cards, nil
}

// ListPeriod returns weekly or monthly cards newest first, capped at 12.
func (s *ReflectionService) ListPeriod(ctx context.Context, userID uuid.UUID, periodType string, limit int) ([]model.ReflectionCard, error) {
	maxListed := model.MaxListedMonth
	if periodType == model.ModeWeekly {
		maxListed = model.MaxListedWeekly
	}
	if limit < 1 || limit > maxListed {
		limit = maxListed
	}

	var rows []model.PeriodReflection
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND period_type = ?", userID, periodType).
		Order("period_start DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list period reflections: %w", err)
	}

	cards := make([]model.ReflectionCard, 0, len(rows))
	for i := range rows {
		cards = append(cards, SerializePeriod(&rows[i]))
	}
	return cards, nil
}

// PatchDaily applies a user edit to the daily reflection for a date. Edited
// becomes sticky true; gen_version and last_generated_at are left untouched.
func (s *ReflectionService) PatchDaily(ctx context.Context, userID uuid.UUID, date string, req model.PatchReflectionRequest) (*model.ReflectionCard, error) {
	var existing model.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch daily reflection: %w", err)
	}

	err = s.db.WithContext(ctx).
		Model(&model.DailySummary{}).
		Where("id = ?", existing.ID).
		Updates(patchUpdates(req)).Error
	if err != nil {
		return nil, fmt.Errorf("patch daily reflection: %w", err)
	}

	var row model.DailySummary
	if err := s.db.WithContext(ctx).First(&row, "id = ?", existing.ID).Error; err != nil {
		return nil, fmt.Errorf("reload daily reflection: %w", err)
	}
	card := SerializeDaily(&row)
	return &card, nil
}

// PatchPeriod is PatchDaily for weekly/monthly rows, addressed by record id.
func (s *ReflectionService) PatchPeriod(ctx context.Context, userID, recordID uuid.UUID, req model.PatchReflectionRequest) (*model.ReflectionCard, error) {
	var existing model.PeriodReflection
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recordID, userID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch period reflection: %w", err)
	}

	err = s.db.WithContext(ctx).
		Model(&model.PeriodReflection{}).
		Where("id = ?", existing.ID).
		Updates(patchUpdates(req)).Error
	if err != nil {
		return nil, fmt.Errorf("patch period reflection: %w", err)
	}

	var row model.PeriodReflection
	if err := s.db.WithContext(ctx).First(&row, "id = ?", existing.ID).Error; err != nil {
		return nil, fmt.Errorf("reload period reflection: %w", err)
	}
	card := SerializePeriod(&row)
	return &card, nil
}

func patchUpdates(req model.PatchReflectionRequest) map[string]interface{} {
	updates := map[string]interface{}{"edited": true}
	if req.Achievements != nil {
		updates["achievements"] = toJSONSlice(*req.Achievements)
	}
	if req.Commitments != nil {
		updates["commitments"] = toJSONSlice(*req.Commitments)
	}
	if req.MoodOverall != nil {
		updates["mood_overall"] = req.MoodOverall
	}
	if req.MoodReason != nil {
		updates["mood_reason"] = req.MoodReason
	}
	if req.Flashback != nil {
		updates["flashback"] = req.Flashback
	}
	return updates
}

// ValidatePatch enforces the edit payload contract: at least one usable
// field, list caps of 3, and the same length caps the generator enforces on
// model output.
func ValidatePatch(req model.PatchReflectionRequest) error {
	supplied := false

	checkList := func(field string, items *[]string) error {
		if items == nil {
			return nil
		}
		supplied = true
		if len(*items) > maxListItems {
			return fmt.Errorf("%s exceeds %d entries", field, maxListItems)
		}
		for _, item := range *items {
			if strings.TrimSpace(item) == "" {
				return fmt.Errorf("%s contains a blank entry", field)
			}
		}
		return nil
	}
	checkText := func(field string, value *string, maxLen int) error {
		if value == nil {
			return nil
		}
		supplied = true
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			return fmt.Errorf("%s is blank", field)
		}
		if len([]rune(trimmed)) > maxLen {
			return fmt.Errorf("%s exceeds %d characters", field, maxLen)
		}
		return nil
	}

	if err := checkList("achievements", req.Achievements); err != nil {
		return err
	}
	if err := checkList("commitments", req.Commitments); err != nil {
		return err
	}
	if err := checkText("moodOverall", req.MoodOverall, maxMoodOverall); err != nil {
		return err
	}
	if err := checkText("moodReason", req.MoodReason, maxShortText); err != nil {
		return err
	}
	if err := checkText("flashback", req.Flashback, maxShortText); err != nil {
		return err
	}

	if !supplied {
		return fmt.Errorf("at least one field must be provided for update")
	}
	return nil
}
