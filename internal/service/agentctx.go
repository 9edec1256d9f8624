package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/timezone"
)

// Context scopes the voice agent can ask for.
const (
	ScopeToday  = "today"
	ScopeWeek   = "week"
	ScopeMonth  = "month"
	ScopeRecent = "recent"
	ScopeCustom = "custom"
)

const (
	defaultContextLimit = 5
	maxContextLimit     = 20
)

// AgentContext is the journaling-history slice handed to the voice agent.
type AgentContext struct {
	Scope       string                   `json:"scope"`
	AnchorDate  string                   `json:"anchorDate"`
	Summaries   []model.DailySummary     `json:"summaries"`
	Reflections []model.PeriodReflection `json:"reflections"`
	Mood        *model.MoodEntry         `json:"mood"`
}

// AgentContextService answers the agent's context tool: read-only queries
// over the user's summaries, reflections and mood check-ins.
type AgentContextService struct {
	db *gorm.DB
	tz *timezone.Resolver
}

func NewAgentContextService(db *gorm.DB, tz *timezone.Resolver) *AgentContextService {
	return &AgentContextService{db: db, tz: tz}
}

func (s *AgentContextService) Fetch(ctx context.Context, userID uuid.UUID, req model.ContextRequest) (*AgentContext, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultContextLimit
	}
	if limit > maxContextLimit {
		limit = maxContextLimit
	}

	anchor := req.AnchorDate
	if anchor == "" {
		anchor = s.tz.Today()
	}
	result := &AgentContext{
		Scope:       req.Scope,
		AnchorDate:  anchor,
		Summaries:   []model.DailySummary{},
		Reflections: []model.PeriodReflection{},
	}

	switch req.Scope {
	case ScopeRecent:
		return result, s.recentSummaries(ctx, userID, limit, result)

	case ScopeCustom:
		if req.Range == nil {
			return result, s.recentSummaries(ctx, userID, limit, result)
		}
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND date >= ? AND date <= ?", userID, req.Range.Start, req.Range.End).
			Order("date ASC").
			Limit(limit).
			Find(&result.Summaries).Error
		if err != nil {
			return nil, fmt.Errorf("fetch custom-range summaries: %w", err)
		}
		return result, nil

	case ScopeToday:
		return s.fetchRange(ctx, userID, result, anchor, anchor, "", limit)

	case ScopeWeek, ScopeMonth:
		mode := model.ModeWeekly
		if req.Scope == ScopeMonth {
			mode = model.ModeMonthly
		}
		start, end, err := PeriodBounds(mode, anchor)
		if err != nil {
			return nil, err
		}
		return s.fetchRange(ctx, userID, result, start, end, mode, limit)

	default:
		return nil, fmt.Errorf("unknown context scope %q", req.Scope)
	}
}

func (s *AgentContextService) recentSummaries(ctx context.Context, userID uuid.UUID, limit int, result *AgentContext) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&result.Summaries).Error
	if err != nil {
		return fmt.Errorf("fetch recent summaries: %w", err)
	}
	return nil
}

func (s *AgentContextService) fetchRange(ctx context.Context, userID uuid.UUID, result *AgentContext, start, end, periodType string, limit int) (*AgentContext, error) {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC").
		Limit(limit).
		Find(&result.Summaries).Error
	if err != nil {
		return nil, fmt.Errorf("fetch range summaries: %w", err)
	}

	rangeStart, _, err := s.tz.UTCRangeForDate(start)
	if err != nil {
		return nil, err
	}
	_, rangeEnd, err := s.tz.UTCRangeForDate(end)
	if err != nil {
		return nil, err
	}

	var mood model.MoodEntry
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, rangeStart, rangeEnd).
		Order("created_at DESC").
		First(&mood).Error
	if err == nil {
		result.Mood = &mood
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("fetch range mood: %w", err)
	}

	if periodType != "" {
		err = s.db.WithContext(ctx).
			Where("user_id = ? AND period_type = ? AND period_start = ? AND period_end = ?", userID, periodType, start, end).
			Find(&result.Reflections).Error
		if err != nil {
			return nil, fmt.Errorf("fetch period reflections: %w", err)
		}
	}
	return result, nil
}
