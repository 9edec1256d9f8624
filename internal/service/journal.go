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

const maxJournalPageSize = 50

// JournalService reads and edits transcribed voice notes.
type JournalService struct {
	db *gorm.DB
	tz *timezone.Resolver
}

func NewJournalService(db *gorm.DB, tz *timezone.Resolver) *JournalService {
	return &JournalService{db: db, tz: tz}
}

type JournalPage struct {
	Entries []model.JournalEntry `json:"entries"`
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
	Total   int64                `json:"total"`
}

// List returns a page of the user's entries, newest first, optionally
// filtered to a civil-date range.
func (s *JournalService) List(ctx context.Context, userID uuid.UUID, req model.ListJournalsRequest) (*JournalPage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > maxJournalPageSize {
		limit = maxJournalPageSize
	}

	query := s.db.WithContext(ctx).Model(&model.JournalEntry{}).Where("user_id = ?", userID)
	if req.StartDate != "" {
		start, _, err := s.tz.UTCRangeForDate(req.StartDate)
		if err != nil {
			return nil, err
		}
		query = query.Where("created_at >= ?", start)
	}
	if req.EndDate != "" {
		_, end, err := s.tz.UTCRangeForDate(req.EndDate)
		if err != nil {
			return nil, err
		}
		query = query.Where("created_at <= ?", end)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count journal entries: %w", err)
	}

	var entries []model.JournalEntry
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	if entries == nil {
		entries = []model.JournalEntry{}
	}

	return &JournalPage{Entries: entries, Page: page, Limit: limit, Total: total}, nil
}

// UpdateRephrased replaces an entry's rephrased text and returns the updated
// entry plus the civil date it belongs to, so callers can resync that day's
// reflections.
func (s *JournalService) UpdateRephrased(ctx context.Context, userID, entryID uuid.UUID, rephrased string) (*model.JournalEntry, string, error) {
	var entry model.JournalEntry
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("fetch journal entry: %w", err)
	}

	err = s.db.WithContext(ctx).
		Model(&entry).
		Update("rephrased_text", rephrased).Error
	if err != nil {
		return nil, "", fmt.Errorf("update journal entry: %w", err)
	}

	return &entry, s.tz.LocalDate(entry.CreatedAt), nil
}
