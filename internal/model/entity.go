package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Member struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex" json:"username"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalEntry is one transcribed voice note. Text is the raw transcript,
// RephrasedText the AI-polished version shown to the user.
type JournalEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Text          string    `json:"text"`
	RephrasedText string    `json:"rephrased_text"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// MoodEntry is the self-reported daily mood check-in. Read-only input to
// aggregation; the reflection pipeline never mutates it.
type MoodEntry struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID                   `gorm:"type:uuid;index" json:"user_id"`
	DayQuality string                      `json:"day_quality"`
	Emotions   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"emotions"`
	CreatedAt  time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// DailySummary holds the generated narrative plus reflection fields for one
// (user, calendar date). At most one row per key, enforced by uk_user_date.
type DailySummary struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                   `gorm:"type:uuid;uniqueIndex:uk_user_date" json:"user_id"`
	Date             string                      `gorm:"type:date;uniqueIndex:uk_user_date" json:"date"`
	Summary          string                      `json:"summary"`
	EntryCount       int                         `json:"entry_count"`
	MoodQuality      *string                     `json:"mood_quality"`
	DominantEmotions datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"dominant_emotions"`
	Achievements     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"achievements"`
	Commitments      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"commitments"`
	MoodOverall      *string                     `json:"mood_overall"`
	MoodReason       *string                     `json:"mood_reason"`
	Flashback        *string                     `json:"flashback"`
	Stats            datatypes.JSON              `gorm:"type:jsonb" json:"stats"`
	Edited           bool                        `gorm:"default:false" json:"edited"`
	GenVersion       *string                     `json:"gen_version"`
	LastGeneratedAt  *time.Time                  `json:"last_generated_at"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// PeriodReflection is the weekly/monthly counterpart of DailySummary's
// reflection fields. (user_id, period_type, period_start) is the upsert
// conflict key.
type PeriodReflection struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID                   `gorm:"type:uuid;uniqueIndex:uk_user_period" json:"user_id"`
	PeriodType      string                      `gorm:"uniqueIndex:uk_user_period" json:"period_type"`
	PeriodStart     string                      `gorm:"type:date;uniqueIndex:uk_user_period" json:"period_start"`
	PeriodEnd       string                      `gorm:"type:date" json:"period_end"`
	Achievements    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"achievements"`
	Commitments     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"commitments"`
	MoodOverall     *string                     `json:"mood_overall"`
	MoodReason      *string                     `json:"mood_reason"`
	Flashback       *string                     `json:"flashback"`
	Stats           datatypes.JSON              `gorm:"type:jsonb" json:"stats"`
	Edited          bool                        `gorm:"default:false" json:"edited"`
	GenVersion      *string                     `json:"gen_version"`
	LastGeneratedAt *time.Time                  `json:"last_generated_at"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

func (Member) TableName() string           { return "members" }
func (JournalEntry) TableName() string     { return "journal_entries" }
func (MoodEntry) TableName() string        { return "mood_entries" }
func (DailySummary) TableName() string     { return "daily_summaries" }
func (PeriodReflection) TableName() string { return "period_reflections" }

func (m *Member) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (e *JournalEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (m *MoodEntry) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (s *DailySummary) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (r *PeriodReflection) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
