package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/timezone"
)

var testDBSeq int64

// newTestDB opens a fresh in-memory sqlite database with the full schema.
// cache=shared keeps the database alive across pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&model.Member{},
		&model.JournalEntry{},
		&model.MoodEntry{},
		&model.DailySummary{},
		&model.PeriodReflection{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func sydneyResolver(t *testing.T) *timezone.Resolver {
	t.Helper()
	tz, err := timezone.NewResolver("Australia/Sydney")
	if err != nil {
		t.Fatalf("load resolver: %v", err)
	}
	return tz
}

func strptr(s string) *string { return &s }

// fakeAI is a canned Completer/WebSearcher for tests.
type fakeAI struct {
	completion string
	jsonOutput string
	err        error
	lastSystem string
	lastUser   string
	calls      int
}

func (f *fakeAI) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem, f.lastUser = system, user
	return f.completion, f.err
}

func (f *fakeAI) CompleteJSON(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem, f.lastUser = system, user
	return f.jsonOutput, f.err
}

func (f *fakeAI) WebSearch(_ context.Context, system, query string) (string, error) {
	f.calls++
	f.lastSystem, f.lastUser = system, query
	return f.completion, f.err
}

// reflectionFixture wires a ReflectionService over a test database with a
// deterministic clock.
type reflectionFixture struct {
	db   *gorm.DB
	tz   *timezone.Resolver
	ai   *fakeAI
	svc  *ReflectionService
	user uuid.UUID
}

func newReflectionFixture(t *testing.T) *reflectionFixture {
	t.Helper()
	db := newTestDB(t)
	tz := sydneyResolver(t)
	ai := &fakeAI{}
	svc := NewReflectionService(db, ai, NewAggregateService(db, tz), tz)
	svc.now = func() time.Time {
		return time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC)
	}
	return &reflectionFixture{db: db, tz: tz, ai: ai, svc: svc, user: uuid.New()}
}

func (f *reflectionFixture) seedSummary(t *testing.T, date, text string, entryCount int, emotions ...string) model.DailySummary {
	t.Helper()
	row := model.DailySummary{
		UserID:           f.user,
		Date:             date,
		Summary:          text,
		EntryCount:       entryCount,
		DominantEmotions: datatypes.NewJSONSlice(emotions),
	}
	if err := f.db.Create(&row).Error; err != nil {
		t.Fatalf("seed summary %s: %v", date, err)
	}
	return row
}

func countRows(t *testing.T, db *gorm.DB, entity interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(entity).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func sameList(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
