package service

import (
	"sync"
	"time"

	"github.com/wchwawa/journal-app-mvp/internal/timezone"
)

// MaxSearchesPerDay caps the agent's web-search tool per user per local day.
const MaxSearchesPerDay = 5

// SearchQuota tracks per-user search usage in process memory. Counters reset
// when the local day rolls over; a restart also resets them, which is
// acceptable for advisory soft-limiting.
type SearchQuota struct {
	mu    sync.Mutex
	usage map[string]quotaRecord
	tz    *timezone.Resolver
	now   func() time.Time
}

type quotaRecord struct {
	date  string
	count int
}

func NewSearchQuota(tz *timezone.Resolver) *SearchQuota {
	return &SearchQuota{
		usage: make(map[string]quotaRecord),
		tz:    tz,
		now:   time.Now,
	}
}

// CanUse reports whether the user has quota left today and how much remains.
func (q *SearchQuota) CanUse(userID string) (allowed bool, remaining int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	today := q.tz.LocalDate(q.now())
	record, ok := q.usage[userID]
	if !ok || record.date != today {
		q.usage[userID] = quotaRecord{date: today}
		return true, MaxSearchesPerDay
	}

	remaining = MaxSearchesPerDay - record.count
	if remaining < 0 {
		remaining = 0
	}
	return record.count < MaxSearchesPerDay, remaining
}

// Record counts one search against today's quota and returns the remainder.
func (q *SearchQuota) Record(userID string) (remaining int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	today := q.tz.LocalDate(q.now())
	record, ok := q.usage[userID]
	if !ok || record.date != today {
		q.usage[userID] = quotaRecord{date: today, count: 1}
		return MaxSearchesPerDay - 1
	}

	record.count++
	q.usage[userID] = record
	remaining = MaxSearchesPerDay - record.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
