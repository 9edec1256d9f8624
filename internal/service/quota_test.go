package service

import (
	"testing"
	"time"
)

func TestSearchQuotaCapsPerDay(t *testing.T) {
	q := NewSearchQuota(sydneyResolver(t))
	current := time.Date(2025, 11, 15, 1, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return current }

	allowed, remaining := q.CanUse("u1")
	if !allowed || remaining != MaxSearchesPerDay {
		t.Fatalf("fresh quota = (%v, %d), want (true, %d)", allowed, remaining, MaxSearchesPerDay)
	}

	for i := 0; i < MaxSearchesPerDay; i++ {
		got := q.Record("u1")
		want := MaxSearchesPerDay - i - 1
		if got != want {
			t.Fatalf("after %d searches remaining = %d, want %d", i+1, got, want)
		}
	}

	allowed, remaining = q.CanUse("u1")
	if allowed || remaining != 0 {
		t.Fatalf("exhausted quota = (%v, %d), want (false, 0)", allowed, remaining)
	}

	// Other users are unaffected.
	if allowed, _ := q.CanUse("u2"); !allowed {
		t.Fatalf("quota must be per user")
	}
}

// The reset boundary is local midnight, not a UTC day.
func TestSearchQuotaResetsAtLocalMidnight(t *testing.T) {
	q := NewSearchQuota(sydneyResolver(t))
	// 23:59 on 2025-11-15 in Sydney.
	current := time.Date(2025, 11, 15, 12, 59, 0, 0, time.UTC)
	q.now = func() time.Time { return current }

	for i := 0; i < MaxSearchesPerDay; i++ {
		q.Record("u1")
	}
	if allowed, _ := q.CanUse("u1"); allowed {
		t.Fatalf("quota should be exhausted before midnight")
	}

	// Two minutes later it is 00:01 local on the 16th.
	current = time.Date(2025, 11, 15, 13, 1, 0, 0, time.UTC)
	allowed, remaining := q.CanUse("u1")
	if !allowed || remaining != MaxSearchesPerDay {
		t.Fatalf("rolled-over quota = (%v, %d), want (true, %d)", allowed, remaining, MaxSearchesPerDay)
	}
	if got := q.Record("u1"); got != MaxSearchesPerDay-1 {
		t.Fatalf("first search of new day leaves %d, want %d", got, MaxSearchesPerDay-1)
	}
}
