package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wchwawa/journal-app-mvp/internal/model"
)

func TestListJournalsPaging(t *testing.T) {
	f := newReflectionFixture(t)
	svc := NewJournalService(f.db, f.tz)

	base := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedEntry(t, f, base.Add(time.Duration(i)*time.Hour), "note", "Note.")
	}

	page, err := svc.List(context.Background(), f.user, model.ListJournalsRequest{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 3 || len(page.Entries) != 2 {
		t.Fatalf("page 1 = total %d, %d entries", page.Total, len(page.Entries))
	}
	if !page.Entries[0].CreatedAt.After(page.Entries[1].CreatedAt) {
		t.Fatalf("entries must be newest first")
	}

	page, err = svc.List(context.Background(), f.user, model.ListJournalsRequest{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page.Entries) != 1 {
		t.Fatalf("page 2 = %d entries, want 1", len(page.Entries))
	}

	// Defaults kick in for a zero request.
	page, err = svc.List(context.Background(), f.user, model.ListJournalsRequest{})
	if err != nil {
		t.Fatalf("List defaults: %v", err)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Fatalf("defaults = page %d limit %d", page.Page, page.Limit)
	}
}

func TestListJournalsDateFilter(t *testing.T) {
	f := newReflectionFixture(t)
	svc := NewJournalService(f.db, f.tz)

	// One entry on local 2025-11-14, one on local 2025-11-15.
	seedEntry(t, f, time.Date(2025, 11, 14, 2, 0, 0, 0, time.UTC), "first", "First.")
	seedEntry(t, f, time.Date(2025, 11, 15, 2, 0, 0, 0, time.UTC), "second", "Second.")

	page, err := svc.List(context.Background(), f.user, model.ListJournalsRequest{
		StartDate: "2025-11-15",
		EndDate:   "2025-11-15",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 || page.Entries[0].Text != "second" {
		t.Fatalf("filtered page = %+v", page)
	}

	if _, err := svc.List(context.Background(), f.user, model.ListJournalsRequest{StartDate: "bad"}); err == nil {
		t.Fatalf("bad startDate must be rejected")
	}
}

func TestUpdateRephrased(t *testing.T) {
	f := newReflectionFixture(t)
	svc := NewJournalService(f.db, f.tz)

	// 22:00 UTC on the 14th is already the 15th in Sydney.
	entry := seedEntry(t, f, time.Date(2025, 11, 14, 22, 0, 0, 0, time.UTC), "raw", "Old phrasing.")

	updated, date, err := svc.UpdateRephrased(context.Background(), f.user, entry.ID, "New phrasing.")
	if err != nil {
		t.Fatalf("UpdateRephrased: %v", err)
	}
	if updated.RephrasedText != "New phrasing." {
		t.Fatalf("rephrased = %q", updated.RephrasedText)
	}
	if date != "2025-11-15" {
		t.Fatalf("resync date = %s, want local civil date 2025-11-15", date)
	}

	if _, _, err := svc.UpdateRephrased(context.Background(), uuid.New(), entry.ID, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign user err = %v, want ErrNotFound", err)
	}
}
