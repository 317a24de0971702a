package audit

import (
	"context"
	"errors"
	"testing"
)

type failingStore struct {
	appends int
}

func (f *failingStore) AppendEntry(ctx context.Context, entry *Entry) error {
	f.appends++
	return errors.New("disk full")
}

func (f *failingStore) ListEntries(ctx context.Context, _ Filter) ([]Entry, error) {
	return nil, errors.New("disk full")
}

func (f *failingStore) SummarizeEntries(ctx context.Context, _, _ string) ([]SummaryRow, error) {
	return nil, errors.New("disk full")
}

type capturingStore struct {
	entries []Entry
}

func (c *capturingStore) AppendEntry(ctx context.Context, entry *Entry) error {
	c.entries = append(c.entries, *entry)
	return nil
}

func (c *capturingStore) ListEntries(ctx context.Context, _ Filter) ([]Entry, error) {
	return c.entries, nil
}

func (c *capturingStore) SummarizeEntries(ctx context.Context, _, _ string) ([]SummaryRow, error) {
	return nil, nil
}

func TestRecordSwallowsStorageFailure(t *testing.T) {
	store := &failingStore{}
	rec := NewRecorder(store)

	// Must not panic and must not propagate the error in any form.
	rec.Record(context.Background(), Actor{ID: "SA1", Role: "SUPER_ADMIN", Name: "root"}, ActionLogin, "login")

	if store.appends != 1 {
		t.Fatalf("expected one append attempt, got %d", store.appends)
	}
}

func TestRecordCarriesRequestMeta(t *testing.T) {
	store := &capturingStore{}
	rec := NewRecorder(store)

	ctx := WithRequestMeta(context.Background(), "203.0.113.9", "curl/8.0")
	rec.Record(ctx, Actor{ID: "ADM1", Role: "ADMIN", Name: "amig_admin"}, ActionCollectFee, "collected fee")

	if len(store.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(store.entries))
	}
	e := store.entries[0]
	if e.SourceAddr != "203.0.113.9" || e.UserAgent != "curl/8.0" {
		t.Fatalf("request meta not carried: %+v", e)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp: %+v", e)
	}
	if e.Action != ActionCollectFee || e.ActorID != "ADM1" {
		t.Fatalf("unexpected attribution: %+v", e)
	}
}

func TestRecordWithoutMetaLeavesFieldsEmpty(t *testing.T) {
	store := &capturingStore{}
	rec := NewRecorder(store)

	rec.Record(context.Background(), Actor{ID: "SA1", Role: "SUPER_ADMIN", Name: "root"}, ActionLogout, "")

	if got := store.entries[0]; got.SourceAddr != "" || got.UserAgent != "" {
		t.Fatalf("expected empty request meta, got %+v", got)
	}
}

func TestServiceValidatesQueryInput(t *testing.T) {
	svc := NewService(&capturingStore{})

	if _, err := svc.List(context.Background(), Filter{Date: "31-12-2025"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}
	if _, err := svc.Summary(context.Background(), "2025-01-01", "bogus"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad range, got %v", err)
	}
	if _, err := svc.ListByActor(context.Background(), "  ", 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty actor, got %v", err)
	}
}
