package service

import (
	"context"
	"testing"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/a-s-adam/streamlink/internal/repository"
	"github.com/a-s-adam/streamlink/internal/source"
)

func TestIngestBatchDeduplicatesItems(t *testing.T) {
	db := testDB(t)
	items := repository.NewItemRepository(db)
	events := repository.NewEventRepository(db)
	providers := repository.NewProviderRepository(db)
	users := repository.NewUserRepository(db)
	dispatcher := &fakeDispatcher{}
	svc := NewIngestService(items, events, providers, users, dispatcher)

	now := time.Now().UTC()
	records := []source.Record{
		{Title: "The Matrix", Year: 1999, Type: domain.ItemTypeMovie, OccurredAt: now.Add(-48 * time.Hour)},
		{Title: "Stranger Things", Year: 0, Type: domain.ItemTypeTVShow, OccurredAt: now.Add(-24 * time.Hour)},
		{Title: "The Matrix", Year: 1999, Type: domain.ItemTypeMovie, OccurredAt: now},
	}

	result, err := svc.IngestBatch(context.Background(), "user-1", domain.ProviderNetflix, records, 1, nil)
	if err != nil {
		t.Fatalf("IngestBatch error: %v", err)
	}

	if result.ItemsCreated != 2 {
		t.Errorf("items_created = %d, want 2 (rewatch deduplicated)", result.ItemsCreated)
	}
	if result.EventsCreated != 3 {
		t.Errorf("events_created = %d, want 3 (every record is an event)", result.EventsCreated)
	}
	if result.RecordsSkipped != 1 {
		t.Errorf("records_skipped = %d, want 1 (passed through from parse)", result.RecordsSkipped)
	}

	count, err := items.Count(context.Background())
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 2 {
		t.Errorf("item count = %d, want 2", count)
	}

	eventCount, err := events.CountByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CountByUser error: %v", err)
	}
	if eventCount != 3 {
		t.Errorf("event count = %d, want 3", eventCount)
	}

	// One enrichment job per new item, none for the rewatch.
	enrichCalls := dispatcher.callsFor(TaskEnrichItemMetadata)
	if len(enrichCalls) != 2 {
		t.Errorf("enrich dispatches = %d, want 2", len(enrichCalls))
	}
}

func TestIngestBatchSecondRunCreatesNoItems(t *testing.T) {
	db := testDB(t)
	items := repository.NewItemRepository(db)
	events := repository.NewEventRepository(db)
	providers := repository.NewProviderRepository(db)
	users := repository.NewUserRepository(db)
	dispatcher := &fakeDispatcher{}
	svc := NewIngestService(items, events, providers, users, dispatcher)

	records := []source.Record{
		{Title: "Dark", Year: 2017, Type: domain.ItemTypeTVShow, OccurredAt: time.Now().UTC()},
	}

	if _, err := svc.IngestBatch(context.Background(), "user-1", domain.ProviderNetflix, records, 0, nil); err != nil {
		t.Fatalf("first IngestBatch error: %v", err)
	}
	result, err := svc.IngestBatch(context.Background(), "user-1", domain.ProviderNetflix, records, 0, nil)
	if err != nil {
		t.Fatalf("second IngestBatch error: %v", err)
	}

	if result.ItemsCreated != 0 {
		t.Errorf("items_created = %d, want 0 on re-ingest", result.ItemsCreated)
	}
	if result.EventsCreated != 1 {
		t.Errorf("events_created = %d, want 1 (events are append-only)", result.EventsCreated)
	}
	if calls := dispatcher.callsFor(TaskEnrichItemMetadata); len(calls) != 1 {
		t.Errorf("enrich dispatches = %d, want 1 (only the first creation)", len(calls))
	}
}

func TestIngestBatchSameTitleDifferentSource(t *testing.T) {
	db := testDB(t)
	items := repository.NewItemRepository(db)
	events := repository.NewEventRepository(db)
	providers := repository.NewProviderRepository(db)
	users := repository.NewUserRepository(db)
	dispatcher := &fakeDispatcher{}
	svc := NewIngestService(items, events, providers, users, dispatcher)

	record := source.Record{Title: "Откровение", Year: 0, Type: domain.ItemTypeVideo, OccurredAt: time.Now().UTC()}

	if _, err := svc.IngestBatch(context.Background(), "user-1", domain.ProviderNetflix, []source.Record{record}, 0, nil); err != nil {
		t.Fatalf("IngestBatch error: %v", err)
	}
	if _, err := svc.IngestBatch(context.Background(), "user-1", domain.ProviderYouTube, []source.Record{record}, 0, nil); err != nil {
		t.Fatalf("IngestBatch error: %v", err)
	}

	count, err := items.Count(context.Background())
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 2 {
		t.Errorf("item count = %d, want 2 (source is part of identity)", count)
	}
}

func TestIngestBatchProgressIsMonotonic(t *testing.T) {
	db := testDB(t)
	svc := NewIngestService(
		repository.NewItemRepository(db),
		repository.NewEventRepository(db),
		repository.NewProviderRepository(db),
		repository.NewUserRepository(db),
		&fakeDispatcher{},
	)

	records := make([]source.Record, 7)
	for i := range records {
		records[i] = source.Record{
			Title:      "Episode " + string(rune('A'+i)),
			Type:       domain.ItemTypeTVShow,
			OccurredAt: time.Now().UTC(),
		}
	}

	var ticks []int
	progress := func(pct int) { ticks = append(ticks, pct) }

	if _, err := svc.IngestBatch(context.Background(), "user-1", domain.ProviderNetflix, records, 0, progress); err != nil {
		t.Fatalf("IngestBatch error: %v", err)
	}

	if len(ticks) == 0 {
		t.Fatal("no progress reported")
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i] < ticks[i-1] {
			t.Fatalf("progress went backwards: %v", ticks)
		}
	}
	for _, pct := range ticks {
		if pct < 0 || pct > 100 {
			t.Fatalf("progress out of range: %v", ticks)
		}
	}
}
