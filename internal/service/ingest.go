package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/logger"
	"github.com/a-s-adam/streamlink/internal/repository"
	"github.com/a-s-adam/streamlink/internal/source"
)

// IngestResult summarizes one ingested batch.
type IngestResult struct {
	Status         string `json:"status"`
	ItemsCreated   int    `json:"items_created"`
	EventsCreated  int    `json:"events_created"`
	RecordsSkipped int    `json:"records_skipped"`
}

// IngestService turns parsed viewing-history records into catalog items and
// events, and dispatches enrichment for newly discovered items.
type IngestService struct {
	items      *repository.ItemRepository
	events     *repository.EventRepository
	providers  *repository.ProviderRepository
	users      *repository.UserRepository
	dispatcher Dispatcher
}

func NewIngestService(
	items *repository.ItemRepository,
	events *repository.EventRepository,
	providers *repository.ProviderRepository,
	users *repository.UserRepository,
	dispatcher Dispatcher,
) *IngestService {
	return &IngestService{
		items:      items,
		events:     events,
		providers:  providers,
		users:      users,
		dispatcher: dispatcher,
	}
}

// IngestBatch processes normalized records for one user and provider.
// Every record appends an event; items are deduplicated by identity, and
// only newly created items get an enrichment job. Progress covers the
// record loop; the caller owns the remaining percentage.
func (s *IngestService) IngestBatch(
	ctx context.Context,
	userID string,
	providerName string,
	records []source.Record,
	skipped int,
	progress jobs.Progress,
) (*IngestResult, error) {
	if _, err := s.users.EnsureExists(ctx, userID); err != nil {
		return nil, fmt.Errorf("resolve user %s: %w", userID, err)
	}

	provider, err := s.providers.GetOrCreate(ctx, providerName, providerDisplayName(providerName), "")
	if err != nil {
		return nil, fmt.Errorf("resolve provider %s: %w", providerName, err)
	}

	result := &IngestResult{Status: "completed", RecordsSkipped: skipped}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item, created, err := s.items.GetOrCreate(ctx, &domain.Item{
			ID:         uuid.NewString(),
			ExternalID: record.ExternalID,
			Source:     providerName,
			Title:      record.Title,
			Year:       record.Year,
			Type:       record.Type,
			Status:     domain.ItemStatusRaw,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert item %q: %w", record.Title, err)
		}
		if created {
			result.ItemsCreated++
			if _, err := s.dispatcher.Dispatch(ctx, TaskEnrichItemMetadata, EnrichArgs{ItemID: item.ID}); err != nil {
				// Ingestion outranks enrichment; the item stays RAW and a
				// later batch or manual resubmission picks it up.
				logger.CtxWarn(ctx, "enrich dispatch failed for item %s: %v", item.ID, err)
			}
		}

		if err := s.events.Append(ctx, &domain.Event{
			ID:         uuid.NewString(),
			UserID:     userID,
			ItemID:     item.ID,
			ProviderID: provider.ID,
			EventType:  domain.EventTypeWatched,
			OccurredAt: record.OccurredAt.UTC(),
			Raw:        record.Raw,
		}); err != nil {
			return nil, fmt.Errorf("append event for item %s: %w", item.ID, err)
		}
		result.EventsCreated++

		if progress != nil && len(records) > 0 {
			// Record loop spans 10..90; parse and dispatch own the rest.
			progress(10 + (i+1)*80/len(records))
		}
	}

	logger.With(logger.Fields{
		"provider":       providerName,
		"items_created":  result.ItemsCreated,
		"events_created": result.EventsCreated,
		"skipped":        result.RecordsSkipped,
	}).Info(ctx, "ingest batch complete")
	return result, nil
}

func providerDisplayName(name string) string {
	switch name {
	case domain.ProviderNetflix:
		return "Netflix"
	case domain.ProviderYouTube:
		return "YouTube"
	default:
		return name
	}
}
