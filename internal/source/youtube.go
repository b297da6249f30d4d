package source

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/a-s-adam/streamlink/internal/logger"
)

// YouTubeParser parses YouTube watch-history entries from a Google Takeout
// export (watch-history.json).
type YouTubeParser struct{}

// NewYouTubeParser creates a new YouTubeParser.
func NewYouTubeParser() *YouTubeParser {
	return &YouTubeParser{}
}

// historyEntry mirrors the Takeout watch-history JSON shape.
type historyEntry struct {
	Header   string   `json:"header"`
	Title    string   `json:"title"`
	TitleURL string   `json:"titleUrl"`
	Time     string   `json:"time"`
	Products []string `json:"products"`
}

const watchedPrefix = "Watched "

// ParseHistory reads a Takeout watch-history JSON array and returns
// normalized records plus the number of entries skipped. Non-video entries
// (ads, removed videos, YouTube Music rows) are skipped silently.
func (p *YouTubeParser) ParseHistory(r io.Reader) ([]Record, int, error) {
	var entries []historyEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode watch history JSON: %w", err)
	}

	var records []Record
	skipped := 0
	for _, entry := range entries {
		rec, ok := p.parseEntry(entry)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func (p *YouTubeParser) parseEntry(entry historyEntry) (Record, bool) {
	title := entry.Title
	if !strings.HasPrefix(title, watchedPrefix) {
		return Record{}, false
	}
	title = strings.Trim(strings.TrimPrefix(title, watchedPrefix), `"`)
	title = strings.TrimSpace(title)

	// Entries whose remaining title still mentions YouTube are platform
	// notices ("a video that has been removed", survey rows), not videos.
	if title == "" || strings.Contains(title, "YouTube") {
		return Record{}, false
	}

	occurredAt, err := time.Parse(time.RFC3339, entry.Time)
	if err != nil {
		logger.Warn("Could not parse watch time %q for %q", entry.Time, title)
		return Record{}, false
	}

	raw := domain.JSONMap{
		"header":   entry.Header,
		"title":    entry.Title,
		"titleUrl": entry.TitleURL,
		"time":     entry.Time,
	}

	return Record{
		Title:      title,
		Year:       0,
		Type:       domain.ItemTypeVideo,
		OccurredAt: occurredAt.UTC(),
		ExternalID: videoIDFromURL(entry.TitleURL),
		Raw:        raw,
	}, true
}

// videoIDFromURL extracts the v= query parameter from a watch URL.
func videoIDFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}
