// Package source parses raw viewing-history exports (Netflix CSV, YouTube
// Takeout JSON) into normalized records. Unparseable rows are counted and
// skipped, never fatal to the batch.
package source

import (
	"strconv"
	"strings"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
)

// Record is the normalized shape of one viewing-history entry, ready for
// catalog upsert and event append.
type Record struct {
	Title      string
	Year       int // 0 when unknown
	Type       domain.ItemType
	OccurredAt time.Time
	ExternalID string
	Raw        domain.JSONMap
}

const (
	minPlausibleYear = 1900
	maxPlausibleYear = 2030
)

// splitTitleYear extracts a trailing "(YYYY)" annotation from a title.
// Returns the cleaned title and the year (0 if absent or implausible), so
// "Show (2020)" and "Show" with year 2020 resolve to the same catalog entity.
func splitTitleYear(title string) (string, int) {
	title = strings.TrimSpace(title)

	open := strings.LastIndex(title, "(")
	close := strings.LastIndex(title, ")")
	if open == -1 || close == -1 || close < open {
		return title, 0
	}

	year, err := strconv.Atoi(strings.TrimSpace(title[open+1 : close]))
	if err != nil || year < minPlausibleYear || year > maxPlausibleYear {
		return title, 0
	}

	clean := strings.TrimSpace(title[:open] + title[close+1:])
	if clean == "" {
		return title, 0
	}
	return clean, year
}
