package source

import (
	"strings"
	"testing"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
)

func TestParseHistory(t *testing.T) {
	payload := `[
		{
			"header": "YouTube",
			"title": "Watched Go Concurrency Patterns",
			"titleUrl": "https://www.youtube.com/watch?v=f6kdp27TYZs",
			"time": "2024-02-10T18:30:00Z"
		},
		{
			"header": "YouTube",
			"title": "Watched a video that has been removed from YouTube",
			"time": "2024-02-11T10:00:00Z"
		},
		{
			"header": "YouTube",
			"title": "Visited YouTube Music",
			"time": "2024-02-12T09:00:00Z"
		},
		{
			"header": "YouTube",
			"title": "Watched Broken Timestamp Video",
			"time": "not-a-time"
		}
	]`

	records, skipped, err := NewYouTubeParser().ParseHistory(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ParseHistory error: %v", err)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	rec := records[0]
	if rec.Title != "Go Concurrency Patterns" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Type != domain.ItemTypeVideo {
		t.Errorf("type = %s, want video", rec.Type)
	}
	if rec.Year != 0 {
		t.Errorf("year = %d, want 0", rec.Year)
	}
	if rec.ExternalID != "f6kdp27TYZs" {
		t.Errorf("external_id = %q, want video ID", rec.ExternalID)
	}
	want := time.Date(2024, 2, 10, 18, 30, 0, 0, time.UTC)
	if !rec.OccurredAt.Equal(want) {
		t.Errorf("occurred_at = %v, want %v", rec.OccurredAt, want)
	}
}

func TestParseHistoryQuotedTitle(t *testing.T) {
	payload := `[{"title": "Watched \"Quoted Video\"", "time": "2024-02-10T18:30:00Z"}]`
	records, _, err := NewYouTubeParser().ParseHistory(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ParseHistory error: %v", err)
	}
	if len(records) != 1 || records[0].Title != "Quoted Video" {
		t.Fatalf("records = %+v, want one record titled Quoted Video", records)
	}
}

func TestParseHistoryInvalidJSON(t *testing.T) {
	if _, _, err := NewYouTubeParser().ParseHistory(strings.NewReader("{not json")); err == nil {
		t.Fatal("ParseHistory accepted invalid JSON")
	}
}

func TestVideoIDFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc123", "abc123"},
		{"https://www.youtube.com/playlist?list=xyz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := videoIDFromURL(tt.in); got != tt.want {
			t.Errorf("videoIDFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
