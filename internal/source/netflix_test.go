package source

import (
	"strings"
	"testing"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
)

func TestParseCSV(t *testing.T) {
	csv := `Title,Date,Duration,Profile Name
"The Matrix (1999)",2024-01-15,2:16:00,Alice
"Stranger Things: Season 4: Chapter One",2024-01-16,52 min,Alice
"",2024-01-17,10 min,Alice
"Short Clip",1/20/2024,5 min,Bob
`
	records, skipped, err := NewNetflixParser().ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1 (empty title row)", skipped)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	first := records[0]
	if first.Title != "The Matrix" {
		t.Errorf("title = %q, want The Matrix", first.Title)
	}
	if first.Year != 1999 {
		t.Errorf("year = %d, want 1999", first.Year)
	}
	if first.Type != domain.ItemTypeMovie {
		t.Errorf("type = %s, want movie (136 min)", first.Type)
	}
	if first.ExternalID != "" {
		t.Errorf("external_id = %q, want empty (exports carry no item ID)", first.ExternalID)
	}
	if first.Raw["profile_name"] != "Alice" {
		t.Errorf("raw profile_name = %v, want Alice", first.Raw["profile_name"])
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !first.OccurredAt.Equal(want) {
		t.Errorf("occurred_at = %v, want %v", first.OccurredAt, want)
	}

	second := records[1]
	if second.Year != 0 {
		t.Errorf("year = %d, want 0 for untagged title", second.Year)
	}
	if second.Type != domain.ItemTypeTVShow {
		t.Errorf("type = %s, want tv_show (52 min)", second.Type)
	}

	third := records[2]
	if third.Type != domain.ItemTypeTVShow {
		t.Errorf("type = %s, want tv_show (5 min)", third.Type)
	}
	if third.OccurredAt.Day() != 20 || third.OccurredAt.Month() != time.January {
		t.Errorf("slash date parsed as %v", third.OccurredAt)
	}
}

func TestParseCSVMissingTitleColumn(t *testing.T) {
	csv := "Date,Duration\n2024-01-15,10 min\n"
	if _, _, err := NewNetflixParser().ParseCSV(strings.NewReader(csv)); err == nil {
		t.Fatal("ParseCSV accepted a header without Title")
	}
}

func TestParseCSVMinimalExport(t *testing.T) {
	// The consumer-facing export has only Title and Date.
	csv := "Title,Date\nSome Show,2024-03-01\n"
	records, skipped, err := NewNetflixParser().ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if skipped != 0 || len(records) != 1 {
		t.Fatalf("records=%d skipped=%d, want 1/0", len(records), skipped)
	}
	if records[0].Type != domain.ItemTypeUnknown {
		t.Errorf("type = %s, want unknown without duration", records[0].Type)
	}
}

func TestSplitTitleYear(t *testing.T) {
	tests := []struct {
		in        string
		wantTitle string
		wantYear  int
	}{
		{"The Matrix (1999)", "The Matrix", 1999},
		{"Plain Title", "Plain Title", 0},
		{"Weird (abc)", "Weird (abc)", 0},
		{"Too Old (1850)", "Too Old (1850)", 0},
		{"(2020)", "(2020)", 0},
		{"Nested (Start) End (2010)", "Nested (Start) End", 2010},
	}
	for _, tt := range tests {
		title, year := splitTitleYear(tt.in)
		if title != tt.wantTitle || year != tt.wantYear {
			t.Errorf("splitTitleYear(%q) = (%q, %d), want (%q, %d)",
				tt.in, title, year, tt.wantTitle, tt.wantYear)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"45 min", 45},
		{"1:30:00", 90},
		{"45:30", 45},
		{"2:16:00", 136},
		{"120", 120},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in); got != tt.want {
			t.Errorf("parseDuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
