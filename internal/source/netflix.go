package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/a-s-adam/streamlink/internal/logger"
)

// NetflixParser parses Netflix viewing-activity CSV exports.
// Expected columns are Title and Date; Duration and Profile Name are optional
// depending on the export variant.
type NetflixParser struct{}

// NewNetflixParser creates a new NetflixParser.
func NewNetflixParser() *NetflixParser {
	return &NetflixParser{}
}

var digitsRe = regexp.MustCompile(`\d+`)

// ParseCSV reads a Netflix CSV export and returns normalized records plus the
// number of rows that could not be parsed. A malformed row is skipped and
// logged; only an unreadable header is a hard error.
func (p *NetflixParser) ParseCSV(r io.Reader) ([]Record, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["title"]; !ok {
		return nil, 0, fmt.Errorf("CSV is missing a Title column")
	}

	var records []Record
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("Skipping malformed CSV row: %v", err)
			skipped++
			continue
		}

		rec, ok := p.parseRow(cols, row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func (p *NetflixParser) parseRow(cols map[string]int, row []string) (Record, bool) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rawTitle := field("title")
	if rawTitle == "" {
		return Record{}, false
	}

	title, year := splitTitleYear(rawTitle)
	occurredAt := parseNetflixDate(field("date"))
	durationMinutes := parseDuration(field("duration"))

	raw := domain.JSONMap{"title": rawTitle}
	if d := field("date"); d != "" {
		raw["date"] = d
	}
	if d := field("duration"); d != "" {
		raw["duration"] = d
	}
	if prof := field("profile name"); prof != "" {
		raw["profile_name"] = prof
	}

	// Netflix exports carry no per-title identifier; the profile name in
	// the raw payload is an account attribute, not an item ID.
	return Record{
		Title:      title,
		Year:       year,
		Type:       classifyByDuration(durationMinutes),
		OccurredAt: occurredAt,
		Raw:        raw,
	}, true
}

// parseNetflixDate handles the two date formats seen in Netflix exports.
// Falls back to the current time when the field is absent or unreadable, so
// the record still lands in the recency window rather than being dropped.
func parseNetflixDate(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{"2006-01-02", "1/2/2006", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	logger.Warn("Could not parse Netflix date: %q", s)
	return time.Now().UTC()
}

// parseDuration converts "45 min", "1:30:00", or "45:00" to minutes.
// Returns 0 when the duration cannot be determined.
func parseDuration(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	if strings.Contains(s, "min") {
		n, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(s, "min", "")))
		if err != nil {
			return 0
		}
		return n
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		nums := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return 0
			}
			nums = append(nums, n)
		}
		switch len(nums) {
		case 3: // hours:minutes:seconds
			return nums[0]*60 + nums[1] + nums[2]/60
		case 2: // minutes:seconds
			return nums[0] + nums[1]/60
		}
		return 0
	}

	if m := digitsRe.FindString(s); m != "" {
		n, _ := strconv.Atoi(m)
		return n
	}
	return 0
}

// classifyByDuration applies the export heuristic: long runtimes are movies,
// short ones are TV episodes, anything else is unknown.
func classifyByDuration(minutes int) domain.ItemType {
	switch {
	case minutes > 120:
		return domain.ItemTypeMovie
	case minutes > 0 && minutes < 60:
		return domain.ItemTypeTVShow
	default:
		return domain.ItemTypeUnknown
	}
}
