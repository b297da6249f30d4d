package service

import (
	"fmt"
	"io"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/a-s-adam/streamlink/internal/source"
)

// ProviderKind selects the export format for an ingest run.
type ProviderKind string

const (
	ProviderKindNetflix ProviderKind = "netflix"
	ProviderKindYouTube ProviderKind = "youtube"
)

// ParserSet routes an export body to the right parser.
type ParserSet struct {
	netflix *source.NetflixParser
	youtube *source.YouTubeParser
}

func NewParserSet() *ParserSet {
	return &ParserSet{
		netflix: source.NewNetflixParser(),
		youtube: source.NewYouTubeParser(),
	}
}

// Parse decodes an export and returns the normalized records, the skipped
// row count, and the canonical provider name for the format.
func (p *ParserSet) Parse(kind ProviderKind, body io.Reader) ([]source.Record, int, string, error) {
	switch kind {
	case ProviderKindNetflix:
		records, skipped, err := p.netflix.ParseCSV(body)
		return records, skipped, domain.ProviderNetflix, err
	case ProviderKindYouTube:
		records, skipped, err := p.youtube.ParseHistory(body)
		return records, skipped, domain.ProviderYouTube, err
	default:
		return nil, 0, "", fmt.Errorf("unknown provider kind %q", kind)
	}
}
