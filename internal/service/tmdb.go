package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/a-s-adam/streamlink/internal/config"
	"github.com/a-s-adam/streamlink/internal/domain"
)

// ErrNoResults marks a lookup that found no matching title. It is a normal
// outcome for obscure or regional titles, not a failure.
var ErrNoResults = errors.New("no metadata results")

const tmdbPosterBaseURL = "https://image.tmdb.org/t/p/w500"

// ItemMetadata is the enrichment payload resolved for a catalog item.
type ItemMetadata struct {
	TMDBID    string
	Type      domain.ItemType
	Overview  string
	PosterURL string
	Year      int
	Genres    []string
	Runtime   int
}

// A MetadataProvider resolves catalog metadata for a title.
type MetadataProvider interface {
	Lookup(ctx context.Context, title string, year int) (*ItemMetadata, error)
}

// TMDBClient resolves metadata against The Movie Database. Lookup does a
// multi search scoped to movies and TV, takes the best match, then fetches
// full details for genres and runtime.
type TMDBClient struct {
	client *resty.Client
	apiKey string
}

func NewTMDBClient(cfg *config.TMDBConfig) *TMDBClient {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)

	return &TMDBClient{
		client: client,
		apiKey: cfg.APIKey,
	}
}

type tmdbSearchResponse struct {
	Results []struct {
		ID           int64  `json:"id"`
		MediaType    string `json:"media_type"`
		Title        string `json:"title"`
		Name         string `json:"name"`
		Overview     string `json:"overview"`
		PosterPath   string `json:"poster_path"`
		ReleaseDate  string `json:"release_date"`
		FirstAirDate string `json:"first_air_date"`
	} `json:"results"`
	StatusMessage string `json:"status_message,omitempty"`
}

type tmdbDetailsResponse struct {
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Runtime        int   `json:"runtime"`
	EpisodeRunTime []int `json:"episode_run_time"`
}

// Lookup searches TMDB for the title and returns ErrNoResults when no movie
// or TV match exists.
func (c *TMDBClient) Lookup(ctx context.Context, title string, year int) (*ItemMetadata, error) {
	var search tmdbSearchResponse
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetQueryParam("query", title).
		SetResult(&search)
	if year > 0 {
		req.SetQueryParam("year", strconv.Itoa(year))
	}

	httpResp, err := req.Get("/search/multi")
	if err != nil {
		return nil, fmt.Errorf("call TMDB search: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		if search.StatusMessage != "" {
			return nil, fmt.Errorf("TMDB API error: %s", search.StatusMessage)
		}
		return nil, fmt.Errorf("TMDB API error: status %d", httpResp.StatusCode())
	}

	for _, result := range search.Results {
		if result.MediaType != "movie" && result.MediaType != "tv" {
			continue
		}

		meta := &ItemMetadata{
			TMDBID:   strconv.FormatInt(result.ID, 10),
			Overview: result.Overview,
		}
		if result.MediaType == "movie" {
			meta.Type = domain.ItemTypeMovie
			meta.Year = yearFromDate(result.ReleaseDate)
		} else {
			meta.Type = domain.ItemTypeTVShow
			meta.Year = yearFromDate(result.FirstAirDate)
		}
		if result.PosterPath != "" {
			meta.PosterURL = tmdbPosterBaseURL + result.PosterPath
		}

		if err := c.fetchDetails(ctx, result.MediaType, result.ID, meta); err != nil {
			// Details are best-effort; search metadata alone is usable.
			return meta, nil
		}
		return meta, nil
	}

	return nil, ErrNoResults
}

func (c *TMDBClient) fetchDetails(ctx context.Context, mediaType string, id int64, meta *ItemMetadata) error {
	var details tmdbDetailsResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&details).
		Get(fmt.Sprintf("/%s/%d", mediaType, id))

	if err != nil {
		return fmt.Errorf("call TMDB details: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		return fmt.Errorf("TMDB API error: status %d", httpResp.StatusCode())
	}

	for _, genre := range details.Genres {
		meta.Genres = append(meta.Genres, genre.Name)
	}
	if details.Runtime > 0 {
		meta.Runtime = details.Runtime
	} else if len(details.EpisodeRunTime) > 0 {
		meta.Runtime = details.EpisodeRunTime[0]
	}
	return nil
}

func yearFromDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
