package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// SearchClient implements spotify.SearchClient.
type SearchClient struct {
	httpClient *http.Client
}

// NewSearchClient creates a new search client.
func NewSearchClient(httpClient *http.Client) *SearchClient {
	return &SearchClient{
		httpClient: httpClient,
	}
}

// Search implements spotify.SearchClient.Search.
func (c *SearchClient) Search(ctx context.Context, query string, types []spotify.SearchType, params *spotify.QueryParams) (*spotify.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, spotify.ErrEmptyQuery
	}

	if len(types) == 0 {
		return nil, spotify.ErrEmptySearchTypes
	}

	names := make([]string, 0, len(types))

	for _, searchType := range types {
		parsed, err := spotify.ParseSearchType(string(searchType))
		if err != nil {
			return nil, fmt.Errorf("searching: %w", err)
		}

		names = append(names, parsed.String())
	}

	values := params.ToValues()
	values.Set("q", query)
	values.Set("type", strings.Join(names, ","))

	resp, err := c.httpClient.Get(ctx, "/search", values)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	var result spotify.SearchResult

	err = decode(resp, &result, "search results")
	if err != nil {
		return nil, err
	}

	return &result, nil
}
