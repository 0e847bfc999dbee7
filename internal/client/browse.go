package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// BrowseClient implements spotify.BrowseClient.
type BrowseClient struct {
	httpClient *http.Client
}

// NewBrowseClient creates a new browse client.
func NewBrowseClient(httpClient *http.Client) *BrowseClient {
	return &BrowseClient{
		httpClient: httpClient,
	}
}

// NewReleases implements spotify.BrowseClient.NewReleases.
func (c *BrowseClient) NewReleases(ctx context.Context, params *spotify.QueryParams) (*spotify.Page[spotify.SimplifiedAlbum], error) {
	resp, err := c.httpClient.Get(ctx, "/browse/new-releases", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing new releases: %w", err)
	}

	var result struct {
		Albums spotify.Page[spotify.SimplifiedAlbum] `json:"albums"`
	}

	err = decode(resp, &result, "new releases")
	if err != nil {
		return nil, err
	}

	return &result.Albums, nil
}

// FeaturedPlaylists implements spotify.BrowseClient.FeaturedPlaylists.
func (c *BrowseClient) FeaturedPlaylists(ctx context.Context, params *spotify.QueryParams) (*spotify.FeaturedPlaylists, error) {
	resp, err := c.httpClient.Get(ctx, "/browse/featured-playlists", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing featured playlists: %w", err)
	}

	var featured spotify.FeaturedPlaylists

	err = decode(resp, &featured, "featured playlists")
	if err != nil {
		return nil, err
	}

	return &featured, nil
}

// Categories implements spotify.BrowseClient.Categories.
func (c *BrowseClient) Categories(ctx context.Context, params *spotify.QueryParams) (*spotify.Page[spotify.Category], error) {
	resp, err := c.httpClient.Get(ctx, "/browse/categories", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	var result struct {
		Categories spotify.Page[spotify.Category] `json:"categories"`
	}

	err = decode(resp, &result, "categories")
	if err != nil {
		return nil, err
	}

	return &result.Categories, nil
}

// Category implements spotify.BrowseClient.Category.
func (c *BrowseClient) Category(ctx context.Context, id string, params *spotify.QueryParams) (*spotify.Category, error) {
	if !validSegment(id) {
		return nil, fmt.Errorf("getting category: %w", spotify.ErrInvalidID)
	}

	resp, err := c.httpClient.Get(ctx, "/browse/categories/"+url.PathEscape(id), params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}

	var category spotify.Category

	err = decode(resp, &category, "category")
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// CategoryPlaylists implements spotify.BrowseClient.CategoryPlaylists.
func (c *BrowseClient) CategoryPlaylists(ctx context.Context, id string, params *spotify.QueryParams) (*spotify.Page[*spotify.SimplifiedPlaylist], error) {
	if !validSegment(id) {
		return nil, fmt.Errorf("listing category playlists: %w", spotify.ErrInvalidID)
	}

	resp, err := c.httpClient.Get(ctx, "/browse/categories/"+url.PathEscape(id)+"/playlists", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing category playlists: %w", err)
	}

	var result struct {
		Playlists spotify.Page[*spotify.SimplifiedPlaylist] `json:"playlists"`
	}

	err = decode(resp, &result, "category playlists")
	if err != nil {
		return nil, err
	}

	return &result.Playlists, nil
}
