package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// ArtistsClient implements spotify.ArtistsClient.
type ArtistsClient struct {
	httpClient *http.Client
}

// NewArtistsClient creates a new artists client.
func NewArtistsClient(httpClient *http.Client) *ArtistsClient {
	return &ArtistsClient{
		httpClient: httpClient,
	}
}

// Get implements spotify.ArtistsClient.Get.
func (c *ArtistsClient) Get(ctx context.Context, id string) (*spotify.Artist, error) {
	artistID, err := spotify.ParseID(spotify.TypeArtist, id)
	if err != nil {
		return nil, fmt.Errorf("getting artist: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/artists/"+artistID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting artist: %w", err)
	}

	var artist spotify.Artist

	err = decode(resp, &artist, "artist")
	if err != nil {
		return nil, err
	}

	return &artist, nil
}

// GetSeveral implements spotify.ArtistsClient.GetSeveral.
func (c *ArtistsClient) GetSeveral(ctx context.Context, ids []string) ([]*spotify.Artist, error) {
	joined, err := joinIDs(spotify.TypeArtist, ids, constants.MaxArtistIDs)
	if err != nil {
		return nil, fmt.Errorf("getting artists: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/artists", url.Values{"ids": {joined}})
	if err != nil {
		return nil, fmt.Errorf("getting artists: %w", err)
	}

	var result struct {
		Artists []*spotify.Artist `json:"artists"`
	}

	err = decode(resp, &result, "artists")
	if err != nil {
		return nil, err
	}

	return result.Artists, nil
}

// TopTracks implements spotify.ArtistsClient.TopTracks. The market is
// required by the service; "from_token" selects the user's market.
func (c *ArtistsClient) TopTracks(ctx context.Context, id string, market string) ([]spotify.Track, error) {
	artistID, err := spotify.ParseID(spotify.TypeArtist, id)
	if err != nil {
		return nil, fmt.Errorf("getting artist top tracks: %w", err)
	}

	var query url.Values
	if market != "" {
		query = url.Values{"market": {market}}
	}

	resp, err := c.httpClient.Get(ctx, "/artists/"+artistID+"/top-tracks", query)
	if err != nil {
		return nil, fmt.Errorf("getting artist top tracks: %w", err)
	}

	var result struct {
		Tracks []spotify.Track `json:"tracks"`
	}

	err = decode(resp, &result, "artist top tracks")
	if err != nil {
		return nil, err
	}

	return result.Tracks, nil
}

// Albums implements spotify.ArtistsClient.Albums.
func (c *ArtistsClient) Albums(ctx context.Context, id string, params *spotify.QueryParams) (*spotify.Page[spotify.SimplifiedAlbum], error) {
	artistID, err := spotify.ParseID(spotify.TypeArtist, id)
	if err != nil {
		return nil, fmt.Errorf("listing artist albums: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/artists/"+artistID+"/albums", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing artist albums: %w", err)
	}

	var page spotify.Page[spotify.SimplifiedAlbum]

	err = decode(resp, &page, "artist albums")
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// RelatedArtists implements spotify.ArtistsClient.RelatedArtists.
func (c *ArtistsClient) RelatedArtists(ctx context.Context, id string) ([]spotify.Artist, error) {
	artistID, err := spotify.ParseID(spotify.TypeArtist, id)
	if err != nil {
		return nil, fmt.Errorf("getting related artists: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/artists/"+artistID+"/related-artists", nil)
	if err != nil {
		return nil, fmt.Errorf("getting related artists: %w", err)
	}

	var result struct {
		Artists []spotify.Artist `json:"artists"`
	}

	err = decode(resp, &result, "related artists")
	if err != nil {
		return nil, err
	}

	return result.Artists, nil
}
