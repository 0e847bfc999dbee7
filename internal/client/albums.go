package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// AlbumsClient implements spotify.AlbumsClient.
type AlbumsClient struct {
	httpClient *http.Client
}

// NewAlbumsClient creates a new albums client.
func NewAlbumsClient(httpClient *http.Client) *AlbumsClient {
	return &AlbumsClient{
		httpClient: httpClient,
	}
}

// Get implements spotify.AlbumsClient.Get.
func (c *AlbumsClient) Get(ctx context.Context, id string, params *spotify.QueryParams) (*spotify.Album, error) {
	albumID, err := spotify.ParseID(spotify.TypeAlbum, id)
	if err != nil {
		return nil, fmt.Errorf("getting album: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/albums/"+albumID, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting album: %w", err)
	}

	var album spotify.Album

	err = decode(resp, &album, "album")
	if err != nil {
		return nil, err
	}

	return &album, nil
}

// GetSeveral implements spotify.AlbumsClient.GetSeveral. Unknown ids yield
// nil entries at their position.
func (c *AlbumsClient) GetSeveral(ctx context.Context, ids []string, params *spotify.QueryParams) ([]*spotify.Album, error) {
	joined, err := joinIDs(spotify.TypeAlbum, ids, constants.MaxAlbumIDs)
	if err != nil {
		return nil, fmt.Errorf("getting albums: %w", err)
	}

	query := params.ToValues()
	query.Set("ids", joined)

	resp, err := c.httpClient.Get(ctx, "/albums", query)
	if err != nil {
		return nil, fmt.Errorf("getting albums: %w", err)
	}

	var result struct {
		Albums []*spotify.Album `json:"albums"`
	}

	err = decode(resp, &result, "albums")
	if err != nil {
		return nil, err
	}

	return result.Albums, nil
}

// Tracks implements spotify.AlbumsClient.Tracks.
func (c *AlbumsClient) Tracks(ctx context.Context, id string, params *spotify.QueryParams) (*spotify.Page[spotify.SimplifiedTrack], error) {
	albumID, err := spotify.ParseID(spotify.TypeAlbum, id)
	if err != nil {
		return nil, fmt.Errorf("listing album tracks: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/albums/"+albumID+"/tracks", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing album tracks: %w", err)
	}

	var page spotify.Page[spotify.SimplifiedTrack]

	err = decode(resp, &page, "album tracks")
	if err != nil {
		return nil, err
	}

	return &page, nil
}
