package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// TracksClient implements spotify.TracksClient.
type TracksClient struct {
	httpClient *http.Client
}

// NewTracksClient creates a new tracks client.
func NewTracksClient(httpClient *http.Client) *TracksClient {
	return &TracksClient{
		httpClient: httpClient,
	}
}

// Get implements spotify.TracksClient.Get.
func (c *TracksClient) Get(ctx context.Context, id string, params *spotify.QueryParams) (*spotify.Track, error) {
	trackID, err := spotify.ParseID(spotify.TypeTrack, id)
	if err != nil {
		return nil, fmt.Errorf("getting track: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/tracks/"+trackID, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting track: %w", err)
	}

	var track spotify.Track

	err = decode(resp, &track, "track")
	if err != nil {
		return nil, err
	}

	return &track, nil
}

// GetSeveral implements spotify.TracksClient.GetSeveral.
func (c *TracksClient) GetSeveral(ctx context.Context, ids []string, params *spotify.QueryParams) ([]*spotify.Track, error) {
	joined, err := joinIDs(spotify.TypeTrack, ids, constants.MaxTrackIDs)
	if err != nil {
		return nil, fmt.Errorf("getting tracks: %w", err)
	}

	query := params.ToValues()
	query.Set("ids", joined)

	resp, err := c.httpClient.Get(ctx, "/tracks", query)
	if err != nil {
		return nil, fmt.Errorf("getting tracks: %w", err)
	}

	var result struct {
		Tracks []*spotify.Track `json:"tracks"`
	}

	err = decode(resp, &result, "tracks")
	if err != nil {
		return nil, err
	}

	return result.Tracks, nil
}
