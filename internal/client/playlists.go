package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// PlaylistsClient implements spotify.PlaylistsClient.
type PlaylistsClient struct {
	httpClient *http.Client
}

// NewPlaylistsClient creates a new playlists client.
func NewPlaylistsClient(httpClient *http.Client) *PlaylistsClient {
	return &PlaylistsClient{
		httpClient: httpClient,
	}
}

// Get implements spotify.PlaylistsClient.Get.
func (c *PlaylistsClient) Get(ctx context.Context, id string, params *spotify.QueryParams) (*spotify.Playlist, error) {
	playlistID, err := spotify.ParseID(spotify.TypePlaylist, id)
	if err != nil {
		return nil, fmt.Errorf("getting playlist: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/playlists/"+playlistID, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting playlist: %w", err)
	}

	var playlist spotify.Playlist

	err = decode(resp, &playlist, "playlist")
	if err != nil {
		return nil, err
	}

	return &playlist, nil
}

// Items implements spotify.PlaylistsClient.Items.
func (c *PlaylistsClient) Items(ctx context.Context, id string, params *spotify.QueryParams) (*spotify.Page[spotify.PlaylistItem], error) {
	playlistID, err := spotify.ParseID(spotify.TypePlaylist, id)
	if err != nil {
		return nil, fmt.Errorf("listing playlist items: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/playlists/"+playlistID+"/tracks", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing playlist items: %w", err)
	}

	var page spotify.Page[spotify.PlaylistItem]

	err = decode(resp, &page, "playlist items")
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// CurrentUserPlaylists implements spotify.PlaylistsClient.CurrentUserPlaylists.
func (c *PlaylistsClient) CurrentUserPlaylists(ctx context.Context, params *spotify.QueryParams) (*spotify.Page[spotify.SimplifiedPlaylist], error) {
	return c.list(ctx, "/me/playlists", params)
}

// UserPlaylists implements spotify.PlaylistsClient.UserPlaylists.
func (c *PlaylistsClient) UserPlaylists(ctx context.Context, userID string, params *spotify.QueryParams) (*spotify.Page[spotify.SimplifiedPlaylist], error) {
	id, err := spotify.ParseID(spotify.TypeUser, userID)
	if err != nil {
		return nil, fmt.Errorf("listing playlists: %w", err)
	}

	return c.list(ctx, "/users/"+url.PathEscape(id)+"/playlists", params)
}

// Create implements spotify.PlaylistsClient.Create.
func (c *PlaylistsClient) Create(ctx context.Context, userID string, request *spotify.PlaylistCreateRequest) (*spotify.Playlist, error) {
	if request == nil || request.Name == "" {
		return nil, fmt.Errorf("creating playlist: %w", spotify.ErrRequestRequired)
	}

	id, err := spotify.ParseID(spotify.TypeUser, userID)
	if err != nil {
		return nil, fmt.Errorf("creating playlist: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, "/users/"+url.PathEscape(id)+"/playlists", request)
	if err != nil {
		return nil, fmt.Errorf("creating playlist: %w", err)
	}

	var playlist spotify.Playlist

	err = decode(resp, &playlist, "playlist")
	if err != nil {
		return nil, err
	}

	return &playlist, nil
}

// ChangeDetails implements spotify.PlaylistsClient.ChangeDetails.
func (c *PlaylistsClient) ChangeDetails(ctx context.Context, id string, request *spotify.PlaylistUpdateRequest) error {
	if request == nil {
		return fmt.Errorf("updating playlist: %w", spotify.ErrRequestRequired)
	}

	playlistID, err := spotify.ParseID(spotify.TypePlaylist, id)
	if err != nil {
		return fmt.Errorf("updating playlist: %w", err)
	}

	_, err = c.httpClient.Put(ctx, "/playlists/"+playlistID, request)
	if err != nil {
		return fmt.Errorf("updating playlist: %w", err)
	}

	return nil
}

// AddItems implements spotify.PlaylistsClient.AddItems. Bare ids are taken
// as tracks. A nil position appends.
func (c *PlaylistsClient) AddItems(ctx context.Context, id string, uris []string, position *int) (*spotify.Snapshot, error) {
	playlistID, err := spotify.ParseID(spotify.TypePlaylist, id)
	if err != nil {
		return nil, fmt.Errorf("adding playlist items: %w", err)
	}

	items, err := itemURIs(uris, constants.MaxPlaylistItems)
	if err != nil {
		return nil, fmt.Errorf("adding playlist items: %w", err)
	}

	body := struct {
		URIs     []string `json:"uris"`
		Position *int     `json:"position,omitempty"`
	}{URIs: items, Position: position}

	resp, err := c.httpClient.Post(ctx, "/playlists/"+playlistID+"/tracks", body)
	if err != nil {
		return nil, fmt.Errorf("adding playlist items: %w", err)
	}

	var snapshot spotify.Snapshot

	err = decode(resp, &snapshot, "playlist snapshot")
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// RemoveItems implements spotify.PlaylistsClient.RemoveItems. Every
// occurrence of each item is removed; snapshotID may be empty.
func (c *PlaylistsClient) RemoveItems(ctx context.Context, id string, uris []string, snapshotID string) (*spotify.Snapshot, error) {
	playlistID, err := spotify.ParseID(spotify.TypePlaylist, id)
	if err != nil {
		return nil, fmt.Errorf("removing playlist items: %w", err)
	}

	items, err := itemURIs(uris, constants.MaxPlaylistItems)
	if err != nil {
		return nil, fmt.Errorf("removing playlist items: %w", err)
	}

	type itemRef struct {
		URI string `json:"uri"`
	}

	body := struct {
		Tracks     []itemRef `json:"tracks"`
		SnapshotID string    `json:"snapshot_id,omitempty"`
	}{SnapshotID: snapshotID}

	for _, uri := range items {
		body.Tracks = append(body.Tracks, itemRef{URI: uri})
	}

	resp, err := c.httpClient.Delete(ctx, "/playlists/"+playlistID+"/tracks", body)
	if err != nil {
		return nil, fmt.Errorf("removing playlist items: %w", err)
	}

	var snapshot spotify.Snapshot

	err = decode(resp, &snapshot, "playlist snapshot")
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// Follow implements spotify.PlaylistsClient.Follow.
func (c *PlaylistsClient) Follow(ctx context.Context, id string, public bool) error {
	playlistID, err := spotify.ParseID(spotify.TypePlaylist, id)
	if err != nil {
		return fmt.Errorf("following playlist: %w", err)
	}

	_, err = c.httpClient.Put(ctx, "/playlists/"+playlistID+"/followers", map[string]bool{"public": public})
	if err != nil {
		return fmt.Errorf("following playlist: %w", err)
	}

	return nil
}

// Unfollow implements spotify.PlaylistsClient.Unfollow.
func (c *PlaylistsClient) Unfollow(ctx context.Context, id string) error {
	playlistID, err := spotify.ParseID(spotify.TypePlaylist, id)
	if err != nil {
		return fmt.Errorf("unfollowing playlist: %w", err)
	}

	_, err = c.httpClient.Do(ctx, &http.Request{
		Method: nethttp.MethodDelete,
		Path:   "/playlists/" + playlistID + "/followers",
	})
	if err != nil {
		return fmt.Errorf("unfollowing playlist: %w", err)
	}

	return nil
}

func (c *PlaylistsClient) list(ctx context.Context, path string, params *spotify.QueryParams) (*spotify.Page[spotify.SimplifiedPlaylist], error) {
	resp, err := c.httpClient.Get(ctx, path, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing playlists: %w", err)
	}

	var page spotify.Page[spotify.SimplifiedPlaylist]

	err = decode(resp, &page, "playlists")
	if err != nil {
		return nil, err
	}

	return &page, nil
}
