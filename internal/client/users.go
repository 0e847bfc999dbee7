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

// UsersClient implements spotify.UsersClient.
type UsersClient struct {
	httpClient *http.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// Me implements spotify.UsersClient.Me.
func (c *UsersClient) Me(ctx context.Context) (*spotify.PrivateUser, error) {
	resp, err := c.httpClient.Get(ctx, "/me", nil)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	var user spotify.PrivateUser

	err = decode(resp, &user, "current user")
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Get implements spotify.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, userID string) (*spotify.PublicUser, error) {
	id, err := spotify.ParseID(spotify.TypeUser, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	var user spotify.PublicUser

	err = decode(resp, &user, "user")
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// TopArtists implements spotify.UsersClient.TopArtists.
func (c *UsersClient) TopArtists(ctx context.Context, params *spotify.QueryParams) (*spotify.Page[spotify.Artist], error) {
	resp, err := c.httpClient.Get(ctx, "/me/top/artists", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing top artists: %w", err)
	}

	var page spotify.Page[spotify.Artist]

	err = decode(resp, &page, "top artists")
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// TopTracks implements spotify.UsersClient.TopTracks.
func (c *UsersClient) TopTracks(ctx context.Context, params *spotify.QueryParams) (*spotify.Page[spotify.Track], error) {
	resp, err := c.httpClient.Get(ctx, "/me/top/tracks", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing top tracks: %w", err)
	}

	var page spotify.Page[spotify.Track]

	err = decode(resp, &page, "top tracks")
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// SavedTracks implements spotify.UsersClient.SavedTracks.
func (c *UsersClient) SavedTracks(ctx context.Context, params *spotify.QueryParams) (*spotify.Page[spotify.SavedTrack], error) {
	resp, err := c.httpClient.Get(ctx, "/me/tracks", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing saved tracks: %w", err)
	}

	var page spotify.Page[spotify.SavedTrack]

	err = decode(resp, &page, "saved tracks")
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// SaveTracks implements spotify.UsersClient.SaveTracks.
func (c *UsersClient) SaveTracks(ctx context.Context, ids []string) error {
	err := c.library(ctx, nethttp.MethodPut, ids)
	if err != nil {
		return fmt.Errorf("saving tracks: %w", err)
	}

	return nil
}

// RemoveSavedTracks implements spotify.UsersClient.RemoveSavedTracks.
func (c *UsersClient) RemoveSavedTracks(ctx context.Context, ids []string) error {
	err := c.library(ctx, nethttp.MethodDelete, ids)
	if err != nil {
		return fmt.Errorf("removing saved tracks: %w", err)
	}

	return nil
}

// CheckSavedTracks implements spotify.UsersClient.CheckSavedTracks. The
// result is positionally aligned with ids.
func (c *UsersClient) CheckSavedTracks(ctx context.Context, ids []string) ([]bool, error) {
	joined, err := joinIDs(spotify.TypeTrack, ids, constants.MaxLibraryIDs)
	if err != nil {
		return nil, fmt.Errorf("checking saved tracks: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, "/me/tracks/contains", url.Values{"ids": {joined}})
	if err != nil {
		return nil, fmt.Errorf("checking saved tracks: %w", err)
	}

	var contains []bool

	err = decode(resp, &contains, "saved tracks check")
	if err != nil {
		return nil, err
	}

	return contains, nil
}

func (c *UsersClient) library(ctx context.Context, method string, ids []string) error {
	joined, err := joinIDs(spotify.TypeTrack, ids, constants.MaxLibraryIDs)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Do(ctx, &http.Request{
		Method: method,
		Path:   "/me/tracks",
		Query:  url.Values{"ids": {joined}},
	})

	return err
}
