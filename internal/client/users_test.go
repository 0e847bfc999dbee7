package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

func TestUsersClient_Me(t *testing.T) {
	t.Parallel()

	server := NewExchangeServer(t, Exchange{
		Method:       "GET",
		Path:         "/me",
		ResponseBody: `{"id": "wizzler", "display_name": "JM Wizzler", "country": "SE", "product": "premium", "email": "email@example.com", "type": "user"}`,
	})

	user, err := NewTestClient(server.URL).Users().Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wizzler", user.ID)
	assert.Equal(t, "premium", user.Product)
	assert.Equal(t, "SE", user.Country)
}

func TestUsersClient_Get(t *testing.T) {
	t.Parallel()

	server := NewExchangeServer(t, Exchange{
		Method:       "GET",
		Path:         "/users/smedjan",
		ResponseBody: `{"id": "smedjan", "type": "user", "followers": {"total": 4561}}`,
	})

	user, err := NewTestClient(server.URL).Users().Get(context.Background(), "spotify:user:smedjan")
	require.NoError(t, err)
	require.NotNil(t, user.Followers)
	assert.Equal(t, 4561, user.Followers.Total)
}

func TestUsersClient_GetEscapesIDOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		userID      string
		path        string
		escapedPath string
	}{
		{"jürgen", "/users/jürgen", "/users/j%C3%BCrgen"},
		{"a b", "/users/a b", "/users/a%20b"},
		{"a/b", "/users/a/b", "/users/a%2Fb"},
	}

	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				if strings.HasSuffix(request.URL.Path, "/playlists") {
					assert.Equal(t, tt.escapedPath+"/playlists", request.URL.EscapedPath())
				} else {
					assert.Equal(t, tt.path, request.URL.Path)
					assert.Equal(t, tt.escapedPath, request.URL.EscapedPath())
				}

				writer.Header().Set("Content-Type", "application/json")
				_, _ = writer.Write([]byte(`{"id": "x", "items": []}`))
			}))
			t.Cleanup(server.Close)

			client := NewTestClient(server.URL)

			_, err := client.Users().Get(context.Background(), tt.userID)
			require.NoError(t, err)

			_, err = client.Playlists().UserPlaylists(context.Background(), tt.userID, nil)
			require.NoError(t, err)
		})
	}
}

func TestUsersClient_GetRejectsDotSegments(t *testing.T) {
	t.Parallel()

	_, err := NewTestClient("http://127.0.0.1:1").Users().Get(context.Background(), "..")
	require.ErrorIs(t, err, spotify.ErrInvalidID)
}

func TestUsersClient_Top(t *testing.T) {
	t.Parallel()

	t.Run("artists", func(t *testing.T) {
		t.Parallel()

		server := NewExchangeServer(t, Exchange{
			Method:       "GET",
			Path:         "/me/top/artists",
			Query:        map[string]string{"time_range": "short_term", "limit": "10"},
			ResponseBody: `{"items": [{"name": "Muse"}], "total": 1}`,
		})

		page, err := NewTestClient(server.URL).Users().TopArtists(context.Background(),
			spotify.NewQueryParams().WithTimeRange(spotify.TimeRangeShortTerm).WithLimit(10))
		require.NoError(t, err)
		assert.Equal(t, "Muse", page.Items[0].Name)
	})

	t.Run("tracks", func(t *testing.T) {
		t.Parallel()

		server := NewExchangeServer(t, Exchange{
			Method:       "GET",
			Path:         "/me/top/tracks",
			Query:        map[string]string{"time_range": "long_term"},
			ResponseBody: `{"items": [{"name": "Hysteria"}], "total": 1}`,
		})

		page, err := NewTestClient(server.URL).Users().TopTracks(context.Background(),
			spotify.NewQueryParams().WithTimeRange(spotify.TimeRangeLongTerm))
		require.NoError(t, err)
		assert.Equal(t, "Hysteria", page.Items[0].Name)
	})
}

func TestUsersClient_Library(t *testing.T) {
	t.Parallel()

	t.Run("saved tracks", func(t *testing.T) {
		t.Parallel()

		server := NewExchangeServer(t, Exchange{
			Method:       "GET",
			Path:         "/me/tracks",
			ResponseBody: `{"items": [{"added_at": "2016-10-24T15:03:07Z", "track": {"name": "Starlight"}}], "total": 1}`,
		})

		page, err := NewTestClient(server.URL).Users().SavedTracks(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Starlight", page.Items[0].Track.Name)
		assert.Equal(t, 2016, page.Items[0].AddedAt.Year())
	})

	t.Run("save", func(t *testing.T) {
		t.Parallel()

		server := NewExchangeServer(t, Exchange{
			Method: "PUT",
			Path:   "/me/tracks",
			Query:  map[string]string{"ids": testTrackID},
		})

		err := NewTestClient(server.URL).Users().SaveTracks(context.Background(), []string{testTrackID})
		require.NoError(t, err)
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()

		server := NewExchangeServer(t, Exchange{
			Method: "DELETE",
			Path:   "/me/tracks",
			Query:  map[string]string{"ids": testTrackID},
		})

		err := NewTestClient(server.URL).Users().RemoveSavedTracks(context.Background(), []string{"spotify:track:" + testTrackID})
		require.NoError(t, err)
	})

	t.Run("check", func(t *testing.T) {
		t.Parallel()

		server := NewExchangeServer(t, Exchange{
			Method:       "GET",
			Path:         "/me/tracks/contains",
			Query:        map[string]string{"ids": testTrackID + ",7ouMYWpwJ422jRcDASZB7P"},
			ResponseBody: `[true, false]`,
		})

		contains, err := NewTestClient(server.URL).Users().CheckSavedTracks(context.Background(),
			[]string{testTrackID, "7ouMYWpwJ422jRcDASZB7P"})
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, contains)
	})

	t.Run("save requires ids", func(t *testing.T) {
		t.Parallel()

		err := NewTestClient("http://127.0.0.1:1").Users().SaveTracks(context.Background(), nil)
		require.ErrorIs(t, err, spotify.ErrEmptyIDs)
		assert.Contains(t, err.Error(), "saving tracks")
	})
}
