package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/spotify-client/internal/auth"
	"github.com/fivetwenty-io/spotify-client/internal/config"
	"github.com/fivetwenty-io/spotify-client/internal/constants"
)

const testArtistID = "4Z8W4fKeB5YxbusRsdQVPb"

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// setupEnv points the CLI at apiURL with a static token and an empty home.
func setupEnv(t *testing.T, apiURL string) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	for _, name := range []string{"CLIENT_ID", "CLIENT_SECRET", "SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_REFRESH_TOKEN"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	t.Setenv("SPOTIFY_API_BASE_URL", apiURL+"/v1")
	t.Setenv("SPOTIFY_ACCESS_TOKEN", "cli-token")

	return home
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer

	root := NewRootCommand("1.2.3", "abc123", "2026-01-02")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

// newAPIServer serves body for path and records the request.
func newAPIServer(t *testing.T, method, path string, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()

	seen := &http.Request{}

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, method, request.Method)
		assert.Equal(t, path, request.URL.Path)
		assert.Equal(t, "Bearer cli-token", request.Header.Get("Authorization"))

		*seen = *request.Clone(context.Background())

		if body != "" {
			writer.Header().Set("Content-Type", "application/json")
		}

		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, seen
}

func TestNewRootCommand(t *testing.T) {
	t.Cleanup(viper.Reset)

	root := NewRootCommand("dev", "none", "unknown")
	assert.Equal(t, "spotify", root.Use)

	for _, name := range []string{
		"version", "config", "token", "login", "search", "artist", "album",
		"track", "devices", "now-playing", "player", "playlists",
	} {
		assert.NotNil(t, findSubcommand(root, name), "missing command %s", name)
	}

	for _, name := range []string{"config", "output", "verbose", "backend", "market"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "missing flag %s", name)
	}

	player := findSubcommand(root, "player")
	require.NotNil(t, player)

	for _, name := range []string{"play", "pause", "next", "previous"} {
		assert.NotNil(t, findSubcommand(player, name), "missing player command %s", name)
	}

	artist := findSubcommand(root, "artist")
	require.NotNil(t, artist)
	assert.Len(t, artist.Commands(), 3)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "version", "-o", "json")
	require.NoError(t, err)

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, VersionInfo{Version: "1.2.3", Commit: "abc123", Built: "2026-01-02"}, info)

	stdout, _, err = executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1.2.3")

	_, _, err = executeCommand(t, "version", "-o", "xml")
	require.ErrorIs(t, err, constants.ErrInvalidOutputFmt)
}

func TestArtistTopTracksCommand(t *testing.T) {
	server, seen := newAPIServer(t, http.MethodGet, "/v1/artists/"+testArtistID+"/top-tracks", http.StatusOK,
		`{"tracks": [{"id": "1", "name": "Karma Police", "duration_ms": 264000}, {"id": "2", "name": "Creep"}]}`)
	setupEnv(t, server.URL)

	stdout, _, err := executeCommand(t, "artist", "top-tracks", "spotify:artist:"+testArtistID, "--market", "GB", "-o", "json")
	require.NoError(t, err)

	var tracks []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &tracks))
	require.Len(t, tracks, 2)
	assert.Equal(t, "Karma Police", tracks[0]["name"])
	assert.Equal(t, "GB", seen.URL.Query().Get("market"))
}

func TestArtistTopTracksCommand_DefaultMarket(t *testing.T) {
	server, seen := newAPIServer(t, http.MethodGet, "/v1/artists/"+testArtistID+"/top-tracks", http.StatusOK,
		`{"tracks": [{"id": "1", "name": "Karma Police", "duration_ms": 264000}]}`)
	setupEnv(t, server.URL)

	stdout, _, err := executeCommand(t, "artist", "top-tracks", testArtistID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Karma Police")
	assert.Contains(t, stdout, "4:24")
	assert.Equal(t, defaultMarket, seen.URL.Query().Get("market"))
}

func TestArtistGetCommand_NotFound(t *testing.T) {
	server, _ := newAPIServer(t, http.MethodGet, "/v1/artists/"+testArtistID, http.StatusNotFound,
		`{"error": {"status": 404, "message": "non existing id"}}`)
	setupEnv(t, server.URL)

	_, _, err := executeCommand(t, "artist", "get", testArtistID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non existing id")
}

func TestSearchCommand(t *testing.T) {
	server, seen := newAPIServer(t, http.MethodGet, "/v1/search", http.StatusOK,
		`{"artists": {"items": [{"id": "a1", "name": "Radiohead", "followers": {"total": 10}}]},
		  "tracks": {"items": [{"id": "t1", "name": "Creep", "artists": [{"name": "Radiohead"}]}]}}`)
	setupEnv(t, server.URL)

	stdout, _, err := executeCommand(t, "search", "radio", "head", "--type", "artist,track", "--limit", "5")
	require.NoError(t, err)

	assert.Equal(t, "radio head", seen.URL.Query().Get("q"))
	assert.Equal(t, "artist,track", seen.URL.Query().Get("type"))
	assert.Equal(t, "5", seen.URL.Query().Get("limit"))
	assert.Contains(t, stdout, "Radiohead")
	assert.Contains(t, stdout, "Creep")
	assert.Contains(t, stdout, "10 followers")
}

func TestSearchCommand_UnknownType(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	_, _, err := executeCommand(t, "search", "x", "--type", "podcast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "podcast")
}

func TestNowPlayingCommand_NothingPlaying(t *testing.T) {
	server, _ := newAPIServer(t, http.MethodGet, "/v1/me/player/currently-playing", http.StatusNoContent, "")
	setupEnv(t, server.URL)

	stdout, stderr, err := executeCommand(t, "now-playing")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, ErrNothingPlaying.Error())
}

func TestPlayerPauseCommand(t *testing.T) {
	server, seen := newAPIServer(t, http.MethodPut, "/v1/me/player/pause", http.StatusNoContent, "")
	setupEnv(t, server.URL)

	stdout, _, err := executeCommand(t, "player", "pause", "--device", "kitchen")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Paused")
	assert.Equal(t, "kitchen", seen.URL.Query().Get("device_id"))
}

func TestPlaylistsListCommand(t *testing.T) {
	server, seen := newAPIServer(t, http.MethodGet, "/v1/users/wizzler/playlists", http.StatusOK,
		`{"items": [{"id": "p1", "name": "Road Trip", "owner": {"id": "wizzler"}, "tracks": {"total": 12}, "public": true}], "total": 1}`)
	setupEnv(t, server.URL)

	stdout, _, err := executeCommand(t, "playlists", "list", "--user", "wizzler", "--limit", "10", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "10", seen.URL.Query().Get("limit"))

	var page map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &page))
	assert.Equal(t, 1, page["total"])
}

func TestCreateClient_NotAuthenticated(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")
	require.NoError(t, os.Unsetenv("SPOTIFY_ACCESS_TOKEN"))

	_, _, err := executeCommand(t, "devices")
	require.ErrorIs(t, err, constants.ErrNotAuthenticated)
}

func TestConfigShowCommand(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")
	t.Setenv("SPOTIFY_CLIENT_ID", "my-client")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "super-secret")

	stdout, _, err := executeCommand(t, "config", "show", "-o", "json")
	require.NoError(t, err)

	assert.NotContains(t, stdout, "super-secret")

	var settings config.Settings
	require.NoError(t, json.Unmarshal([]byte(stdout), &settings))
	assert.Equal(t, "my-client", settings.ClientID)
	assert.Equal(t, "***", settings.ClientSecret)
	assert.Equal(t, "***", settings.AccessToken)
}

func TestWriteConfigFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), ".spotify")
	opts := ConfigInitOptions{ClientID: "id", RedirectURI: "http://127.0.0.1:9999/cb", Scopes: []string{"user-read-private"}}

	path, err := writeConfigFile(dir, opts, "secret")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "client_id: id")
	assert.Contains(t, string(data), "client_secret: secret")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = writeConfigFile(dir, opts, "")
	require.ErrorIs(t, err, os.ErrExist)

	opts.Force = true
	_, err = writeConfigFile(dir, opts, "")
	require.NoError(t, err)
}

func TestCallbackRouter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantErr    error
	}{
		{name: "code", query: "state=expected&code=abc", wantStatus: http.StatusOK, wantCode: "abc"},
		{name: "state mismatch", query: "state=other&code=abc", wantStatus: http.StatusBadRequest, wantErr: constants.ErrStateMismatch},
		{name: "denied", query: "state=expected&error=access_denied", wantStatus: http.StatusBadRequest, wantErr: constants.ErrAuthorizeDenied},
		{name: "missing code", query: "state=expected", wantStatus: http.StatusBadRequest, wantErr: constants.ErrMissingAuthCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := make(chan callbackResult, 1)
			server := httptest.NewServer(newCallbackRouter("/callback", "expected", results))
			defer server.Close()

			resp, err := http.Get(server.URL + "/callback?" + tt.query) //nolint:noctx // test request
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			result := <-results
			assert.Equal(t, tt.wantCode, result.code)

			if tt.wantErr != nil {
				require.ErrorIs(t, result.err, tt.wantErr)
			} else {
				require.NoError(t, result.err)
			}
		})
	}

	t.Run("rejects other methods", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(newCallbackRouter("/callback", "expected", make(chan callbackResult, 1)))
		defer server.Close()

		resp, err := http.Post(server.URL+"/callback", "text/plain", nil) //nolint:noctx // test request
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestWaitForCode(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := waitForCode(ctx, make(chan callbackResult))
	require.ErrorIs(t, err, constants.ErrLoginTimedOut)

	results := make(chan callbackResult, 1)
	results <- callbackResult{code: "xyz"}

	code, err := waitForCode(context.Background(), results)
	require.NoError(t, err)
	assert.Equal(t, "xyz", code)
}

func TestSaveLoginToken(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token.json")
	token := &auth.Token{AccessToken: "user-token", RefreshToken: "user-refresh", TokenType: "Bearer"}

	err := saveLoginToken(context.Background(), &config.Settings{TokenCachePath: path}, token)
	require.NoError(t, err)

	saved, err := auth.NewFilePersister(path).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "user-refresh", saved.RefreshToken)
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "3:58", formatDuration(238_000))
	assert.Equal(t, "61:01", formatDuration(3_661_000))
	assert.Equal(t, "N/A", artistNames(nil))
	assert.Equal(t, "N/A", valueOr(nil, "N/A"))
}
