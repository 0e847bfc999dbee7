package client

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/fivetwenty-io/spotify-client/internal/auth"
	"github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// Client implements the spotify.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	logger       spotify.Logger
	closeFn      func()

	// Resource clients
	albums    spotify.AlbumsClient
	artists   spotify.ArtistsClient
	tracks    spotify.TracksClient
	search    spotify.SearchClient
	browse    spotify.BrowseClient
	playlists spotify.PlaylistsClient
	player    spotify.PlayerClient
	users     spotify.UsersClient
}

// createBackend builds the configured backend and the client used for the
// token endpoint, which shares its transport.
func createBackend(config *spotify.Config, logger spotify.Logger) (http.Backend, *nethttp.Client, error) {
	kind, err := spotify.ParseBackendKind(string(config.Backend))
	if err != nil {
		return nil, nil, err
	}

	switch kind {
	case spotify.BackendAsync:
		backend := http.NewAsyncBackend(config.HTTPTimeout)

		return backend, backend.HTTPClient(), nil
	default:
		backend := http.NewBlockingBackend(config.HTTPTimeout, logger)

		return backend, backend.HTTPClient(), nil
	}
}

// createTokenManager creates the token manager for the configured
// credentials. The returned function releases the token store, if any.
func createTokenManager(ctx context.Context, config *spotify.Config, tokenClient *nethttp.Client, logger spotify.Logger) (auth.TokenManager, func(), error) {
	hasClientCredentials := config.ClientID != "" && config.ClientSecret != ""

	if config.AccessToken != "" && config.RefreshToken == "" && !hasClientCredentials {
		return auth.NewStaticTokenManager(config.AccessToken), func() {}, nil
	}

	if config.RefreshToken == "" && !hasClientCredentials {
		return nil, nil, spotify.ErrNoCredentials
	}

	oauthConfig := &auth.OAuth2Config{
		TokenURL:          config.TokenURL,
		AuthorizeURL:      config.AuthorizeURL,
		ClientID:          config.ClientID,
		ClientSecret:      config.ClientSecret,
		RedirectURI:       config.RedirectURI,
		Scopes:            config.Scopes,
		RefreshToken:      config.RefreshToken,
		AccessToken:       config.AccessToken,
		AccessTokenExpiry: config.AccessTokenExpiry,
		HTTPClient:        tokenClient,
	}

	switch {
	case config.NATSURL != "":
		persister, closeFn, err := auth.ConnectNATSPersister(ctx, config.NATSURL, config.NATSBucket, "")
		if err != nil {
			return nil, nil, fmt.Errorf("connecting token store: %w", err)
		}

		return auth.NewPersistingTokenManager(ctx, oauthConfig, persister, logger), closeFn, nil
	case config.TokenCachePath != "":
		persister := auth.NewFilePersister(config.TokenCachePath)

		return auth.NewPersistingTokenManager(ctx, oauthConfig, persister, logger), func() {}, nil
	default:
		return auth.NewOAuth2TokenManager(oauthConfig), func() {}, nil
	}
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *spotify.Config, backend http.Backend, logger spotify.Logger) []http.Option {
	httpOpts := []http.Option{
		http.WithBackend(backend),
		http.WithLogger(logger),
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	return httpOpts
}

// New creates a new Web API client from config.
func New(ctx context.Context, config *spotify.Config) (*Client, error) {
	if config == nil {
		return nil, spotify.ErrConfigRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = spotify.NoopLogger{}
	}

	backend, tokenClient, err := createBackend(config, logger)
	if err != nil {
		return nil, err
	}

	tokenManager, closeFn, err := createTokenManager(ctx, config, tokenClient, logger)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.APIBaseURL, tokenManager, createHTTPClientOptions(config, backend, logger)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		logger:       logger,
		closeFn:      closeFn,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client, nil
}

// NewWithTokenManager creates a new client with a custom token manager.
// Credential fields of config are ignored.
func NewWithTokenManager(config *spotify.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, spotify.ErrConfigRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = spotify.NoopLogger{}
	}

	backend, _, err := createBackend(config, logger)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.APIBaseURL, tokenManager, createHTTPClientOptions(config, backend, logger)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		logger:       logger,
		closeFn:      func() {},
	}

	client.initializeResourceClients()

	return client, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// HTTPClient returns the request pipeline, for endpoints without a typed
// wrapper.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Close implements spotify.Client.Close.
func (c *Client) Close() error {
	if c.closeFn != nil {
		c.closeFn()
		c.closeFn = nil
	}

	return nil
}

// Resource client accessors

// Albums implements spotify.Client.Albums.
func (c *Client) Albums() spotify.AlbumsClient {
	return c.albums
}

// Artists implements spotify.Client.Artists.
func (c *Client) Artists() spotify.ArtistsClient {
	return c.artists
}

// Tracks implements spotify.Client.Tracks.
func (c *Client) Tracks() spotify.TracksClient {
	return c.tracks
}

// Search implements spotify.Client.Search.
func (c *Client) Search() spotify.SearchClient {
	return c.search
}

// Browse implements spotify.Client.Browse.
func (c *Client) Browse() spotify.BrowseClient {
	return c.browse
}

// Playlists implements spotify.Client.Playlists.
func (c *Client) Playlists() spotify.PlaylistsClient {
	return c.playlists
}

// Player implements spotify.Client.Player.
func (c *Client) Player() spotify.PlayerClient {
	return c.player
}

// Users implements spotify.Client.Users.
func (c *Client) Users() spotify.UsersClient {
	return c.users
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.albums = NewAlbumsClient(c.httpClient)
	c.artists = NewArtistsClient(c.httpClient)
	c.tracks = NewTracksClient(c.httpClient)
	c.search = NewSearchClient(c.httpClient)
	c.browse = NewBrowseClient(c.httpClient)
	c.playlists = NewPlaylistsClient(c.httpClient)
	c.player = NewPlayerClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
}
