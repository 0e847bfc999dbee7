package spotify

import (
	"context"
	"fmt"
	"time"
)

// AlbumsClient covers the album endpoints.
type AlbumsClient interface {
	Get(ctx context.Context, id string, params *QueryParams) (*Album, error)
	GetSeveral(ctx context.Context, ids []string, params *QueryParams) ([]*Album, error)
	Tracks(ctx context.Context, id string, params *QueryParams) (*Page[SimplifiedTrack], error)
}

// ArtistsClient covers the artist endpoints.
type ArtistsClient interface {
	Get(ctx context.Context, id string) (*Artist, error)
	GetSeveral(ctx context.Context, ids []string) ([]*Artist, error)
	TopTracks(ctx context.Context, id string, market string) ([]Track, error)
	Albums(ctx context.Context, id string, params *QueryParams) (*Page[SimplifiedAlbum], error)
	RelatedArtists(ctx context.Context, id string) ([]Artist, error)
}

// TracksClient covers the track endpoints.
type TracksClient interface {
	Get(ctx context.Context, id string, params *QueryParams) (*Track, error)
	GetSeveral(ctx context.Context, ids []string, params *QueryParams) ([]*Track, error)
}

// SearchClient covers catalog search.
type SearchClient interface {
	Search(ctx context.Context, query string, types []SearchType, params *QueryParams) (*SearchResult, error)
}

// PlaylistsClient covers playlist reads and modifications.
type PlaylistsClient interface {
	Get(ctx context.Context, id string, params *QueryParams) (*Playlist, error)
	Items(ctx context.Context, id string, params *QueryParams) (*Page[PlaylistItem], error)
	CurrentUserPlaylists(ctx context.Context, params *QueryParams) (*Page[SimplifiedPlaylist], error)
	UserPlaylists(ctx context.Context, userID string, params *QueryParams) (*Page[SimplifiedPlaylist], error)
	Create(ctx context.Context, userID string, request *PlaylistCreateRequest) (*Playlist, error)
	ChangeDetails(ctx context.Context, id string, request *PlaylistUpdateRequest) error
	AddItems(ctx context.Context, id string, uris []string, position *int) (*Snapshot, error)
	RemoveItems(ctx context.Context, id string, uris []string, snapshotID string) (*Snapshot, error)
	Follow(ctx context.Context, id string, public bool) error
	Unfollow(ctx context.Context, id string) error
}

// PlayerClient covers playback state and control.
type PlayerClient interface {
	Devices(ctx context.Context) ([]Device, error)
	State(ctx context.Context, params *QueryParams) (*PlaybackState, error)
	CurrentlyPlaying(ctx context.Context, params *QueryParams) (*CurrentlyPlaying, error)
	Play(ctx context.Context, deviceID string, options *PlayOptions) error
	Pause(ctx context.Context, deviceID string) error
	Next(ctx context.Context, deviceID string) error
	Previous(ctx context.Context, deviceID string) error
	Seek(ctx context.Context, position time.Duration, deviceID string) error
	Repeat(ctx context.Context, state RepeatState, deviceID string) error
	Shuffle(ctx context.Context, state bool, deviceID string) error
	Volume(ctx context.Context, percent int, deviceID string) error
	Transfer(ctx context.Context, deviceID string, play bool) error
	AddToQueue(ctx context.Context, uri string, deviceID string) error
}

// UsersClient covers user profiles, top items and the track library.
type UsersClient interface {
	Me(ctx context.Context) (*PrivateUser, error)
	Get(ctx context.Context, userID string) (*PublicUser, error)
	TopArtists(ctx context.Context, params *QueryParams) (*Page[Artist], error)
	TopTracks(ctx context.Context, params *QueryParams) (*Page[Track], error)
	SavedTracks(ctx context.Context, params *QueryParams) (*Page[SavedTrack], error)
	SaveTracks(ctx context.Context, ids []string) error
	RemoveSavedTracks(ctx context.Context, ids []string) error
	CheckSavedTracks(ctx context.Context, ids []string) ([]bool, error)
}

// BrowseClient covers editorial and category endpoints.
type BrowseClient interface {
	NewReleases(ctx context.Context, params *QueryParams) (*Page[SimplifiedAlbum], error)
	FeaturedPlaylists(ctx context.Context, params *QueryParams) (*FeaturedPlaylists, error)
	Categories(ctx context.Context, params *QueryParams) (*Page[Category], error)
	Category(ctx context.Context, id string, params *QueryParams) (*Category, error)
	CategoryPlaylists(ctx context.Context, id string, params *QueryParams) (*Page[*SimplifiedPlaylist], error)
}

// CatalogClients provides access to the public catalog.
type CatalogClients interface {
	Albums() AlbumsClient
	Artists() ArtistsClient
	Tracks() TracksClient
	Search() SearchClient
	Browse() BrowseClient
}

// UserClients provides access to endpoints acting on behalf of a user.
type UserClients interface {
	Playlists() PlaylistsClient
	Player() PlayerClient
	Users() UsersClient
}

// Client is the full Web API client. Close releases connections held for
// token persistence.
type Client interface {
	CatalogClients
	UserClients

	Close() error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// BackendKind selects how HTTP calls are executed.
type BackendKind string

const (
	// BackendBlocking runs every call on the caller's goroutine.
	BackendBlocking BackendKind = "blocking"
	// BackendAsync dispatches every call on its own goroutine.
	BackendAsync BackendKind = "async"
)

// ParseBackendKind returns the backend named s. The empty string selects
// BackendBlocking.
func ParseBackendKind(s string) (BackendKind, error) {
	switch BackendKind(s) {
	case "", BackendBlocking:
		return BackendBlocking, nil
	case BackendAsync:
		return BackendAsync, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBackend, s)
	}
}

// Config represents client configuration for building a spotify.Client.
//
// # Authentication precedence
//
//  1. AccessToken without client credentials: used as a static Bearer token.
//  2. RefreshToken: the refresh_token grant renews the access token. A seeded
//     AccessToken is used until it expires.
//  3. ClientID/ClientSecret: the client_credentials grant.
//  4. No credentials: spotifyclient.New fails with ErrNoCredentials.
//
// # Token persistence
//
// When TokenCachePath is set, tokens are loaded from and saved to that file.
// When NATSURL is set, they are kept in a JetStream key-value bucket instead,
// letting several processes share one client-credentials token.
type Config struct {
	// APIBaseURL: prefix relative paths are joined onto. Defaults to
	// https://api.spotify.com/v1/.
	APIBaseURL string
	// TokenURL: accounts service token endpoint. Defaults to
	// https://accounts.spotify.com/api/token.
	TokenURL string
	// AuthorizeURL: accounts service authorization endpoint used by the
	// authorization code flow.
	AuthorizeURL string

	// ClientID and ClientSecret identify the registered application.
	ClientID     string
	ClientSecret string
	// RedirectURI: callback registered for the authorization code flow.
	RedirectURI string
	// Scopes requested by the authorization code flow.
	Scopes []string
	// RefreshToken: optional refresh token obtained from a user login.
	RefreshToken string
	// AccessToken: optional access token, valid until AccessTokenExpiry.
	AccessToken       string
	AccessTokenExpiry time.Time

	// TokenCachePath: optional JSON file tokens are persisted to.
	TokenCachePath string
	// NATSURL and NATSBucket: optional JetStream key-value store for tokens.
	NATSURL    string
	NATSBucket string

	// Backend selects blocking or async execution. Defaults to blocking.
	Backend BackendKind
	// HTTPTimeout bounds each HTTP exchange at the transport.
	HTTPTimeout time.Duration
	// Debug adds an "HTTP Response" log entry for every call.
	Debug bool
	// Logger receives the client's log entries. Defaults to a no-op logger.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
