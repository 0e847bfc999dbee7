package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and token cache files.
	ConfigFilePerm = 0600
)

// Spotify endpoints.
const (
	// DefaultAPIBaseURL is the Web API prefix relative paths are joined onto.
	DefaultAPIBaseURL = "https://api.spotify.com/v1/"

	// DefaultTokenURL is the accounts service token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultAuthorizeURL is the accounts service authorization endpoint.
	DefaultAuthorizeURL = "https://accounts.spotify.com/authorize"

	// DefaultRedirectURI is used by the login flow when none is configured.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second

	// LoginTimeout bounds how long the login command waits for the callback.
	LoginTimeout = 5 * time.Minute
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second

	// DefaultTokenFile is the token cache file name inside the config directory.
	DefaultTokenFile = "token.json"

	// DefaultTokenBucket is the NATS key-value bucket holding shared tokens.
	DefaultTokenBucket = "spotify_tokens"

	// DefaultTokenKey is the key under which the token is stored in the bucket.
	DefaultTokenKey = "client_credentials"
)

// Web API request limits.
const (
	// MaxAlbumIDs is the maximum number of ids for the several-albums endpoint.
	MaxAlbumIDs = 20

	// MaxArtistIDs is the maximum number of ids for the several-artists endpoint.
	MaxArtistIDs = 50

	// MaxTrackIDs is the maximum number of ids for the several-tracks endpoint.
	MaxTrackIDs = 50

	// MaxLibraryIDs is the maximum number of ids for library save/remove/check calls.
	MaxLibraryIDs = 50

	// MaxPlaylistItems is the maximum number of items added or removed per call.
	MaxPlaylistItems = 100

	// DefaultPageSize is the default number of items requested by the CLI.
	DefaultPageSize = 20
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2
)
