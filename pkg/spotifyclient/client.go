// Package spotifyclient provides the main entry point for creating Spotify Web API clients
package spotifyclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/spotify-client/internal/client"
	"github.com/fivetwenty-io/spotify-client/internal/config"
	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// New creates a new Web API client. Empty endpoint URLs fall back to the
// public Spotify services.
func New(ctx context.Context, config *spotify.Config) (spotify.Client, error) {
	if config == nil {
		return nil, spotify.ErrConfigRequired
	}

	normalized := normalize(config)

	client, err := client.New(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// normalize returns a copy of config with trimmed credentials and defaulted
// endpoints. The API base URL always ends in a slash.
func normalize(config *spotify.Config) *spotify.Config {
	normalized := *config

	normalized.ClientID = strings.TrimSpace(normalized.ClientID)
	normalized.ClientSecret = strings.TrimSpace(normalized.ClientSecret)
	normalized.RefreshToken = strings.TrimSpace(normalized.RefreshToken)
	normalized.AccessToken = strings.TrimSpace(normalized.AccessToken)

	normalized.APIBaseURL = withDefault(normalized.APIBaseURL, constants.DefaultAPIBaseURL)
	if !strings.HasSuffix(normalized.APIBaseURL, "/") {
		normalized.APIBaseURL += "/"
	}

	normalized.TokenURL = withDefault(normalized.TokenURL, constants.DefaultTokenURL)
	normalized.AuthorizeURL = withDefault(normalized.AuthorizeURL, constants.DefaultAuthorizeURL)

	if normalized.HTTPTimeout <= 0 {
		normalized.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	return &normalized
}

func withDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	return value
}

// NewWithToken creates a new client that sends a fixed access token.
func NewWithToken(ctx context.Context, token string) (spotify.Client, error) {
	return New(ctx, &spotify.Config{
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new client using the OAuth2 client
// credentials grant. Only catalog endpoints are usable with such a token.
func NewWithClientCredentials(ctx context.Context, clientID, clientSecret string) (spotify.Client, error) {
	return New(ctx, &spotify.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// NewWithRefreshToken creates a new client acting for the user who granted
// refreshToken.
func NewWithRefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (spotify.Client, error) {
	return New(ctx, &spotify.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
	})
}

// NewFromEnvironment creates a new client from .env, SPOTIFY_* variables
// (CLIENT_ID and CLIENT_SECRET are accepted too) and ~/.spotify/config.yml.
func NewFromEnvironment(ctx context.Context, logger spotify.Logger) (spotify.Client, error) {
	err := config.LoadDotEnv()
	if err != nil {
		return nil, err
	}

	dir, err := config.Dir()
	if err != nil {
		dir = ""
	}

	settings, err := config.Load(viper.New(), "", dir)
	if err != nil {
		return nil, err
	}

	cfg, err := settings.SpotifyConfig(logger)
	if err != nil {
		return nil, err
	}

	return New(ctx, cfg)
}
