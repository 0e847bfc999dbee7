//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
	"github.com/fivetwenty-io/spotify-client/pkg/spotifyclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Verbose      bool
}

// LoadTestConfig loads configuration from .env and environment variables
func LoadTestConfig() *TestConfig {
	_ = godotenv.Load("../../.env")

	return &TestConfig{
		ClientID:     firstEnv("SPOTIFY_CLIENT_ID", "CLIENT_ID"),
		ClientSecret: firstEnv("SPOTIFY_CLIENT_SECRET", "CLIENT_SECRET"),
		RefreshToken: os.Getenv("SPOTIFY_REFRESH_TOKEN"),
		Verbose:      os.Getenv("SPOTIFY_VERBOSE") == "true",
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}

	return ""
}

// SkipIfMissingConfig skips tests if the client credentials are not set
func (c *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if c.ClientID == "" || c.ClientSecret == "" {
		t.Skip("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set for integration tests")
	}
}

// SkipIfNoUser skips tests that act for a user
func (c *TestConfig) SkipIfNoUser(t *testing.T) {
	t.Helper()

	c.SkipIfMissingConfig(t)

	if c.RefreshToken == "" {
		t.Skip("SPOTIFY_REFRESH_TOKEN must be set for user integration tests")
	}
}

// NewClient creates a live client on the given backend
func (c *TestConfig) NewClient(t *testing.T, backend spotify.BackendKind, withUser bool) spotify.Client {
	t.Helper()

	config := &spotify.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Backend:      backend,
		HTTPTimeout:  20 * time.Second,
		Debug:        c.Verbose,
	}

	if withUser {
		config.RefreshToken = c.RefreshToken
	}

	if c.Verbose {
		logger, err := spotify.NewDevelopmentLogger(true)
		require.NoError(t, err)

		config.Logger = logger
	}

	client, err := spotifyclient.New(context.Background(), config)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	return client
}

// Backends lists every backend a test should run against
func Backends() []spotify.BackendKind {
	return []spotify.BackendKind{spotify.BackendBlocking, spotify.BackendAsync}
}
