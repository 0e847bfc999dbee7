package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// StaticTokenManager hands out a fixed token that cannot be renewed.
type StaticTokenManager struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenManager creates a manager for token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the configured token.
func (m *StaticTokenManager) GetToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == "" {
		return "", spotify.ErrNoCredentials
	}

	return m.token, nil
}

// RefreshToken always fails.
func (m *StaticTokenManager) RefreshToken(_ context.Context) error {
	return spotify.ErrStaticTokenCannotRefresh
}

// SetToken replaces the token. The expiry is ignored.
func (m *StaticTokenManager) SetToken(token string, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}
