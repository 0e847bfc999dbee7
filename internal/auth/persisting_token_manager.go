package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenPersister = errors.New("no token persister configured")
)

// TokenPersister stores tokens outside the process. Load returns nil, nil
// when nothing has been stored yet.
type TokenPersister interface {
	Load(ctx context.Context) (*Token, error)
	Save(ctx context.Context, token *Token) error
}

// PersistingTokenManager wraps OAuth2TokenManager and saves every token it
// obtains. Persist failures are logged and never fail the caller.
type PersistingTokenManager struct {
	oauth2Manager *OAuth2TokenManager
	persister     TokenPersister
	logger        spotify.Logger

	mutex     sync.Mutex
	lastSaved string
}

// NewPersistingTokenManager creates a manager seeded from persister. A stored
// token takes precedence over the one in config; a load failure is logged and
// the manager starts from config alone.
func NewPersistingTokenManager(ctx context.Context, config *OAuth2Config, persister TokenPersister, logger spotify.Logger) *PersistingTokenManager {
	if logger == nil {
		logger = spotify.NoopLogger{}
	}

	manager := &PersistingTokenManager{
		oauth2Manager: NewOAuth2TokenManager(config),
		persister:     persister,
		logger:        logger,
	}

	if persister == nil {
		return manager
	}

	stored, err := persister.Load(ctx)

	switch {
	case err != nil:
		logger.Info("Failed to load cached token", map[string]interface{}{"error": err.Error()})
	case stored != nil && stored.AccessToken != "":
		manager.oauth2Manager.SetFullToken(mergeRefreshToken(stored, config.RefreshToken))
		manager.lastSaved = stored.AccessToken
	}

	return manager
}

// GetToken returns a valid access token, refreshing and persisting if necessary.
func (m *PersistingTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.oauth2Manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.persistIfChanged(ctx)

	return token, nil
}

// RefreshToken forces a token refresh and persists the result.
func (m *PersistingTokenManager) RefreshToken(ctx context.Context) error {
	err := m.oauth2Manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.persistIfChanged(ctx)

	return nil
}

// SetToken manually sets the access token and persists it.
func (m *PersistingTokenManager) SetToken(token string, expiresAt time.Time) {
	m.oauth2Manager.SetToken(token, expiresAt)
	m.persistIfChanged(context.Background())
}

// SetFullToken stores token, e.g. one returned by a login, and persists it.
func (m *PersistingTokenManager) SetFullToken(ctx context.Context, token *Token) {
	m.oauth2Manager.SetFullToken(token)
	m.persistIfChanged(ctx)
}

// CurrentToken returns a copy of the stored token, or nil.
func (m *PersistingTokenManager) CurrentToken() *Token {
	return m.oauth2Manager.CurrentToken()
}

// IsTokenExpiringSoon returns true if the token expires within the given duration.
func (m *PersistingTokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	token := m.oauth2Manager.CurrentToken()
	if token == nil {
		return true
	}

	if token.ExpiresAt.IsZero() {
		return false
	}

	return time.Now().Add(within).After(token.ExpiresAt)
}

func (m *PersistingTokenManager) persistIfChanged(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Read under the lock so a slower caller cannot save an older token
	// over a newer one.
	current := m.oauth2Manager.CurrentToken()
	if current == nil {
		return
	}

	if current.AccessToken == m.lastSaved {
		return
	}

	err := m.persistToken(ctx, current)
	if err != nil {
		m.logger.Info("Failed to persist token", map[string]interface{}{"error": err.Error()})

		return
	}

	m.lastSaved = current.AccessToken
}

func (m *PersistingTokenManager) persistToken(ctx context.Context, token *Token) error {
	if m.persister == nil {
		return ErrNoTokenPersister
	}

	err := m.persister.Save(ctx, token)
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	return nil
}

// mergeRefreshToken keeps a configured refresh token when the cached token has none.
func mergeRefreshToken(token *Token, refreshToken string) *Token {
	if token.RefreshToken == "" && refreshToken != "" {
		merged := *token
		merged.RefreshToken = refreshToken

		return &merged
	}

	return token
}
