package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/spotify-client/internal/auth"
)

var errBucketDown = errors.New("bucket unavailable")

// slowPersister records saved access tokens, pausing inside Save.
type slowPersister struct {
	mu    sync.Mutex
	saved []string
}

func (p *slowPersister) Load(context.Context) (*auth.Token, error) { return nil, nil }

func (p *slowPersister) Save(_ context.Context, token *auth.Token) error {
	time.Sleep(time.Millisecond)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.saved = append(p.saved, token.AccessToken)

	return nil
}

func (p *slowPersister) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.saved) == 0 {
		return ""
	}

	return p.saved[len(p.saved)-1]
}

// memoryStore is an in-memory KeyValueStore.
type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	putErr error
	puts   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return nil, auth.ErrKeyNotFound
	}

	return value, nil
}

func (s *memoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.puts++
	if s.putErr != nil {
		return s.putErr
	}

	s.values[key] = value

	return nil
}

// recordingLogger keeps info messages.
type recordingLogger struct {
	mu    sync.Mutex
	infos []string
}

func (l *recordingLogger) Debug(string, map[string]interface{}) {}
func (l *recordingLogger) Warn(string, map[string]interface{})  {}
func (l *recordingLogger) Error(string, map[string]interface{}) {}

func (l *recordingLogger) Info(msg string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.infos = append(l.infos, msg)
}

func newClientCredentialsServer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": accessToken,
			"expires_in":   3600,
			"token_type":   "Bearer",
		})
	}))
	t.Cleanup(server.Close)

	return server
}

func TestFilePersister(t *testing.T) {
	t.Parallel()

	t.Run("missing file loads nothing", func(t *testing.T) {
		t.Parallel()

		persister := auth.NewFilePersister(filepath.Join(t.TempDir(), "token.json"))

		token, err := persister.Load(context.Background())
		require.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("save then load", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "token.json")
		persister := auth.NewFilePersister(path)
		expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)

		err := persister.Save(context.Background(), &auth.Token{
			AccessToken:  "cached",
			RefreshToken: "refresh",
			ExpiresAt:    expiresAt,
		})
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		token, err := persister.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "cached", token.AccessToken)
		assert.Equal(t, "refresh", token.RefreshToken)
		assert.True(t, expiresAt.Equal(token.ExpiresAt))
		assert.Equal(t, path, persister.Path())
	})

	t.Run("corrupt file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "token.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

		_, err := auth.NewFilePersister(path).Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing token cache")
	})
}

func TestNATSPersister(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	persister := auth.NewNATSPersister(store, "")

	token, err := persister.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, token)

	err = persister.Save(context.Background(), &auth.Token{AccessToken: "shared"})
	require.NoError(t, err)

	_, ok := store.values["client_credentials"]
	assert.True(t, ok)

	token, err = persister.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shared", token.AccessToken)

	store.putErr = errBucketDown
	err = persister.Save(context.Background(), &auth.Token{AccessToken: "other"})
	require.ErrorIs(t, err, errBucketDown)
}

func TestPersistingTokenManager(t *testing.T) {
	t.Parallel()

	t.Run("seeds from persister without a request", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		persister := auth.NewNATSPersister(store, "key")
		require.NoError(t, persister.Save(context.Background(), &auth.Token{
			AccessToken: "from-bucket",
			ExpiresAt:   time.Now().Add(time.Hour),
		}))

		manager := auth.NewPersistingTokenManager(context.Background(), &auth.OAuth2Config{
			TokenURL:     "http://127.0.0.1:1/unused",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		}, persister, nil)

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "from-bucket", token)
		assert.Equal(t, 1, store.puts)
	})

	t.Run("persists refreshed token once", func(t *testing.T) {
		t.Parallel()

		server := newClientCredentialsServer(t, "fresh")
		store := newMemoryStore()
		persister := auth.NewNATSPersister(store, "key")

		manager := auth.NewPersistingTokenManager(context.Background(), &auth.OAuth2Config{
			TokenURL:     server.URL,
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		}, persister, nil)

		for range 3 {
			token, err := manager.GetToken(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "fresh", token)
		}

		assert.Equal(t, 1, store.puts)

		saved, err := persister.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh", saved.AccessToken)
		assert.False(t, manager.IsTokenExpiringSoon(time.Minute))
	})

	t.Run("persist failure is logged not returned", func(t *testing.T) {
		t.Parallel()

		server := newClientCredentialsServer(t, "fresh")
		store := newMemoryStore()
		store.putErr = errBucketDown
		logger := &recordingLogger{}

		manager := auth.NewPersistingTokenManager(context.Background(), &auth.OAuth2Config{
			TokenURL:     server.URL,
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		}, auth.NewNATSPersister(store, "key"), logger)

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh", token)
		assert.Contains(t, logger.infos, "Failed to persist token")
	})

	t.Run("concurrent updates leave the newest token saved", func(t *testing.T) {
		t.Parallel()

		persister := &slowPersister{}
		manager := auth.NewPersistingTokenManager(context.Background(), &auth.OAuth2Config{}, persister, nil)

		var wg sync.WaitGroup

		for i := range 16 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				manager.SetToken(fmt.Sprintf("token-%d", i), time.Now().Add(time.Hour))
			}()
		}

		wg.Wait()

		assert.Equal(t, manager.CurrentToken().AccessToken, persister.last())
	})

	t.Run("login token is saved to file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "token.json")
		manager := auth.NewPersistingTokenManager(context.Background(), &auth.OAuth2Config{},
			auth.NewFilePersister(path), nil)

		manager.SetFullToken(context.Background(), &auth.Token{
			AccessToken:  "user-token",
			RefreshToken: "user-refresh",
			ExpiresAt:    time.Now().Add(time.Hour),
		})

		saved, err := auth.NewFilePersister(path).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "user-token", saved.AccessToken)
		assert.Equal(t, "user-refresh", manager.CurrentToken().RefreshToken)
	})
}
