package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	spotifyhttp "github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

var errTokenEndpointDown = errors.New("token endpoint down")

// MockTokenManager for testing.
type MockTokenManager struct {
	token string
	err   error
	calls atomic.Int32
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	m.calls.Add(1)

	return m.token, m.err
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}

func (m *MockTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

// entries returns the pipeline's own log entries in order.
func (l *MockLogger) entries() []map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []map[string]interface{}

	for _, entry := range l.logs {
		if entry["msg"] == "HTTP Request" || entry["msg"] == "HTTP Response" {
			out = append(out, entry)
		}
	}

	return out
}

// backends lists every backend the pipeline must behave identically on.
func backends() map[string]func() spotifyhttp.Backend {
	return map[string]func() spotifyhttp.Backend{
		"blocking": func() spotifyhttp.Backend { return spotifyhttp.NewBlockingBackend(5*time.Second, nil) },
		"async":    func() spotifyhttp.Backend { return spotifyhttp.NewAsyncBackend(5 * time.Second) },
	}
}

func newTestClient(serverURL string, backend spotifyhttp.Backend, opts ...spotifyhttp.Option) (*spotifyhttp.Client, *MockTokenManager) {
	tokenManager := &MockTokenManager{token: "test-token"}
	opts = append(opts, spotifyhttp.WithBackend(backend))

	return spotifyhttp.NewClient(serverURL, tokenManager, opts...), tokenManager
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()

	for name, newBackend := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Run("successful request", func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
					assert.Equal(t, "/v1/albums/4aawyAB9vmqN3uQ7FjRGTy", request.URL.Path)
					assert.Equal(t, http.MethodGet, request.Method)
					assert.Equal(t, []string{"Bearer test-token"}, request.Header.Values("Authorization"))
					assert.Equal(t, "application/json", request.Header.Get("Accept"))

					_ = json.NewEncoder(writer).Encode(map[string]string{"id": "4aawyAB9vmqN3uQ7FjRGTy", "name": "Global Warming"})
				}))
				defer server.Close()

				client, _ := newTestClient(server.URL+"/v1", newBackend())

				resp, err := client.Do(context.Background(), &spotifyhttp.Request{
					Method: http.MethodGet,
					Path:   "albums/4aawyAB9vmqN3uQ7FjRGTy",
				})
				require.NoError(t, err)
				assert.Equal(t, 200, resp.StatusCode)

				var result map[string]string

				require.NoError(t, resp.DecodeJSON(&result))
				assert.Equal(t, "Global Warming", result["name"])
				assert.Contains(t, resp.Text(), "Global Warming")
			})

			t.Run("request with query parameters", func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
					assert.Equal(t, "/search", request.URL.Path)
					assert.Equal(t, "q=muse&type=artist", request.URL.RawQuery)
					writer.WriteHeader(http.StatusOK)
				}))
				defer server.Close()

				client, _ := newTestClient(server.URL, newBackend())

				resp, err := client.Get(context.Background(), "/search", url.Values{"q": {"muse"}, "type": {"artist"}})
				require.NoError(t, err)
				assert.Equal(t, 200, resp.StatusCode)
			})

			t.Run("request with json body", func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
					assert.Equal(t, http.MethodPost, request.Method)
					assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

					var body map[string]string

					_ = json.NewDecoder(request.Body).Decode(&body)
					assert.Equal(t, "Road trip", body["name"])

					writer.WriteHeader(http.StatusCreated)
				}))
				defer server.Close()

				client, _ := newTestClient(server.URL, newBackend())

				resp, err := client.Post(context.Background(), "/users/me/playlists", map[string]string{"name": "Road trip"})
				require.NoError(t, err)
				assert.Equal(t, 201, resp.StatusCode)
			})

			t.Run("request with form body", func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
					assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))
					assert.NoError(t, request.ParseForm())
					assert.Equal(t, "client_credentials", request.PostForm.Get("grant_type"))
					writer.WriteHeader(http.StatusOK)
				}))
				defer server.Close()

				client, _ := newTestClient(server.URL, newBackend())

				_, err := client.PostForm(context.Background(), "/api/token", url.Values{"grant_type": {"client_credentials"}})
				require.NoError(t, err)
			})

			t.Run("bad request maps to status code error", func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
					writer.WriteHeader(http.StatusBadRequest)
				}))
				defer server.Close()

				client, _ := newTestClient(server.URL, newBackend())

				resp, err := client.Get(context.Background(), "/test", nil)
				require.Error(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, 400, resp.StatusCode)

				var statusErr *spotify.StatusCodeError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, 400, statusErr.Code)
				assert.Equal(t, "Bad Request", statusErr.Status)
				assert.Equal(t, spotify.KindStatusCode, spotify.KindOf(err))
			})

			t.Run("error envelope is parsed", func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
					writer.WriteHeader(http.StatusNotFound)
					_, _ = writer.Write([]byte(`{"error":{"status":404,"message":"Non existing id"}}`))
				}))
				defer server.Close()

				client, _ := newTestClient(server.URL, newBackend())

				_, err := client.Get(context.Background(), "/tracks/missing", nil)
				require.Error(t, err)
				assert.True(t, spotify.IsNotFound(err))
				assert.Contains(t, err.Error(), "Non existing id")
			})

			t.Run("connection failure maps to transport error", func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.NotFoundHandler())
				deadURL := server.URL
				server.Close()

				client, _ := newTestClient(deadURL, newBackend())

				resp, err := client.Get(context.Background(), "/test", nil)
				require.Error(t, err)
				assert.Nil(t, resp)

				var transportErr *spotify.TransportError
				require.ErrorAs(t, err, &transportErr)
				assert.Equal(t, http.MethodGet, transportErr.Method)
				assert.Equal(t, deadURL+"/test", transportErr.URL)
				assert.Equal(t, spotify.KindTransport, spotify.KindOf(err))
			})

			t.Run("custom headers replace authorization", func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
					assert.Equal(t, "1", request.Header.Get("X-Test"))
					assert.Empty(t, request.Header.Values("Authorization"))
					writer.WriteHeader(http.StatusOK)
				}))
				defer server.Close()

				client, tokenManager := newTestClient(server.URL, newBackend())

				resp, err := client.Do(context.Background(), &spotifyhttp.Request{
					Method:  http.MethodGet,
					Path:    "/test",
					Headers: map[string]string{"X-Test": "1"},
				})
				require.NoError(t, err)
				assert.Equal(t, 200, resp.StatusCode)
				assert.Equal(t, int32(0), tokenManager.calls.Load())
			})
		})
	}
}

func TestClient_HeaderExclusivity(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		received http.Header
	)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		mu.Lock()
		received = request.Header.Clone()
		mu.Unlock()
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, spotifyhttp.NewBlockingBackend(5*time.Second, nil))

	rapid.Check(t, func(rt *rapid.T) {
		var headers map[string]string
		if rapid.Bool().Draw(rt, "caller headers") {
			headers = rapid.MapOf(
				rapid.StringMatching(`X-[A-Z][a-z]{1,8}`),
				rapid.StringMatching(`[a-z0-9]{1,12}`),
			).Draw(rt, "headers")
		}

		_, err := client.Do(context.Background(), &spotifyhttp.Request{
			Method:  http.MethodGet,
			Path:    "/check",
			Headers: headers,
		})
		if err != nil {
			rt.Fatalf("request failed: %v", err)
		}

		mu.Lock()
		got := received
		mu.Unlock()

		if headers == nil {
			if values := got.Values("Authorization"); len(values) != 1 || values[0] != "Bearer test-token" {
				rt.Fatalf("default mode sent Authorization %v", values)
			}

			return
		}

		if values := got.Values("Authorization"); len(values) != 0 {
			rt.Fatalf("override mode synthesized Authorization %v", values)
		}

		for key, value := range headers {
			if got.Get(key) != value {
				rt.Fatalf("header %s = %q, want %q", key, got.Get(key), value)
			}
		}
	})
}

func TestClient_Logging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
	}))
	t.Cleanup(server.Close)

	t.Run("one info entry per request", func(t *testing.T) {
		t.Parallel()

		logger := &MockLogger{}
		client := spotifyhttp.NewClient(server.URL, &MockTokenManager{token: "t"}, spotifyhttp.WithLogger(logger))

		_, err := client.Get(context.Background(), "/me", nil)
		require.NoError(t, err)

		entries := logger.entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "HTTP Request", entries[0]["msg"])
		assert.Equal(t, "info", entries[0]["level"])

		fields, _ := entries[0]["fields"].(map[string]interface{})
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, server.URL+"/me", fields["url"])
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		logger := &MockLogger{}
		client := spotifyhttp.NewClient(server.URL, &MockTokenManager{token: "t"},
			spotifyhttp.WithLogger(logger), spotifyhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/me", nil)
		require.NoError(t, err)

		entries := logger.entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "HTTP Request", entries[0]["msg"])
		assert.Equal(t, "HTTP Response", entries[1]["msg"])

		for _, entry := range logger.logs {
			assert.Contains(t, []string{"debug", "info"}, entry["level"])
		}
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*spotifyhttp.Client, context.Context) (*spotifyhttp.Response, error)
	}{
		{
			name:   "GET",
			method: http.MethodGet,
			fn: func(c *spotifyhttp.Client, ctx context.Context) (*spotifyhttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: http.MethodPost,
			fn: func(c *spotifyhttp.Client, ctx context.Context) (*spotifyhttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "POST form",
			method: http.MethodPost,
			fn: func(c *spotifyhttp.Client, ctx context.Context) (*spotifyhttp.Response, error) {
				return c.PostForm(ctx, "/test", url.Values{"key": {"value"}})
			},
		},
		{
			name:   "PUT",
			method: http.MethodPut,
			fn: func(c *spotifyhttp.Client, ctx context.Context) (*spotifyhttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: http.MethodDelete,
			fn: func(c *spotifyhttp.Client, ctx context.Context) (*spotifyhttp.Response, error) {
				return c.Delete(ctx, "/test", nil)
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := spotifyhttp.NewClient(server.URL, &MockTokenManager{token: "t"})
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Edges(t *testing.T) {
	t.Parallel()

	t.Run("absolute URL is used as is", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/albums", request.URL.Path)
			assert.Equal(t, "2", request.URL.Query().Get("offset"))
			assert.Equal(t, "5", request.URL.Query().Get("limit"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := spotifyhttp.NewClient("https://api.spotify.com/v1/", &MockTokenManager{token: "t"})

		_, err := client.Get(context.Background(), server.URL+"/v1/albums?offset=2", url.Values{"limit": {"5"}})
		require.NoError(t, err)
	})

	t.Run("no token manager without headers", func(t *testing.T) {
		t.Parallel()

		client := spotifyhttp.NewClient("https://api.spotify.com/v1/", nil)

		_, err := client.Get(context.Background(), "/me", nil)
		require.ErrorIs(t, err, spotify.ErrNoTokenManager)
	})

	t.Run("token failure is returned before sending", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		client := spotifyhttp.NewClient(server.URL, &MockTokenManager{err: errTokenEndpointDown})

		_, err := client.Get(context.Background(), "/me", nil)
		require.ErrorIs(t, err, errTokenEndpointDown)
		assert.Equal(t, int32(0), hits.Load())
	})

	t.Run("unencodable body is a serialization error", func(t *testing.T) {
		t.Parallel()

		client := spotifyhttp.NewClient("https://api.spotify.com/v1/", &MockTokenManager{token: "t"})

		_, err := client.Post(context.Background(), "/x", map[string]interface{}{"ch": make(chan int)})
		require.Error(t, err)
		assert.Equal(t, spotify.KindSerialization, spotify.KindOf(err))
	})

	t.Run("undecodable body is a serialization error", func(t *testing.T) {
		t.Parallel()

		resp := &spotifyhttp.Response{StatusCode: 200, Body: []byte("not json")}

		var v map[string]string

		err := spotifyhttp.DecodeJSON(resp, &v)
		assert.Equal(t, spotify.KindSerialization, spotify.KindOf(err))
	})

	t.Run("request option overrides headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer user-supplied", request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "managed"}
		client := spotifyhttp.NewClient(server.URL, tokenManager)

		_, err := client.Get(context.Background(), "/me", nil,
			spotifyhttp.WithHeaders(map[string]string{"Authorization": "Bearer user-supplied"}))
		require.NoError(t, err)
		assert.Equal(t, int32(0), tokenManager.calls.Load())
	})
}

func TestClient_Go(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"id":"me"}`))
	}))
	defer server.Close()

	client := spotifyhttp.NewClient(server.URL, &MockTokenManager{token: "t"},
		spotifyhttp.WithBackend(spotifyhttp.NewAsyncBackend(time.Second)))

	results := client.Go(context.Background(), &spotifyhttp.Request{Method: http.MethodGet, Path: "/me"})

	result, ok := <-results
	require.True(t, ok)
	require.NoError(t, result.Err)
	assert.JSONEq(t, `{"id":"me"}`, result.Response.Text())

	_, ok = <-results
	assert.False(t, ok)
}

func TestAsyncBackend_ContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		select {
		case <-release:
		case <-request.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	backend := spotifyhttp.NewAsyncBackend(5 * time.Second)
	client := spotifyhttp.NewClient(server.URL, &MockTokenManager{token: "t"}, spotifyhttp.WithBackend(backend))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/slow", nil)
	require.Error(t, err)
	assert.Equal(t, spotify.KindTransport, spotify.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	backend.Wait()
}

// countingBackend records every exchange and delegates to a real backend.
type countingBackend struct {
	next  spotifyhttp.Backend
	sends atomic.Int32
}

func (b *countingBackend) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	b.sends.Add(1)

	return b.next.Send(ctx, req)
}

func TestClient_UsesConfiguredBackend(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	backend := &countingBackend{next: spotifyhttp.NewAsyncBackend(time.Second)}
	client := spotifyhttp.NewClient(server.URL, &MockTokenManager{token: "t"}, spotifyhttp.WithBackend(backend))

	for range 3 {
		resp, err := client.Put(context.Background(), "/me/player/pause", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, int32(3), backend.sends.Load())
	assert.Same(t, backend, client.Backend())
}
