package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/spotify-client/internal/auth"
	internalhttp "github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// Test static errors.
var (
	ErrTestSomeError = errors.New("some error")
)

// NewTestClient creates a new test client with the given base URL.
func NewTestClient(baseURL string) *Client {
	tokenManager := auth.NewStaticTokenManager("test-token")
	httpClient := internalhttp.NewClient(baseURL, tokenManager)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		logger:       spotify.NoopLogger{},
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client
}

// Exchange describes one expected request and the canned response.
type Exchange struct {
	Method       string
	Path         string
	Query        map[string]string
	Body         string
	StatusCode   int
	ResponseBody string
}

// NewExchangeServer serves exchange once per request, asserting that the
// request matches it.
func NewExchangeServer(t *testing.T, exchange Exchange) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, exchange.Method, request.Method)
		assert.Equal(t, exchange.Path, request.URL.Path)
		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))

		for key, value := range exchange.Query {
			assert.Equal(t, value, request.URL.Query().Get(key), "query parameter %s", key)
		}

		if exchange.Body != "" {
			body, err := io.ReadAll(request.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, exchange.Body, string(body))
		}

		status := exchange.StatusCode
		if status == 0 {
			status = http.StatusOK
		}

		if exchange.ResponseBody != "" {
			writer.Header().Set("Content-Type", "application/json")
		}

		writer.WriteHeader(status)

		if exchange.ResponseBody != "" {
			_, _ = writer.Write([]byte(exchange.ResponseBody))
		}
	}))
	t.Cleanup(server.Close)

	return server
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Response     *TResponse
	WantErr      bool
	ErrMessage   string
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, string) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "GET", request.Method)
				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.StatusCode >= http.StatusBadRequest {
					// Web API error envelope
					errorResponse := map[string]interface{}{
						"error": map[string]interface{}{
							"status":  testCase.StatusCode,
							"message": "Resource not found",
						},
					}
					_ = json.NewEncoder(writer).Encode(errorResponse)
				} else if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			}))
			defer server.Close()

			client := NewTestClient(server.URL)

			getFn := getFunc(client)
			result, err := getFn(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
		})
	}
}
