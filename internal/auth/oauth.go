package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// Static errors for err113 compliance.
var (
	ErrNoValidCredentials = errors.New("no valid credentials available for token refresh")
)

// OAuth2Config configures an OAuth2TokenManager.
type OAuth2Config struct {
	TokenURL     string
	AuthorizeURL string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string

	// RefreshToken selects the refresh_token grant; without it the
	// client_credentials grant is used.
	RefreshToken string

	// AccessToken seeds the store. AccessTokenExpiry zero means it never expires.
	AccessToken       string
	AccessTokenExpiry time.Time

	// HTTPClient performs token requests. Defaults to a client with
	// constants.DefaultHTTPTimeout.
	HTTPClient *http.Client
}

// OAuth2TokenManager obtains and renews tokens from the accounts service.
// At most one refresh is in flight; concurrent callers share its outcome.
type OAuth2TokenManager struct {
	config *OAuth2Config
	store  *TokenStore
	flight singleflight.Group
}

// NewOAuth2TokenManager creates a manager. A seeded access token is used until
// it expires.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	if config.TokenURL == "" {
		config.TokenURL = constants.DefaultTokenURL
	}

	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	}

	manager := &OAuth2TokenManager{
		config: config,
		store:  NewTokenStore(),
	}

	if config.AccessToken != "" || config.RefreshToken != "" {
		manager.store.Set(&Token{
			AccessToken:  config.AccessToken,
			TokenType:    "bearer",
			RefreshToken: config.RefreshToken,
			ExpiresAt:    config.AccessTokenExpiry,
		})
	}

	return manager
}

// NewSpotifyTokenManager creates a client-credentials manager against the
// Spotify accounts service.
func NewSpotifyTokenManager(clientID, clientSecret string) *OAuth2TokenManager {
	return NewOAuth2TokenManager(&OAuth2Config{
		TokenURL:     constants.DefaultTokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// GetToken returns the cached token if it is valid, refreshing otherwise.
// A stale token is never returned.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	token, err := m.refresh(ctx)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// RefreshToken forces a token refresh.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	_, err := m.refresh(ctx)

	return err
}

// SetToken manually sets the access token, keeping any refresh token.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	refreshToken := m.currentRefreshToken()

	m.store.Set(&Token{
		AccessToken:  token,
		TokenType:    "bearer",
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// SetFullToken replaces the stored token, e.g. with one loaded from a cache.
func (m *OAuth2TokenManager) SetFullToken(token *Token) {
	m.store.Set(token)
}

// CurrentToken returns a copy of the stored token, or nil.
func (m *OAuth2TokenManager) CurrentToken() *Token {
	return m.store.Get()
}

// refresh joins the in-flight fetch, or starts one. The fetch runs detached
// from any single caller, bounded by the token client's timeout; each caller
// stops waiting when its own ctx is done.
func (m *OAuth2TokenManager) refresh(ctx context.Context) (*Token, error) {
	results := m.flight.DoChan("token", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.fetchTimeout())
		defer cancel()

		return m.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, mapTokenError(ctx.Err(), m.config.TokenURL)
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}

		token, _ := result.Val.(*Token)

		return token, nil
	}
}

func (m *OAuth2TokenManager) fetchTimeout() time.Duration {
	if m.config.HTTPClient.Timeout > 0 {
		return m.config.HTTPClient.Timeout
	}

	return constants.DefaultHTTPTimeout
}

func (m *OAuth2TokenManager) fetch(ctx context.Context) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.config.HTTPClient)
	refreshToken := m.currentRefreshToken()

	var (
		issued *oauth2.Token
		err    error
	)

	switch {
	case refreshToken != "":
		conf := m.oauth2Config()
		issued, err = conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	case m.config.ClientID != "" && m.config.ClientSecret != "":
		conf := &clientcredentials.Config{
			ClientID:     m.config.ClientID,
			ClientSecret: m.config.ClientSecret,
			TokenURL:     m.config.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		issued, err = conf.Token(ctx)
	default:
		return nil, ErrNoValidCredentials
	}

	if err != nil {
		return nil, mapTokenError(err, m.config.TokenURL)
	}

	token := fromOAuth2Token(issued)

	// The service may omit a new refresh token; the old one stays usable.
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}

	m.store.Set(token)

	return token, nil
}

func (m *OAuth2TokenManager) currentRefreshToken() string {
	if token := m.store.Get(); token != nil && token.RefreshToken != "" {
		return token.RefreshToken
	}

	return m.config.RefreshToken
}

func (m *OAuth2TokenManager) oauth2Config() *oauth2.Config {
	authorizeURL := m.config.AuthorizeURL
	if authorizeURL == "" {
		authorizeURL = constants.DefaultAuthorizeURL
	}

	return &oauth2.Config{
		ClientID:     m.config.ClientID,
		ClientSecret: m.config.ClientSecret,
		RedirectURL:  m.config.RedirectURI,
		Scopes:       m.config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authorizeURL,
			TokenURL:  m.config.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

func fromOAuth2Token(issued *oauth2.Token) *Token {
	token := &Token{
		AccessToken:  issued.AccessToken,
		TokenType:    strings.ToLower(issued.TokenType),
		RefreshToken: issued.RefreshToken,
		ExpiresAt:    issued.Expiry,
	}

	if scope, ok := issued.Extra("scope").(string); ok {
		token.Scope = scope
	}

	if !issued.Expiry.IsZero() {
		token.ExpiresIn = int(time.Until(issued.Expiry).Round(time.Second).Seconds())
	}

	return token
}

// mapTokenError sorts token endpoint failures into the client's error kinds:
// a rejected request, a request that never completed, or a response that
// could not be understood.
func mapTokenError(err error, tokenURL string) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		code := 0
		if retrieveErr.Response != nil {
			code = retrieveErr.Response.StatusCode
		}

		statusErr := spotify.NewStatusCodeError(code, http.StatusText(code), retrieveErr.Body)
		if statusErr.Reason == "" {
			statusErr.Reason = retrieveErr.ErrorCode
		}

		if statusErr.Message == "" {
			statusErr.Message = retrieveErr.ErrorDescription
		}

		return fmt.Errorf("requesting token: %w", statusErr)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("requesting token: %w", &spotify.TransportError{
			Method: http.MethodPost,
			URL:    tokenURL,
			Err:    urlErr.Err,
		})
	}

	if isTransportFailure(err) {
		return fmt.Errorf("requesting token: %w", &spotify.TransportError{Method: http.MethodPost, URL: tokenURL, Err: err})
	}

	return fmt.Errorf("requesting token: %w", &spotify.SerializationError{Err: err})
}

// fetchTokenPrefix starts the error oauth2 returns when the token response
// body could not be read. It does not wrap the cause.
const fetchTokenPrefix = "oauth2: cannot fetch token:"

func isTransportFailure(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return strings.HasPrefix(err.Error(), fetchTokenPrefix)
}
