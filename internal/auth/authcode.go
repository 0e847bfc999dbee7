package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
)

const stateBytes = 16

// AuthorizationCodeFlow drives the user login: build the authorization URL,
// then exchange the returned code for a token. PKCE (S256) is always used.
type AuthorizationCodeFlow struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewAuthorizationCodeFlow creates a flow from the client's OAuth2 settings.
func NewAuthorizationCodeFlow(config *OAuth2Config) *AuthorizationCodeFlow {
	manager := NewOAuth2TokenManager(config)

	redirect := config.RedirectURI
	if redirect == "" {
		redirect = constants.DefaultRedirectURI
	}

	oauthConfig := manager.oauth2Config()
	oauthConfig.RedirectURL = redirect

	return &AuthorizationCodeFlow{
		config:     oauthConfig,
		httpClient: config.HTTPClient,
	}
}

// RedirectURI returns the callback the accounts service will redirect to.
func (f *AuthorizationCodeFlow) RedirectURI() string {
	return f.config.RedirectURL
}

// AuthURL returns the URL the user opens to grant access.
func (f *AuthorizationCodeFlow) AuthURL(state, verifier string) string {
	return f.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades an authorization code for a token.
func (f *AuthorizationCodeFlow) Exchange(ctx context.Context, code, verifier string) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)

	issued, err := f.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, mapTokenError(err, f.config.Endpoint.TokenURL)
	}

	return fromOAuth2Token(issued), nil
}

// GenerateVerifier returns a fresh PKCE code verifier.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

// GenerateState returns a random value tying a callback to its request.
func GenerateState() (string, error) {
	buf := make([]byte, stateBytes)

	_, err := rand.Read(buf)
	if err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
