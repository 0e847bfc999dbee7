package constants

import "errors"

// Configuration errors.
var (
	ErrNotAuthenticated = errors.New("not authenticated, set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET or run 'spotify login'")
)

// Login flow errors.
var (
	ErrStateMismatch    = errors.New("state mismatch in authorization callback")
	ErrMissingAuthCode  = errors.New("authorization callback did not include a code")
	ErrAuthorizeDenied  = errors.New("authorization was denied")
	ErrLoginTimedOut    = errors.New("timed out waiting for authorization callback")
	ErrInvalidOutputFmt = errors.New("invalid output format")
)
