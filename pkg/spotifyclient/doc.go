// Package spotifyclient constructs Spotify Web API clients that implement the
// spotify.Client interface.
//
// It layers configuration, token management and the HTTP backend on top of
// the resource interfaces and types defined in the spotify package. Most
// applications import spotifyclient to build a client, then use the returned
// spotify.Client to reach the resource clients: Albums(), Artists(),
// Player() and so on.
//
// Quick start
//
//	ctx := context.Background()
//
//	// Catalog access with the client credentials grant.
//	cli, err := spotifyclient.NewWithClientCredentials(ctx, clientID, clientSecret)
//	if err != nil { log.Fatal(err) }
//	defer cli.Close()
//
//	// Acting for a user who logged in earlier.
//	cli, err = spotifyclient.NewWithRefreshToken(ctx, clientID, clientSecret, refreshToken)
//
//	// Reading .env, SPOTIFY_* variables and ~/.spotify/config.yml.
//	cli, err = spotifyclient.NewFromEnvironment(ctx, nil)
//
// Backends
//
// Config.Backend selects how calls run. "blocking" (the default) performs
// each call on the caller's goroutine. "async" dispatches each call on its
// own goroutine and waits for it, honoring context cancellation while the
// call is in flight. Both produce identical requests and errors.
//
// Errors
//
// Failures are typed: *spotify.StatusCodeError, *spotify.TransportError,
// *spotify.SerializationError and *spotify.EnumError. Use spotify.KindOf or
// errors.As to branch on them.
package spotifyclient
