package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/spotify-client/internal/auth"
	"github.com/fivetwenty-io/spotify-client/internal/config"
	"github.com/fivetwenty-io/spotify-client/internal/constants"
)

const callbackReadHeaderTimeout = 10 * time.Second

// callbackResult is what the login callback delivers: a code or an error.
type callbackResult struct {
	code string
	err  error
}

// LoginOptions holds the options for the login command.
type LoginOptions struct {
	Scopes  []string
	Timeout time.Duration
}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var opts LoginOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a Spotify account",
		Long: `Authorize this CLI for a Spotify account.

Opens the authorization code flow with PKCE, waits for the redirect on the
configured redirect URI and stores the resulting token in the token cache.
Later commands act for that account.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Scopes, "scopes", nil, "scopes to request (default from config)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", constants.LoginTimeout, "how long to wait for the callback")

	return cmd
}

func runLogin(cmd *cobra.Command, opts LoginOptions) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if settings.ClientID == "" {
		return ErrClientIDRequired
	}

	scopes := settings.Scopes
	if len(opts.Scopes) > 0 {
		scopes = opts.Scopes
	}

	flow := auth.NewAuthorizationCodeFlow(&auth.OAuth2Config{
		TokenURL:     settings.TokenURL,
		AuthorizeURL: settings.AuthorizeURL,
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		RedirectURI:  settings.RedirectURI,
		Scopes:       scopes,
		HTTPClient:   &http.Client{Timeout: settings.HTTPTimeout},
	})

	redirect, err := url.Parse(flow.RedirectURI())
	if err != nil {
		return fmt.Errorf("parsing redirect URI: %w", err)
	}

	state, err := auth.GenerateState()
	if err != nil {
		return err
	}

	verifier := auth.GenerateVerifier()

	ctx, cancel := context.WithTimeout(commandContext(cmd), opts.Timeout)
	defer cancel()

	results := make(chan callbackResult, 1)

	server, err := startCallbackServer(redirect, newCallbackRouter(redirect.Path, state, results))
	if err != nil {
		return err
	}

	defer func() { _ = server.Close() }()

	_, _ = labelColor.Fprintln(cmd.ErrOrStderr(), "Open this URL in a browser to log in:")
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), flow.AuthURL(state, verifier))

	code, err := waitForCode(ctx, results)
	if err != nil {
		return err
	}

	token, err := flow.Exchange(ctx, code, verifier)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	err = saveLoginToken(ctx, settings, token)
	if err != nil {
		return err
	}

	printSuccess(cmd, "Logged in, token saved to %s", settings.TokenCachePath)

	return nil
}

// newCallbackRouter handles the redirect from the accounts service and
// delivers exactly one result.
func newCallbackRouter(path, state string, results chan<- callbackResult) *mux.Router {
	if path == "" {
		path = "/"
	}

	router := mux.NewRouter()
	router.HandleFunc(path, func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()

		var result callbackResult

		switch {
		case query.Get("state") != state:
			result.err = constants.ErrStateMismatch
		case query.Get("error") != "":
			result.err = fmt.Errorf("%w: %s", constants.ErrAuthorizeDenied, query.Get("error"))
		case query.Get("code") == "":
			result.err = constants.ErrMissingAuthCode
		default:
			result.code = query.Get("code")
		}

		if result.err != nil {
			http.Error(writer, result.err.Error(), http.StatusBadRequest)
		} else {
			_, _ = fmt.Fprintln(writer, "Login complete. You can close this window.")
		}

		select {
		case results <- result:
		default:
		}
	}).Methods(http.MethodGet)

	return router
}

func startCallbackServer(redirect *url.URL, handler http.Handler) (*http.Server, error) {
	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", redirect.Host, err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: callbackReadHeaderTimeout,
	}

	go func() {
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = listener.Close()
		}
	}()

	return server, nil
}

func waitForCode(ctx context.Context, results <-chan callbackResult) (string, error) {
	select {
	case result := <-results:
		return result.code, result.err
	case <-ctx.Done():
		return "", constants.ErrLoginTimedOut
	}
}

// saveLoginToken stores the token where later commands look for it: the
// cache file and, when configured, the shared NATS bucket.
func saveLoginToken(ctx context.Context, settings *config.Settings, token *auth.Token) error {
	var persisters []auth.TokenPersister

	if settings.TokenCachePath != "" {
		persisters = append(persisters, auth.NewFilePersister(settings.TokenCachePath))
	}

	if settings.NATSURL != "" {
		persister, closeFn, err := auth.ConnectNATSPersister(ctx, settings.NATSURL, settings.NATSBucket, "")
		if err != nil {
			return fmt.Errorf("connecting token store: %w", err)
		}

		defer closeFn()

		persisters = append(persisters, persister)
	}

	for _, persister := range persisters {
		err := persister.Save(ctx, token)
		if err != nil {
			return fmt.Errorf("saving token: %w", err)
		}
	}

	return nil
}
