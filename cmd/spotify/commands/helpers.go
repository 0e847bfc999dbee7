package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/spotify-client/internal/auth"
	"github.com/fivetwenty-io/spotify-client/internal/client"
	"github.com/fivetwenty-io/spotify-client/internal/config"
	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// Common static errors used throughout the commands package.
var (
	ErrClientIDRequired = errors.New("client id is required (set SPOTIFY_CLIENT_ID or run 'spotify config init')")
	ErrNothingPlaying   = errors.New("nothing is playing")
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	labelColor   = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
)

// loadSettings merges the config file, .env and environment with the flags
// bound to the global viper.
func loadSettings() (*config.Settings, error) {
	dir, err := config.Dir()
	if err != nil {
		dir = ""
	}

	settings, err := config.Load(viper.GetViper(), viper.GetString("config"), dir)
	if err != nil {
		return nil, err
	}

	return settings, nil
}

// newLogger builds the CLI logger. Request entries only reach the terminal
// with --verbose.
func newLogger() spotify.Logger {
	logger, err := spotify.NewDevelopmentLogger(viper.GetBool("verbose"))
	if err != nil {
		return spotify.NoopLogger{}
	}

	return logger
}

// CreateClient builds a client from the merged settings. A refresh token
// saved by 'spotify login' is picked up from the token cache.
func CreateClient(ctx context.Context) (*client.Client, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	if settings.RefreshToken == "" && settings.TokenCachePath != "" {
		cached, err := auth.NewFilePersister(settings.TokenCachePath).Load(ctx)
		if err == nil && cached != nil {
			settings.RefreshToken = cached.RefreshToken
		}
	}

	cfg, err := settings.SpotifyConfig(newLogger())
	if err != nil {
		return nil, err
	}

	c, err := client.New(ctx, withDefaults(cfg))
	if errors.Is(err, spotify.ErrNoCredentials) {
		return nil, constants.ErrNotAuthenticated
	}

	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return c, nil
}

func withDefaults(cfg *spotify.Config) *spotify.Config {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = constants.DefaultAPIBaseURL
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	return cfg
}

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// marketParams returns query parameters carrying the configured market.
func marketParams(limit int) *spotify.QueryParams {
	params := spotify.NewQueryParams().WithMarket(viper.GetString("market"))
	if limit > 0 {
		params.WithLimit(limit)
	}

	return params
}

// renderOutput writes data in the configured output format; table is
// rendered by tableFn.
func renderOutput(writer io.Writer, data interface{}, tableFn func(table *tablewriter.Table) error) error {
	switch output := viper.GetString("output"); output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(constants.JSONIndentSize)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	case constants.FormatTable, "":
		table := tablewriter.NewWriter(writer)

		err := tableFn(table)
		if err != nil {
			return err
		}

		err = table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFmt, output)
	}
}

func appendRows(table *tablewriter.Table, rows [][]string) error {
	for _, row := range rows {
		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	return nil
}

func artistNames(artists []spotify.SimplifiedArtist) string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}

	if len(names) == 0 {
		return constants.NotAvailable
	}

	return strings.Join(names, ", ")
}

// formatDuration renders milliseconds as m:ss.
func formatDuration(ms int) string {
	d := time.Duration(ms) * time.Millisecond

	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func valueOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}

	return *value
}

func printSuccess(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = successColor.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
