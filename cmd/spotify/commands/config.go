package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/spotify-client/internal/config"
	"github.com/fivetwenty-io/spotify-client/internal/constants"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and initialize the configuration stored in ~/.spotify/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  "Display the merged configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			redacted := settings.Redacted()

			return renderOutput(cmd.OutOrStdout(), redacted, func(table *tablewriter.Table) error {
				table.Header("Setting", "Value")

				return appendRows(table, [][]string{
					{"Config File", orNotAvailable(redacted.ConfigFile)},
					{"Client ID", orNotAvailable(redacted.ClientID)},
					{"Client Secret", orNotAvailable(redacted.ClientSecret)},
					{"Refresh Token", orNotAvailable(redacted.RefreshToken)},
					{"Redirect URI", redacted.RedirectURI},
					{"Scopes", orNotAvailable(strings.Join(redacted.Scopes, " "))},
					{"API Base URL", redacted.APIBaseURL},
					{"Token URL", redacted.TokenURL},
					{"Token Cache", orNotAvailable(redacted.TokenCachePath)},
					{"NATS URL", orNotAvailable(redacted.NATSURL)},
					{"Backend", redacted.Backend},
					{"HTTP Timeout", redacted.HTTPTimeout.String()},
					{"Market", orNotAvailable(redacted.Market)},
				})
			})
		},
	}
}

// ConfigInitOptions holds the options for writing a config file.
type ConfigInitOptions struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	Force       bool
}

func newConfigInitCommand() *cobra.Command {
	var opts ConfigInitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file",
		Long:  "Write ~/.spotify/config.yml, prompting for the client secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}

			secret, err := promptSecret(cmd, "Client secret (leave empty for PKCE only): ")
			if err != nil {
				return err
			}

			path, err := writeConfigFile(dir, opts, secret)
			if err != nil {
				return err
			}

			printSuccess(cmd, "Configuration written to %s", path)

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ClientID, "client-id", "", "application client id")
	cmd.Flags().StringVar(&opts.RedirectURI, "redirect-uri", constants.DefaultRedirectURI, "login callback URI")
	cmd.Flags().StringSliceVar(&opts.Scopes, "scopes", nil, "scopes requested at login")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")

	_ = cmd.MarkFlagRequired("client-id")

	return cmd
}

// writeConfigFile writes config.yml into dir with owner-only permissions.
func writeConfigFile(dir string, opts ConfigInitOptions, secret string) (string, error) {
	path := filepath.Join(dir, "config.yml")

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return "", fmt.Errorf("%s already exists, use --force to overwrite: %w", path, os.ErrExist)
	}

	err := os.MkdirAll(dir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}

	settings := struct {
		ClientID     string   `yaml:"client_id"`
		ClientSecret string   `yaml:"client_secret,omitempty"`
		RedirectURI  string   `yaml:"redirect_uri"`
		Scopes       []string `yaml:"scopes,omitempty"`
	}{
		ClientID:     opts.ClientID,
		ClientSecret: secret,
		RedirectURI:  opts.RedirectURI,
		Scopes:       opts.Scopes,
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	return path, nil
}

// promptSecret reads a secret without echo when stdin is a terminal.
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(syscall.Stdin) //nolint:unconvert // syscall.Stdin is not an int on every platform

	if !term.IsTerminal(fd) {
		return "", nil
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

	secret, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
