package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/spotify-client/internal/auth"
)

// NewTokenCommand creates the token command.
func NewTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print an access token",
		Long: `Print a valid access token for the configured credentials.

With a refresh token (from 'spotify login' or SPOTIFY_REFRESH_TOKEN) the token
acts for that user; otherwise it is a client credentials token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			token, err := client.GetTokenManager().GetToken(ctx)
			if err != nil {
				return fmt.Errorf("getting token: %w", err)
			}

			info := tokenInfo(client.GetTokenManager(), token)

			return renderOutput(cmd.OutOrStdout(), info, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")

				rows := [][]string{{"Access Token", info.AccessToken}}
				if info.ExpiresAt != "" {
					rows = append(rows, []string{"Expires At", info.ExpiresAt})
				}

				if info.Scope != "" {
					rows = append(rows, []string{"Scope", info.Scope})
				}

				return appendRows(table, rows)
			})
		},
	}
}

// TokenInfo is the printable part of a token. The refresh token is never
// printed.
type TokenInfo struct {
	AccessToken string `json:"access_token"         yaml:"access_token"`
	ExpiresAt   string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Scope       string `json:"scope,omitempty"      yaml:"scope,omitempty"`
}

func tokenInfo(manager auth.TokenManager, accessToken string) TokenInfo {
	info := TokenInfo{AccessToken: accessToken}

	current, ok := manager.(interface{ CurrentToken() *auth.Token })
	if !ok {
		return info
	}

	if token := current.CurrentToken(); token != nil {
		if !token.ExpiresAt.IsZero() {
			info.ExpiresAt = token.ExpiresAt.Local().Format("2006-01-02 15:04:05")
		}

		info.Scope = token.Scope
	}

	return info
}
