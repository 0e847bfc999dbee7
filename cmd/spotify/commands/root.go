package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
)

// NewRootCommand creates the spotify command with every subcommand and the
// global flags bound to viper.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spotify",
		Short: "Spotify Web API CLI",
		Long: `A command-line interface for the Spotify Web API.

Catalog commands work with client credentials (SPOTIFY_CLIENT_ID and
SPOTIFY_CLIENT_SECRET). Player, playlist and library commands act for a user
and need 'spotify login' first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.spotify/config.yml)")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("backend", "", "HTTP backend (blocking, async)")
	flags.String("market", "", "ISO 3166-1 country code for track relinking")

	// Bind flags to viper
	for _, name := range []string{"config", "output", "verbose", "backend", "market"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewTokenCommand())
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewArtistCommand())
	rootCmd.AddCommand(NewAlbumCommand())
	rootCmd.AddCommand(NewTrackCommand())
	rootCmd.AddCommand(NewDevicesCommand())
	rootCmd.AddCommand(NewNowPlayingCommand())
	rootCmd.AddCommand(NewPlayerCommand())
	rootCmd.AddCommand(NewPlaylistsCommand())

	return rootCmd
}
