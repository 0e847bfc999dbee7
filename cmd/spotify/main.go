package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/spotify-client/cmd/spotify/commands"
	"github.com/fivetwenty-io/spotify-client/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := commands.NewRootCommand(version, commit, date)

	cobra.OnInitialize(initConfig)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	// .env never overrides variables already set in the environment.
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if viper.GetBool("verbose") {
		if dir, err := config.Dir(); err == nil {
			fmt.Fprintln(os.Stderr, "Config directory:", dir)
		}
	}
}
