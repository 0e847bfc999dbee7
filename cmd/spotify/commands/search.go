package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// SearchOptions holds the options for the search command.
type SearchOptions struct {
	Types []string
	Limit int
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search the catalog",
		Long:  "Search for artists, albums, tracks, playlists, shows or episodes",
		Example: `  spotify search radiohead --type artist
  spotify search "track:creep artist:radiohead" --type track --limit 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Types, "type", []string{string(spotify.SearchTypeTrack)}, "item types to search for")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "results per type")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts SearchOptions) error {
	types := make([]spotify.SearchType, 0, len(opts.Types))

	for _, name := range opts.Types {
		searchType, err := spotify.ParseSearchType(strings.TrimSpace(name))
		if err != nil {
			return err
		}

		types = append(types, searchType)
	}

	ctx := commandContext(cmd)

	client, err := CreateClient(ctx)
	if err != nil {
		return err
	}

	defer func() { _ = client.Close() }()

	result, err := client.Search().Search(ctx, query, types, marketParams(opts.Limit))
	if err != nil {
		return fmt.Errorf("failed to search: %w", err)
	}

	return renderOutput(cmd.OutOrStdout(), result, func(table *tablewriter.Table) error {
		table.Header("Type", "Name", "Detail", "ID")

		return appendRows(table, searchRows(result))
	})
}

func searchRows(result *spotify.SearchResult) [][]string {
	var rows [][]string

	if result.Artists != nil {
		for _, artist := range result.Artists.Items {
			rows = append(rows, []string{"artist", artist.Name, strconv.Itoa(artist.Followers.Total) + " followers", artist.ID})
		}
	}

	if result.Albums != nil {
		for _, album := range result.Albums.Items {
			rows = append(rows, []string{"album", album.Name, artistNames(album.Artists), album.ID})
		}
	}

	if result.Tracks != nil {
		for _, track := range result.Tracks.Items {
			rows = append(rows, []string{"track", track.Name, artistNames(track.Artists), track.ID})
		}
	}

	if result.Playlists != nil {
		for _, playlist := range result.Playlists.Items {
			if playlist == nil {
				continue
			}

			rows = append(rows, []string{"playlist", playlist.Name, valueOr(playlist.Owner.DisplayName, playlist.Owner.ID), playlist.ID})
		}
	}

	if result.Episodes != nil {
		for _, episode := range result.Episodes.Items {
			if episode == nil {
				continue
			}

			rows = append(rows, []string{"episode", episode.Name, episode.ReleaseDate, episode.ID})
		}
	}

	return rows
}
