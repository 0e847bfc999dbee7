package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// NewPlaylistsCommand creates the playlists command group.
func NewPlaylistsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "playlists",
		Aliases: []string{"playlist", "pl"},
		Short:   "Manage playlists",
		Long:    "List the playlists of the logged-in user or of another user",
	}

	cmd.AddCommand(newPlaylistsListCommand())

	return cmd
}

// PlaylistsListOptions holds the options for listing playlists.
type PlaylistsListOptions struct {
	User   string
	Limit  int
	Offset int
}

func newPlaylistsListCommand() *cobra.Command {
	var opts PlaylistsListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List playlists",
		Long:  "List the current user's playlists, or --user's public playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			params := spotify.NewQueryParams().WithLimit(opts.Limit).WithOffset(opts.Offset)

			var page *spotify.Page[spotify.SimplifiedPlaylist]
			if opts.User != "" {
				page, err = client.Playlists().UserPlaylists(ctx, opts.User, params)
			} else {
				page, err = client.Playlists().CurrentUserPlaylists(ctx, params)
			}

			if err != nil {
				return fmt.Errorf("failed to list playlists: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), page, func(table *tablewriter.Table) error {
				table.Header("Name", "Owner", "Tracks", "Public", "ID")

				rows := make([][]string, 0, len(page.Items))
				for _, playlist := range page.Items {
					public := constants.NotAvailable
					if playlist.Public != nil {
						public = strconv.FormatBool(*playlist.Public)
					}

					rows = append(rows, []string{
						playlist.Name,
						valueOr(playlist.Owner.DisplayName, playlist.Owner.ID),
						strconv.Itoa(playlist.Tracks.Total),
						public,
						playlist.ID,
					})
				}

				return appendRows(table, rows)
			})
		},
	}

	cmd.Flags().StringVar(&opts.User, "user", "", "list this user's public playlists")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "maximum number of playlists")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "index of the first playlist")

	return cmd
}
