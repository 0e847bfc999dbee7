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

// NewArtistCommand creates the artist command group.
func NewArtistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "artist",
		Aliases: []string{"artists"},
		Short:   "Look up artists",
		Long:    "Show artists, their top tracks and their albums. IDs may be bare ids, URIs or open.spotify.com links.",
	}

	cmd.AddCommand(newArtistGetCommand())
	cmd.AddCommand(newArtistTopTracksCommand())
	cmd.AddCommand(newArtistAlbumsCommand())

	return cmd
}

func newArtistGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ARTIST_ID",
		Short: "Get artist details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			artist, err := client.Artists().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get artist: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), artist, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")

				return appendRows(table, [][]string{
					{"Name", artist.Name},
					{"ID", artist.ID},
					{"URI", artist.URI},
					{"Followers", strconv.Itoa(artist.Followers.Total)},
					{"Popularity", strconv.Itoa(artist.Popularity)},
					{"Genres", orNotAvailable(strings.Join(artist.Genres, ", "))},
				})
			})
		},
	}
}

func newArtistTopTracksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "top-tracks ARTIST_ID",
		Short: "List an artist's top tracks",
		Long:  "List an artist's top tracks in the configured market (--market, default US)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			market := marketParams(0).Market
			if market == "" {
				market = defaultMarket
			}

			tracks, err := client.Artists().TopTracks(ctx, args[0], market)
			if err != nil {
				return fmt.Errorf("failed to get top tracks: %w", err)
			}

			return renderTracks(cmd, tracks)
		},
	}
}

// ArtistAlbumsOptions holds the options for listing an artist's albums.
type ArtistAlbumsOptions struct {
	Groups []string
	Limit  int
}

func newArtistAlbumsCommand() *cobra.Command {
	var opts ArtistAlbumsOptions

	cmd := &cobra.Command{
		Use:   "albums ARTIST_ID",
		Short: "List an artist's albums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := marketParams(opts.Limit)

			for _, group := range opts.Groups {
				albumType, err := spotify.ParseAlbumType(group)
				if err != nil {
					return err
				}

				params.WithIncludeGroups(albumType)
			}

			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			page, err := client.Artists().Albums(ctx, args[0], params)
			if err != nil {
				return fmt.Errorf("failed to list albums: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), page, func(table *tablewriter.Table) error {
				table.Header("Name", "Type", "Released", "Tracks", "ID")

				rows := make([][]string, 0, len(page.Items))
				for _, album := range page.Items {
					rows = append(rows, []string{
						album.Name, album.AlbumType.String(), album.ReleaseDate, strconv.Itoa(album.TotalTracks), album.ID,
					})
				}

				return appendRows(table, rows)
			})
		},
	}

	cmd.Flags().StringSliceVar(&opts.Groups, "include-groups", nil, "album groups (album, single, compilation, appears_on)")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "maximum number of albums")

	return cmd
}

// NewAlbumCommand creates the album command group.
func NewAlbumCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "album",
		Aliases: []string{"albums"},
		Short:   "Look up albums",
		Long:    "Show albums and their tracks",
	}

	cmd.AddCommand(newAlbumGetCommand())
	cmd.AddCommand(newAlbumTracksCommand())

	return cmd
}

func newAlbumGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ALBUM_ID",
		Short: "Get album details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			album, err := client.Albums().Get(ctx, args[0], marketParams(0))
			if err != nil {
				return fmt.Errorf("failed to get album: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), album, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")

				return appendRows(table, [][]string{
					{"Name", album.Name},
					{"Artists", artistNames(album.Artists)},
					{"Type", album.AlbumType.String()},
					{"Released", album.ReleaseDate},
					{"Label", orNotAvailable(album.Label)},
					{"Tracks", strconv.Itoa(album.TotalTracks)},
					{"ID", album.ID},
				})
			})
		},
	}
}

func newAlbumTracksCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tracks ALBUM_ID",
		Short: "List an album's tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			page, err := client.Albums().Tracks(ctx, args[0], marketParams(limit))
			if err != nil {
				return fmt.Errorf("failed to list album tracks: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), page, func(table *tablewriter.Table) error {
				table.Header("#", "Name", "Artists", "Duration", "ID")

				rows := make([][]string, 0, len(page.Items))
				for _, track := range page.Items {
					rows = append(rows, []string{
						strconv.Itoa(track.TrackNumber), track.Name, artistNames(track.Artists), formatDuration(track.DurationMs), track.ID,
					})
				}

				return appendRows(table, rows)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "maximum number of tracks")

	return cmd
}

// NewTrackCommand creates the track command group.
func NewTrackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "track",
		Aliases: []string{"tracks"},
		Short:   "Look up tracks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get TRACK_ID...",
		Short: "Get one or more tracks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			if len(args) == 1 {
				track, err := client.Tracks().Get(ctx, args[0], marketParams(0))
				if err != nil {
					return fmt.Errorf("failed to get track: %w", err)
				}

				return renderTracks(cmd, []spotify.Track{*track})
			}

			tracks, err := client.Tracks().GetSeveral(ctx, args, marketParams(0))
			if err != nil {
				return fmt.Errorf("failed to get tracks: %w", err)
			}

			found := make([]spotify.Track, 0, len(tracks))
			for _, track := range tracks {
				if track != nil {
					found = append(found, *track)
				}
			}

			return renderTracks(cmd, found)
		},
	})

	return cmd
}

const defaultMarket = "US"

func renderTracks(cmd *cobra.Command, tracks []spotify.Track) error {
	return renderOutput(cmd.OutOrStdout(), tracks, func(table *tablewriter.Table) error {
		table.Header("Name", "Artists", "Album", "Duration", "ID")

		rows := make([][]string, 0, len(tracks))
		for _, track := range tracks {
			rows = append(rows, []string{
				track.Name, artistNames(track.Artists), track.Album.Name, formatDuration(track.DurationMs), track.ID,
			})
		}

		return appendRows(table, rows)
	})
}
