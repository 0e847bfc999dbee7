package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// NewDevicesCommand creates the devices command.
func NewDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List Spotify Connect devices",
		Long:  "List the devices available to the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			devices, err := client.Player().Devices(ctx)
			if err != nil {
				return fmt.Errorf("failed to list devices: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), devices, func(table *tablewriter.Table) error {
				table.Header("Name", "Type", "Active", "Volume", "ID")

				rows := make([][]string, 0, len(devices))
				for _, device := range devices {
					volume := constants.NotAvailable
					if device.VolumePercent != nil {
						volume = strconv.Itoa(*device.VolumePercent) + "%"
					}

					active := ""
					if device.IsActive {
						active = successColor.Sprint("● Active")
					}

					rows = append(rows, []string{
						device.Name, device.Type.String(), active, volume, valueOr(device.ID, constants.NotAvailable),
					})
				}

				return appendRows(table, rows)
			})
		},
	}
}

// NewNowPlayingCommand creates the now-playing command.
func NewNowPlayingCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "now-playing",
		Aliases: []string{"np"},
		Short:   "Show the currently playing item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			playing, err := client.Player().CurrentlyPlaying(ctx, marketParams(0).WithAdditionalTypes(spotify.AdditionalTypeEpisode))
			if err != nil {
				return fmt.Errorf("failed to get currently playing: %w", err)
			}

			if playing == nil || playing.Item == nil {
				_, _ = warnColor.Fprintln(cmd.ErrOrStderr(), ErrNothingPlaying.Error())

				return nil
			}

			return renderOutput(cmd.OutOrStdout(), playing, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")

				status := "Paused"
				if playing.IsPlaying {
					status = "Playing"
				}

				progress := constants.NotAvailable
				if playing.ProgressMs != nil {
					progress = formatDuration(*playing.ProgressMs)
				}

				rows := [][]string{
					{"Status", status},
					{"Name", playing.Item.Name()},
				}

				if track := playing.Item.Track; track != nil {
					rows = append(rows,
						[]string{"Artists", artistNames(track.Artists)},
						[]string{"Album", track.Album.Name},
						[]string{"Progress", progress + " / " + formatDuration(track.DurationMs)},
					)
				} else {
					rows = append(rows, []string{"Progress", progress})
				}

				rows = append(rows, []string{"URI", playing.Item.URI()})

				return appendRows(table, rows)
			})
		},
	}
}

// PlayerOptions holds the options shared by the player subcommands.
type PlayerOptions struct {
	DeviceID string
}

// NewPlayerCommand creates the player command group.
func NewPlayerCommand() *cobra.Command {
	var opts PlayerOptions

	cmd := &cobra.Command{
		Use:   "player",
		Short: "Control playback",
		Long:  "Start, pause and skip playback on the active or a given device. Requires a Premium account.",
	}

	cmd.PersistentFlags().StringVar(&opts.DeviceID, "device", "", "target device id (default: active device)")

	cmd.AddCommand(newPlayerPlayCommand(&opts))
	cmd.AddCommand(newPlayerControlCommand(&opts, "pause", "Pause playback", "Paused",
		func(player spotify.PlayerClient) controlFunc { return player.Pause }))
	cmd.AddCommand(newPlayerControlCommand(&opts, "next", "Skip to the next item", "Skipped to next",
		func(player spotify.PlayerClient) controlFunc { return player.Next }))
	cmd.AddCommand(newPlayerControlCommand(&opts, "previous", "Skip to the previous item", "Skipped to previous",
		func(player spotify.PlayerClient) controlFunc { return player.Previous }))

	return cmd
}

type controlFunc func(ctx context.Context, deviceID string) error

func newPlayerControlCommand(
	opts *PlayerOptions,
	use, short, done string,
	action func(spotify.PlayerClient) controlFunc,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			err = action(client.Player())(ctx, opts.DeviceID)
			if err != nil {
				return fmt.Errorf("failed to %s: %w", use, err)
			}

			printSuccess(cmd, "%s", done)

			return nil
		},
	}
}

func newPlayerPlayCommand(opts *PlayerOptions) *cobra.Command {
	var contextURI string

	cmd := &cobra.Command{
		Use:   "play [TRACK_URI...]",
		Short: "Start or resume playback",
		Long:  "Resume playback, or play the given tracks or a --context album, artist or playlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			var options *spotify.PlayOptions
			if contextURI != "" || len(args) > 0 {
				options = &spotify.PlayOptions{ContextURI: contextURI, URIs: args}
			}

			err = client.Player().Play(ctx, opts.DeviceID, options)
			if err != nil {
				return fmt.Errorf("failed to play: %w", err)
			}

			printSuccess(cmd, "Playing")

			return nil
		},
	}

	cmd.Flags().StringVar(&contextURI, "context", "", "album, artist or playlist URI to play")

	return cmd
}
