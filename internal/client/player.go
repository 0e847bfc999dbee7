package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

const maxVolumePercent = 100

// PlayerClient implements spotify.PlayerClient. Control calls target the
// active device unless deviceID is given.
type PlayerClient struct {
	httpClient *http.Client
}

// NewPlayerClient creates a new player client.
func NewPlayerClient(httpClient *http.Client) *PlayerClient {
	return &PlayerClient{
		httpClient: httpClient,
	}
}

// Devices implements spotify.PlayerClient.Devices.
func (c *PlayerClient) Devices(ctx context.Context) ([]spotify.Device, error) {
	resp, err := c.httpClient.Get(ctx, "/me/player/devices", nil)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	var result struct {
		Devices []spotify.Device `json:"devices"`
	}

	err = decode(resp, &result, "devices")
	if err != nil {
		return nil, err
	}

	return result.Devices, nil
}

// State implements spotify.PlayerClient.State. It returns nil when nothing
// is playing.
func (c *PlayerClient) State(ctx context.Context, params *spotify.QueryParams) (*spotify.PlaybackState, error) {
	resp, err := c.httpClient.Get(ctx, "/me/player", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting playback state: %w", err)
	}

	if resp.StatusCode == nethttp.StatusNoContent || len(resp.Body) == 0 {
		return nil, nil //nolint:nilnil // no active playback
	}

	var state spotify.PlaybackState

	err = decode(resp, &state, "playback state")
	if err != nil {
		return nil, err
	}

	return &state, nil
}

// CurrentlyPlaying implements spotify.PlayerClient.CurrentlyPlaying. It
// returns nil when nothing is playing.
func (c *PlayerClient) CurrentlyPlaying(ctx context.Context, params *spotify.QueryParams) (*spotify.CurrentlyPlaying, error) {
	resp, err := c.httpClient.Get(ctx, "/me/player/currently-playing", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting currently playing: %w", err)
	}

	if resp.StatusCode == nethttp.StatusNoContent || len(resp.Body) == 0 {
		return nil, nil //nolint:nilnil // no active playback
	}

	var playing spotify.CurrentlyPlaying

	err = decode(resp, &playing, "currently playing")
	if err != nil {
		return nil, err
	}

	return &playing, nil
}

// Play implements spotify.PlayerClient.Play. A nil options resumes playback.
func (c *PlayerClient) Play(ctx context.Context, deviceID string, options *spotify.PlayOptions) error {
	request := &http.Request{
		Method: nethttp.MethodPut,
		Path:   "/me/player/play",
		Query:  withDevice(nil, deviceID),
	}

	if options != nil {
		request.Body = options
	}

	_, err := c.httpClient.Do(ctx, request)
	if err != nil {
		return fmt.Errorf("starting playback: %w", err)
	}

	return nil
}

// Pause implements spotify.PlayerClient.Pause.
func (c *PlayerClient) Pause(ctx context.Context, deviceID string) error {
	return c.control(ctx, nethttp.MethodPut, "/me/player/pause", withDevice(nil, deviceID), "pausing playback")
}

// Next implements spotify.PlayerClient.Next.
func (c *PlayerClient) Next(ctx context.Context, deviceID string) error {
	return c.control(ctx, nethttp.MethodPost, "/me/player/next", withDevice(nil, deviceID), "skipping to next")
}

// Previous implements spotify.PlayerClient.Previous.
func (c *PlayerClient) Previous(ctx context.Context, deviceID string) error {
	return c.control(ctx, nethttp.MethodPost, "/me/player/previous", withDevice(nil, deviceID), "skipping to previous")
}

// Seek implements spotify.PlayerClient.Seek.
func (c *PlayerClient) Seek(ctx context.Context, position time.Duration, deviceID string) error {
	if position < 0 {
		return fmt.Errorf("seeking: %w", spotify.ErrInvalidPosition)
	}

	query := url.Values{"position_ms": {strconv.FormatInt(position.Milliseconds(), 10)}}

	return c.control(ctx, nethttp.MethodPut, "/me/player/seek", withDevice(query, deviceID), "seeking")
}

// Repeat implements spotify.PlayerClient.Repeat.
func (c *PlayerClient) Repeat(ctx context.Context, state spotify.RepeatState, deviceID string) error {
	parsed, err := spotify.ParseRepeatState(string(state))
	if err != nil {
		return fmt.Errorf("setting repeat mode: %w", err)
	}

	query := url.Values{"state": {parsed.String()}}

	return c.control(ctx, nethttp.MethodPut, "/me/player/repeat", withDevice(query, deviceID), "setting repeat mode")
}

// Shuffle implements spotify.PlayerClient.Shuffle.
func (c *PlayerClient) Shuffle(ctx context.Context, state bool, deviceID string) error {
	query := url.Values{"state": {strconv.FormatBool(state)}}

	return c.control(ctx, nethttp.MethodPut, "/me/player/shuffle", withDevice(query, deviceID), "setting shuffle")
}

// Volume implements spotify.PlayerClient.Volume.
func (c *PlayerClient) Volume(ctx context.Context, percent int, deviceID string) error {
	if percent < 0 || percent > maxVolumePercent {
		return fmt.Errorf("setting volume: %w", spotify.ErrInvalidVolume)
	}

	query := url.Values{"volume_percent": {strconv.Itoa(percent)}}

	return c.control(ctx, nethttp.MethodPut, "/me/player/volume", withDevice(query, deviceID), "setting volume")
}

// Transfer implements spotify.PlayerClient.Transfer.
func (c *PlayerClient) Transfer(ctx context.Context, deviceID string, play bool) error {
	if deviceID == "" {
		return fmt.Errorf("transferring playback: %w", spotify.ErrDeviceRequired)
	}

	body := struct {
		DeviceIDs []string `json:"device_ids"`
		Play      bool     `json:"play"`
	}{DeviceIDs: []string{deviceID}, Play: play}

	_, err := c.httpClient.Put(ctx, "/me/player", body)
	if err != nil {
		return fmt.Errorf("transferring playback: %w", err)
	}

	return nil
}

// AddToQueue implements spotify.PlayerClient.AddToQueue. Bare ids are taken
// as tracks.
func (c *PlayerClient) AddToQueue(ctx context.Context, uri string, deviceID string) error {
	item, err := itemURI(uri)
	if err != nil {
		return fmt.Errorf("adding to queue: %w", err)
	}

	query := url.Values{"uri": {item}}

	return c.control(ctx, nethttp.MethodPost, "/me/player/queue", withDevice(query, deviceID), "adding to queue")
}

func (c *PlayerClient) control(ctx context.Context, method, path string, query url.Values, action string) error {
	_, err := c.httpClient.Do(ctx, &http.Request{
		Method: method,
		Path:   path,
		Query:  query,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	return nil
}
