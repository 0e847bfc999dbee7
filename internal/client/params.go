package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/spotify-client/internal/http"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// decode unmarshals resp into v, naming what in the error.
func decode(resp *http.Response, v interface{}, what string) error {
	err := http.DecodeJSON(resp, v)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", what, err)
	}

	return nil
}

// joinIDs parses ids as resources of type want and joins them for an ids
// query parameter, enforcing the endpoint's limit.
func joinIDs(want spotify.Type, ids []string, limit int) (string, error) {
	if len(ids) == 0 {
		return "", spotify.ErrEmptyIDs
	}

	if len(ids) > limit {
		return "", fmt.Errorf("%w: %d given, at most %d allowed", spotify.ErrTooManyIDs, len(ids), limit)
	}

	parsed, err := spotify.ParseIDs(want, ids)
	if err != nil {
		return "", err
	}

	return strings.Join(parsed, ","), nil
}

// itemURI normalizes a playable item reference. Track and episode URIs pass
// through; open.spotify.com URLs and bare ids are treated as tracks unless
// the URL names an episode.
func itemURI(ref string) (string, error) {
	for _, t := range []spotify.Type{spotify.TypeTrack, spotify.TypeEpisode} {
		id, err := spotify.ParseID(t, ref)
		if err == nil {
			return spotify.URI(t, id), nil
		}
	}

	return "", fmt.Errorf("%w: %q is not a track or episode", spotify.ErrInvalidID, ref)
}

func itemURIs(refs []string, limit int) ([]string, error) {
	if len(refs) == 0 {
		return nil, spotify.ErrEmptyIDs
	}

	if len(refs) > limit {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", spotify.ErrTooManyIDs, len(refs), limit)
	}

	uris := make([]string, 0, len(refs))

	for _, ref := range refs {
		uri, err := itemURI(ref)
		if err != nil {
			return nil, err
		}

		uris = append(uris, uri)
	}

	return uris, nil
}

// validSegment reports whether id can stand as one path segment. Dot
// segments would be collapsed when the URL is resolved.
func validSegment(id string) bool {
	return id != "" && id != "." && id != ".."
}

// withDevice adds device_id when one is given.
func withDevice(values url.Values, deviceID string) url.Values {
	if values == nil {
		values = url.Values{}
	}

	if deviceID != "" {
		values.Set("device_id", deviceID)
	}

	return values
}
