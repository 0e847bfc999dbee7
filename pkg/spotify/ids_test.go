package spotify_test

import (
	"testing"

	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    spotify.Type
		input   string
		id      string
		wantErr error
	}{
		{"bare id", spotify.TypeTrack, "4iV5W9uYEdYUVa79Axb7Rh", "4iV5W9uYEdYUVa79Axb7Rh", nil},
		{"uri", spotify.TypeArtist, "spotify:artist:0TnOYISbd1XYRBk9myaseg", "0TnOYISbd1XYRBk9myaseg", nil},
		{"url", spotify.TypeAlbum, "https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy?si=abc", "4aawyAB9vmqN3uQ7FjRGTy", nil},
		{"localized url", spotify.TypeTrack, "https://open.spotify.com/intl-de/track/4iV5W9uYEdYUVa79Axb7Rh", "4iV5W9uYEdYUVa79Axb7Rh", nil},
		{"legacy playlist uri", spotify.TypePlaylist, "spotify:user:someone:playlist:37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", nil},
		{"user ids are free form", spotify.TypeUser, "smedjan.user-1", "smedjan.user-1", nil},
		{"surrounding space", spotify.TypeTrack, "  4iV5W9uYEdYUVa79Axb7Rh ", "4iV5W9uYEdYUVa79Axb7Rh", nil},
		{"wrong type uri", spotify.TypeTrack, "spotify:album:4aawyAB9vmqN3uQ7FjRGTy", "", spotify.ErrWrongIDType},
		{"wrong type url", spotify.TypeArtist, "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh", "", spotify.ErrWrongIDType},
		{"unknown type", spotify.TypeTrack, "spotify:podcast:abc", "", spotify.ErrInvalidID},
		{"empty", spotify.TypeTrack, "", "", spotify.ErrInvalidID},
		{"not base62", spotify.TypeTrack, "abc-def", "", spotify.ErrInvalidID},
		{"dot segment user", spotify.TypeUser, "..", "", spotify.ErrInvalidID},
		{"dot user uri", spotify.TypeUser, "spotify:user:.", "", spotify.ErrInvalidID},
		{"malformed uri", spotify.TypeTrack, "spotify:track", "", spotify.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, err := spotify.ParseID(tt.want, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestParseIDs(t *testing.T) {
	t.Parallel()

	ids, err := spotify.ParseIDs(spotify.TypeTrack, []string{
		"spotify:track:4iV5W9uYEdYUVa79Axb7Rh",
		"1301WleyT98MSxVHPZCA6M",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"4iV5W9uYEdYUVa79Axb7Rh", "1301WleyT98MSxVHPZCA6M"}, ids)

	_, err = spotify.ParseIDs(spotify.TypeTrack, []string{"spotify:album:4aawyAB9vmqN3uQ7FjRGTy"})
	require.ErrorIs(t, err, spotify.ErrWrongIDType)
}

func TestURI(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "spotify:track:4iV5W9uYEdYUVa79Axb7Rh", spotify.URI(spotify.TypeTrack, "4iV5W9uYEdYUVa79Axb7Rh"))
}
