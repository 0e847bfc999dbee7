package spotify

import (
	"encoding/json"
	"time"
)

// Image is a cover art or profile picture in one resolution.
type Image struct {
	URL    string `json:"url"              yaml:"url"`
	Height *int   `json:"height,omitempty" yaml:"height,omitempty"`
	Width  *int   `json:"width,omitempty"  yaml:"width,omitempty"`
}

// Followers reports how many users follow an artist, playlist or user.
type Followers struct {
	Href  *string `json:"href"  yaml:"href"`
	Total int     `json:"total" yaml:"total"`
}

// ExternalURLs maps a service name to a URL on that service.
type ExternalURLs map[string]string

// ExternalIDs maps an id system (isrc, ean, upc) to an id.
type ExternalIDs map[string]string

// Restrictions explains why content is unavailable, e.g. "market" or "explicit".
type Restrictions struct {
	Reason string `json:"reason" yaml:"reason"`
}

// Copyright is a copyright statement attached to an album.
type Copyright struct {
	Text string `json:"text" yaml:"text"`
	Type string `json:"type" yaml:"type"`
}

// Page is one page of a paged collection. Paging is passed through as
// returned by the service.
type Page[T any] struct {
	Href     string  `json:"href"     yaml:"href"`
	Items    []T     `json:"items"    yaml:"items"`
	Limit    int     `json:"limit"    yaml:"limit"`
	Next     *string `json:"next"     yaml:"next"`
	Offset   int     `json:"offset"   yaml:"offset"`
	Previous *string `json:"previous" yaml:"previous"`
	Total    int     `json:"total"    yaml:"total"`
}

// Cursor points at a position in a cursor-paged collection.
type Cursor struct {
	After  *string `json:"after,omitempty"  yaml:"after,omitempty"`
	Before *string `json:"before,omitempty" yaml:"before,omitempty"`
}

// CursorPage is one page of a cursor-paged collection.
type CursorPage[T any] struct {
	Href    string  `json:"href"            yaml:"href"`
	Items   []T     `json:"items"           yaml:"items"`
	Limit   int     `json:"limit"           yaml:"limit"`
	Next    *string `json:"next"            yaml:"next"`
	Cursors Cursor  `json:"cursors"         yaml:"cursors"`
	Total   *int    `json:"total,omitempty" yaml:"total,omitempty"`
}

// SimplifiedArtist is the artist object embedded in albums and tracks.
type SimplifiedArtist struct {
	ExternalURLs ExternalURLs `json:"external_urls" yaml:"external_urls"`
	Href         string       `json:"href"          yaml:"href"`
	ID           string       `json:"id"            yaml:"id"`
	Name         string       `json:"name"          yaml:"name"`
	Type         Type         `json:"type"          yaml:"type"`
	URI          string       `json:"uri"           yaml:"uri"`
}

// Artist is the full artist object.
type Artist struct {
	SimplifiedArtist `yaml:",inline"`

	Followers  Followers `json:"followers"  yaml:"followers"`
	Genres     []string  `json:"genres"     yaml:"genres"`
	Images     []Image   `json:"images"     yaml:"images"`
	Popularity int       `json:"popularity" yaml:"popularity"`
}

// SimplifiedAlbum is the album object embedded in tracks and listings.
type SimplifiedAlbum struct {
	AlbumType            AlbumType          `json:"album_type"                       yaml:"album_type"`
	AlbumGroup           string             `json:"album_group,omitempty"            yaml:"album_group,omitempty"`
	TotalTracks          int                `json:"total_tracks"                     yaml:"total_tracks"`
	AvailableMarkets     []string           `json:"available_markets,omitempty"      yaml:"available_markets,omitempty"`
	ExternalURLs         ExternalURLs       `json:"external_urls"                    yaml:"external_urls"`
	Href                 string             `json:"href"                             yaml:"href"`
	ID                   string             `json:"id"                               yaml:"id"`
	Images               []Image            `json:"images"                           yaml:"images"`
	Name                 string             `json:"name"                             yaml:"name"`
	ReleaseDate          string             `json:"release_date"                     yaml:"release_date"`
	ReleaseDatePrecision string             `json:"release_date_precision"           yaml:"release_date_precision"`
	Restrictions         *Restrictions      `json:"restrictions,omitempty"           yaml:"restrictions,omitempty"`
	Type                 Type               `json:"type"                             yaml:"type"`
	URI                  string             `json:"uri"                              yaml:"uri"`
	Artists              []SimplifiedArtist `json:"artists"                          yaml:"artists"`
}

// Album is the full album object.
type Album struct {
	SimplifiedAlbum `yaml:",inline"`

	Tracks      Page[SimplifiedTrack] `json:"tracks"       yaml:"tracks"`
	Copyrights  []Copyright           `json:"copyrights"   yaml:"copyrights"`
	ExternalIDs ExternalIDs           `json:"external_ids" yaml:"external_ids"`
	Genres      []string              `json:"genres"       yaml:"genres"`
	Label       string                `json:"label"        yaml:"label"`
	Popularity  int                   `json:"popularity"   yaml:"popularity"`
}

// SavedAlbum is an album in the user's library.
type SavedAlbum struct {
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
	Album   Album     `json:"album"    yaml:"album"`
}

// SimplifiedTrack is the track object embedded in albums.
type SimplifiedTrack struct {
	Artists          []SimplifiedArtist `json:"artists"                     yaml:"artists"`
	AvailableMarkets []string           `json:"available_markets,omitempty" yaml:"available_markets,omitempty"`
	DiscNumber       int                `json:"disc_number"                 yaml:"disc_number"`
	DurationMs       int                `json:"duration_ms"                 yaml:"duration_ms"`
	Explicit         bool               `json:"explicit"                    yaml:"explicit"`
	ExternalURLs     ExternalURLs       `json:"external_urls"               yaml:"external_urls"`
	Href             string             `json:"href"                        yaml:"href"`
	ID               string             `json:"id"                          yaml:"id"`
	IsPlayable       *bool              `json:"is_playable,omitempty"       yaml:"is_playable,omitempty"`
	Restrictions     *Restrictions      `json:"restrictions,omitempty"      yaml:"restrictions,omitempty"`
	Name             string             `json:"name"                        yaml:"name"`
	PreviewURL       *string            `json:"preview_url"                 yaml:"preview_url"`
	TrackNumber      int                `json:"track_number"                yaml:"track_number"`
	Type             Type               `json:"type"                        yaml:"type"`
	URI              string             `json:"uri"                         yaml:"uri"`
	IsLocal          bool               `json:"is_local"                    yaml:"is_local"`
}

// Duration returns the track length.
func (t SimplifiedTrack) Duration() time.Duration {
	return time.Duration(t.DurationMs) * time.Millisecond
}

// Track is the full track object.
type Track struct {
	SimplifiedTrack `yaml:",inline"`

	Album       SimplifiedAlbum `json:"album"        yaml:"album"`
	ExternalIDs ExternalIDs     `json:"external_ids" yaml:"external_ids"`
	Popularity  int             `json:"popularity"   yaml:"popularity"`
}

// SavedTrack is a track in the user's library.
type SavedTrack struct {
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
	Track   Track     `json:"track"    yaml:"track"`
}

// Episode is a podcast episode as it appears in playlists and the player.
type Episode struct {
	Description  string       `json:"description"   yaml:"description"`
	DurationMs   int          `json:"duration_ms"   yaml:"duration_ms"`
	Explicit     bool         `json:"explicit"      yaml:"explicit"`
	ExternalURLs ExternalURLs `json:"external_urls" yaml:"external_urls"`
	Href         string       `json:"href"          yaml:"href"`
	ID           string       `json:"id"            yaml:"id"`
	Images       []Image      `json:"images"        yaml:"images"`
	Name         string       `json:"name"          yaml:"name"`
	ReleaseDate  string       `json:"release_date"  yaml:"release_date"`
	Type         Type         `json:"type"          yaml:"type"`
	URI          string       `json:"uri"           yaml:"uri"`
}

// PlayableItem is either a Track or an Episode. Exactly one field is set
// after decoding; the item's "type" field selects which.
type PlayableItem struct {
	Track   *Track
	Episode *Episode
}

// UnmarshalJSON decodes a track or an episode depending on its type.
func (p *PlayableItem) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}

	err := json.Unmarshal(data, &probe)
	if err != nil {
		return err
	}

	if probe.Type == string(TypeEpisode) {
		p.Episode = &Episode{}

		return json.Unmarshal(data, p.Episode)
	}

	p.Track = &Track{}

	return json.Unmarshal(data, p.Track)
}

// MarshalJSON encodes whichever item is set.
func (p PlayableItem) MarshalJSON() ([]byte, error) {
	if p.Episode != nil {
		return json.Marshal(p.Episode)
	}

	return json.Marshal(p.Track)
}

// MarshalYAML encodes whichever item is set.
func (p PlayableItem) MarshalYAML() (interface{}, error) {
	if p.Episode != nil {
		return p.Episode, nil
	}

	return p.Track, nil
}

// Name returns the item's display name.
func (p PlayableItem) Name() string {
	switch {
	case p.Track != nil:
		return p.Track.Name
	case p.Episode != nil:
		return p.Episode.Name
	default:
		return ""
	}
}

// URI returns the item's URI.
func (p PlayableItem) URI() string {
	switch {
	case p.Track != nil:
		return p.Track.URI
	case p.Episode != nil:
		return p.Episode.URI
	default:
		return ""
	}
}

// PublicUser is the public profile of a user.
type PublicUser struct {
	DisplayName  *string      `json:"display_name"        yaml:"display_name"`
	ExternalURLs ExternalURLs `json:"external_urls"       yaml:"external_urls"`
	Followers    *Followers   `json:"followers,omitempty" yaml:"followers,omitempty"`
	Href         string       `json:"href"                yaml:"href"`
	ID           string       `json:"id"                  yaml:"id"`
	Images       []Image      `json:"images,omitempty"    yaml:"images,omitempty"`
	Type         Type         `json:"type"                yaml:"type"`
	URI          string       `json:"uri"                 yaml:"uri"`
}

// ExplicitContent holds the user's explicit content settings.
type ExplicitContent struct {
	FilterEnabled bool `json:"filter_enabled" yaml:"filter_enabled"`
	FilterLocked  bool `json:"filter_locked"  yaml:"filter_locked"`
}

// PrivateUser is the profile of the current user.
type PrivateUser struct {
	PublicUser `yaml:",inline"`

	Country         string           `json:"country,omitempty"          yaml:"country,omitempty"`
	Email           string           `json:"email,omitempty"            yaml:"email,omitempty"`
	ExplicitContent *ExplicitContent `json:"explicit_content,omitempty" yaml:"explicit_content,omitempty"`
	Product         string           `json:"product,omitempty"          yaml:"product,omitempty"`
}

// PlaylistTracksRef is the link to a playlist's items as embedded in listings.
type PlaylistTracksRef struct {
	Href  string `json:"href"  yaml:"href"`
	Total int    `json:"total" yaml:"total"`
}

// SimplifiedPlaylist is the playlist object returned in listings.
type SimplifiedPlaylist struct {
	Collaborative bool              `json:"collaborative" yaml:"collaborative"`
	Description   *string           `json:"description"   yaml:"description"`
	ExternalURLs  ExternalURLs      `json:"external_urls" yaml:"external_urls"`
	Href          string            `json:"href"          yaml:"href"`
	ID            string            `json:"id"            yaml:"id"`
	Images        []Image           `json:"images"        yaml:"images"`
	Name          string            `json:"name"          yaml:"name"`
	Owner         PublicUser        `json:"owner"         yaml:"owner"`
	Public        *bool             `json:"public"        yaml:"public"`
	SnapshotID    string            `json:"snapshot_id"   yaml:"snapshot_id"`
	Tracks        PlaylistTracksRef `json:"tracks"        yaml:"tracks"`
	Type          Type              `json:"type"          yaml:"type"`
	URI           string            `json:"uri"           yaml:"uri"`
}

// PlaylistItem is one entry of a playlist.
type PlaylistItem struct {
	AddedAt *time.Time    `json:"added_at" yaml:"added_at"`
	AddedBy *PublicUser   `json:"added_by" yaml:"added_by"`
	IsLocal bool          `json:"is_local" yaml:"is_local"`
	Track   *PlayableItem `json:"track"    yaml:"track"`
}

// Playlist is the full playlist object.
type Playlist struct {
	Collaborative bool               `json:"collaborative" yaml:"collaborative"`
	Description   *string            `json:"description"   yaml:"description"`
	ExternalURLs  ExternalURLs       `json:"external_urls" yaml:"external_urls"`
	Followers     Followers          `json:"followers"     yaml:"followers"`
	Href          string             `json:"href"          yaml:"href"`
	ID            string             `json:"id"            yaml:"id"`
	Images        []Image            `json:"images"        yaml:"images"`
	Name          string             `json:"name"          yaml:"name"`
	Owner         PublicUser         `json:"owner"         yaml:"owner"`
	Public        *bool              `json:"public"        yaml:"public"`
	SnapshotID    string             `json:"snapshot_id"   yaml:"snapshot_id"`
	Tracks        Page[PlaylistItem] `json:"tracks"        yaml:"tracks"`
	Type          Type               `json:"type"          yaml:"type"`
	URI           string             `json:"uri"           yaml:"uri"`
}

// PlaylistCreateRequest is the body for creating a playlist.
type PlaylistCreateRequest struct {
	Name          string  `json:"name"`
	Public        *bool   `json:"public,omitempty"`
	Collaborative *bool   `json:"collaborative,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// PlaylistUpdateRequest is the body for changing a playlist's details.
type PlaylistUpdateRequest struct {
	Name          *string `json:"name,omitempty"`
	Public        *bool   `json:"public,omitempty"`
	Collaborative *bool   `json:"collaborative,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// Snapshot identifies a playlist version after a modification.
type Snapshot struct {
	SnapshotID string `json:"snapshot_id" yaml:"snapshot_id"`
}

// Device is a Spotify Connect device.
type Device struct {
	ID               *string    `json:"id"                 yaml:"id"`
	IsActive         bool       `json:"is_active"          yaml:"is_active"`
	IsPrivateSession bool       `json:"is_private_session" yaml:"is_private_session"`
	IsRestricted     bool       `json:"is_restricted"      yaml:"is_restricted"`
	Name             string     `json:"name"               yaml:"name"`
	Type             DeviceType `json:"type"               yaml:"type"`
	VolumePercent    *int       `json:"volume_percent"     yaml:"volume_percent"`
	SupportsVolume   bool       `json:"supports_volume"    yaml:"supports_volume"`
}

// Context is the playlist, album or artist a player is playing from.
type Context struct {
	Type         Type         `json:"type"          yaml:"type"`
	Href         string       `json:"href"          yaml:"href"`
	ExternalURLs ExternalURLs `json:"external_urls" yaml:"external_urls"`
	URI          string       `json:"uri"           yaml:"uri"`
}

// Actions lists the playback actions currently disallowed.
type Actions struct {
	Disallows map[string]bool `json:"disallows" yaml:"disallows"`
}

// CurrentlyPlaying is the item playing on the user's active device.
type CurrentlyPlaying struct {
	Context              *Context             `json:"context"                yaml:"context"`
	Timestamp            int64                `json:"timestamp"              yaml:"timestamp"`
	ProgressMs           *int                 `json:"progress_ms"            yaml:"progress_ms"`
	IsPlaying            bool                 `json:"is_playing"             yaml:"is_playing"`
	Item                 *PlayableItem        `json:"item"                   yaml:"item"`
	CurrentlyPlayingType CurrentlyPlayingType `json:"currently_playing_type" yaml:"currently_playing_type"`
	Actions              *Actions             `json:"actions,omitempty"      yaml:"actions,omitempty"`
}

// PlaybackState is the full state of the user's player.
type PlaybackState struct {
	CurrentlyPlaying `yaml:",inline"`

	Device       Device      `json:"device"        yaml:"device"`
	RepeatState  RepeatState `json:"repeat_state"  yaml:"repeat_state"`
	ShuffleState bool        `json:"shuffle_state" yaml:"shuffle_state"`
}

// Offset selects where playback starts inside a context.
type Offset struct {
	Position *int   `json:"position,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// PlayOptions is the body for starting or resuming playback.
type PlayOptions struct {
	ContextURI string   `json:"context_uri,omitempty"`
	URIs       []string `json:"uris,omitempty"`
	Offset     *Offset  `json:"offset,omitempty"`
	PositionMs *int     `json:"position_ms,omitempty"`
}

// SearchResult holds one page per requested search type. Types that were not
// requested are nil.
type SearchResult struct {
	Artists   *Page[Artist]              `json:"artists,omitempty"   yaml:"artists,omitempty"`
	Albums    *Page[SimplifiedAlbum]     `json:"albums,omitempty"    yaml:"albums,omitempty"`
	Tracks    *Page[Track]               `json:"tracks,omitempty"    yaml:"tracks,omitempty"`
	Playlists *Page[*SimplifiedPlaylist] `json:"playlists,omitempty" yaml:"playlists,omitempty"`
	Shows     *Page[json.RawMessage]     `json:"shows,omitempty"     yaml:"-"`
	Episodes  *Page[*Episode]            `json:"episodes,omitempty"  yaml:"episodes,omitempty"`
}

// Category is a browse category.
type Category struct {
	Href  string  `json:"href"  yaml:"href"`
	Icons []Image `json:"icons" yaml:"icons"`
	ID    string  `json:"id"    yaml:"id"`
	Name  string  `json:"name"  yaml:"name"`
}

// FeaturedPlaylists is a message plus a page of editorial playlists.
type FeaturedPlaylists struct {
	Message   string                     `json:"message"   yaml:"message"`
	Playlists Page[*SimplifiedPlaylist] `json:"playlists" yaml:"playlists"`
}
