package spotify

// vocabulary is a closed set of string-keyed values. The forward table and
// reverse lookup are built once at package initialization and never mutated.
type vocabulary[T ~string] struct {
	name    string
	values  []T
	members map[string]T
}

func newVocabulary[T ~string](name string, values ...T) *vocabulary[T] {
	members := make(map[string]T, len(values))
	for _, v := range values {
		if _, dup := members[string(v)]; dup {
			panic("spotify: duplicate " + name + " member " + string(v))
		}

		members[string(v)] = v
	}

	return &vocabulary[T]{name: name, values: values, members: members}
}

func (v *vocabulary[T]) parse(s string) (T, error) {
	member, ok := v.members[s]
	if !ok {
		var zero T

		return zero, &EnumError{Type: v.name, Value: s}
	}

	return member, nil
}

func (v *vocabulary[T]) all() []T {
	out := make([]T, len(v.values))
	copy(out, v.values)

	return out
}

// AlbumType - 'album', 'single', 'appears_on', 'compilation'.
type AlbumType string

const (
	AlbumTypeAlbum       AlbumType = "album"
	AlbumTypeSingle      AlbumType = "single"
	AlbumTypeAppearsOn   AlbumType = "appears_on"
	AlbumTypeCompilation AlbumType = "compilation"
)

var albumTypes = newVocabulary("AlbumType",
	AlbumTypeAlbum, AlbumTypeSingle, AlbumTypeAppearsOn, AlbumTypeCompilation)

// ParseAlbumType returns the AlbumType spelled s.
func ParseAlbumType(s string) (AlbumType, error) { return albumTypes.parse(s) }

// AlbumTypeValues returns every AlbumType.
func AlbumTypeValues() []AlbumType { return albumTypes.all() }

func (t AlbumType) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t AlbumType) MarshalText() ([]byte, error) { return marshalMember(albumTypes, t) }

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown values.
func (t *AlbumType) UnmarshalText(b []byte) error { return unmarshalMember(albumTypes, t, b) }

// Type is the object type of a Web API resource.
type Type string

const (
	TypeArtist   Type = "artist"
	TypeAlbum    Type = "album"
	TypeTrack    Type = "track"
	TypePlaylist Type = "playlist"
	TypeUser     Type = "user"
	TypeShow     Type = "show"
	TypeEpisode  Type = "episode"
)

var objectTypes = newVocabulary("Type",
	TypeArtist, TypeAlbum, TypeTrack, TypePlaylist, TypeUser, TypeShow, TypeEpisode)

// ParseType returns the Type spelled s.
func ParseType(s string) (Type, error) { return objectTypes.parse(s) }

// TypeValues returns every Type.
func TypeValues() []Type { return objectTypes.all() }

func (t Type) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) { return marshalMember(objectTypes, t) }

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown values.
func (t *Type) UnmarshalText(b []byte) error { return unmarshalMember(objectTypes, t, b) }

// AdditionalType lists item types a client supports besides tracks.
type AdditionalType string

const (
	AdditionalTypeTrack   AdditionalType = "track"
	AdditionalTypeEpisode AdditionalType = "episode"
)

var additionalTypes = newVocabulary("AdditionalType", AdditionalTypeTrack, AdditionalTypeEpisode)

// ParseAdditionalType returns the AdditionalType spelled s.
func ParseAdditionalType(s string) (AdditionalType, error) { return additionalTypes.parse(s) }

// AdditionalTypeValues returns every AdditionalType.
func AdditionalTypeValues() []AdditionalType { return additionalTypes.all() }

func (t AdditionalType) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t AdditionalType) MarshalText() ([]byte, error) { return marshalMember(additionalTypes, t) }

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown values.
func (t *AdditionalType) UnmarshalText(b []byte) error {
	return unmarshalMember(additionalTypes, t, b)
}

// CurrentlyPlayingType is the kind of item a player is playing.
type CurrentlyPlayingType string

const (
	CurrentlyPlayingTypeTrack         CurrentlyPlayingType = "track"
	CurrentlyPlayingTypeEpisode       CurrentlyPlayingType = "episode"
	CurrentlyPlayingTypeAdvertisement CurrentlyPlayingType = "ad"
	CurrentlyPlayingTypeUnknown       CurrentlyPlayingType = "unknown"
)

var currentlyPlayingTypes = newVocabulary("CurrentlyPlayingType",
	CurrentlyPlayingTypeTrack, CurrentlyPlayingTypeEpisode,
	CurrentlyPlayingTypeAdvertisement, CurrentlyPlayingTypeUnknown)

// ParseCurrentlyPlayingType returns the CurrentlyPlayingType spelled s.
func ParseCurrentlyPlayingType(s string) (CurrentlyPlayingType, error) {
	return currentlyPlayingTypes.parse(s)
}

// CurrentlyPlayingTypeValues returns every CurrentlyPlayingType.
func CurrentlyPlayingTypeValues() []CurrentlyPlayingType { return currentlyPlayingTypes.all() }

func (t CurrentlyPlayingType) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t CurrentlyPlayingType) MarshalText() ([]byte, error) {
	return marshalMember(currentlyPlayingTypes, t)
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown values.
func (t *CurrentlyPlayingType) UnmarshalText(b []byte) error {
	return unmarshalMember(currentlyPlayingTypes, t, b)
}

// SearchType is an item type accepted by the search endpoint.
type SearchType string

const (
	SearchTypeArtist   SearchType = "artist"
	SearchTypeAlbum    SearchType = "album"
	SearchTypeTrack    SearchType = "track"
	SearchTypePlaylist SearchType = "playlist"
	SearchTypeShow     SearchType = "show"
	SearchTypeEpisode  SearchType = "episode"
)

var searchTypes = newVocabulary("SearchType",
	SearchTypeArtist, SearchTypeAlbum, SearchTypeTrack,
	SearchTypePlaylist, SearchTypeShow, SearchTypeEpisode)

// ParseSearchType returns the SearchType spelled s.
func ParseSearchType(s string) (SearchType, error) { return searchTypes.parse(s) }

// SearchTypeValues returns every SearchType.
func SearchTypeValues() []SearchType { return searchTypes.all() }

func (t SearchType) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t SearchType) MarshalText() ([]byte, error) { return marshalMember(searchTypes, t) }

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown values.
func (t *SearchType) UnmarshalText(b []byte) error { return unmarshalMember(searchTypes, t, b) }

// DeviceType is the kind of a Connect device. Values use the Web API spelling.
type DeviceType string

const (
	DeviceTypeComputer    DeviceType = "Computer"
	DeviceTypeTablet      DeviceType = "Tablet"
	DeviceTypeSmartphone  DeviceType = "Smartphone"
	DeviceTypeSpeaker     DeviceType = "Speaker"
	DeviceTypeTV          DeviceType = "TV"
	DeviceTypeAVR         DeviceType = "AVR"
	DeviceTypeSTB         DeviceType = "STB"
	DeviceTypeAudioDongle DeviceType = "AudioDongle"
	DeviceTypeGameConsole DeviceType = "GameConsole"
	DeviceTypeCastVideo   DeviceType = "CastVideo"
	DeviceTypeCastAudio   DeviceType = "CastAudio"
	DeviceTypeAutomobile  DeviceType = "Automobile"
	DeviceTypeUnknown     DeviceType = "Unknown"
)

var deviceTypes = newVocabulary("DeviceType",
	DeviceTypeComputer, DeviceTypeTablet, DeviceTypeSmartphone, DeviceTypeSpeaker,
	DeviceTypeTV, DeviceTypeAVR, DeviceTypeSTB, DeviceTypeAudioDongle,
	DeviceTypeGameConsole, DeviceTypeCastVideo, DeviceTypeCastAudio,
	DeviceTypeAutomobile, DeviceTypeUnknown)

// ParseDeviceType returns the DeviceType spelled s.
func ParseDeviceType(s string) (DeviceType, error) { return deviceTypes.parse(s) }

// DeviceTypeValues returns every DeviceType.
func DeviceTypeValues() []DeviceType { return deviceTypes.all() }

func (t DeviceType) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t DeviceType) MarshalText() ([]byte, error) { return marshalMember(deviceTypes, t) }

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown values.
func (t *DeviceType) UnmarshalText(b []byte) error { return unmarshalMember(deviceTypes, t, b) }

// RepeatState is the repeat mode of a player.
type RepeatState string

const (
	RepeatStateTrack   RepeatState = "track"
	RepeatStateContext RepeatState = "context"
	RepeatStateOff     RepeatState = "off"
)

var repeatStates = newVocabulary("RepeatState", RepeatStateTrack, RepeatStateContext, RepeatStateOff)

// ParseRepeatState returns the RepeatState spelled s.
func ParseRepeatState(s string) (RepeatState, error) { return repeatStates.parse(s) }

// RepeatStateValues returns every RepeatState.
func RepeatStateValues() []RepeatState { return repeatStates.all() }

func (t RepeatState) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t RepeatState) MarshalText() ([]byte, error) { return marshalMember(repeatStates, t) }

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown values.
func (t *RepeatState) UnmarshalText(b []byte) error { return unmarshalMember(repeatStates, t, b) }

// TimeRange is the period a user's top items are computed over.
type TimeRange string

const (
	TimeRangeLongTerm   TimeRange = "long_term"
	TimeRangeMediumTerm TimeRange = "medium_term"
	TimeRangeShortTerm  TimeRange = "short_term"
)

var timeRanges = newVocabulary("TimeRange", TimeRangeLongTerm, TimeRangeMediumTerm, TimeRangeShortTerm)

// ParseTimeRange returns the TimeRange spelled s.
func ParseTimeRange(s string) (TimeRange, error) { return timeRanges.parse(s) }

// TimeRangeValues returns every TimeRange.
func TimeRangeValues() []TimeRange { return timeRanges.all() }

func (t TimeRange) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t TimeRange) MarshalText() ([]byte, error) { return marshalMember(timeRanges, t) }

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown values.
func (t *TimeRange) UnmarshalText(b []byte) error { return unmarshalMember(timeRanges, t, b) }

// marshalMember and unmarshalMember let the zero value through so that models
// with absent fields survive a round trip. Every other value must be a member.
func marshalMember[T ~string](v *vocabulary[T], member T) ([]byte, error) {
	if member == "" {
		return []byte{}, nil
	}

	if _, err := v.parse(string(member)); err != nil {
		return nil, err
	}

	return []byte(member), nil
}

func unmarshalMember[T ~string](v *vocabulary[T], dst *T, b []byte) error {
	if len(b) == 0 {
		*dst = ""

		return nil
	}

	member, err := v.parse(string(b))
	if err != nil {
		return err
	}

	*dst = member

	return nil
}

// joinMembers renders a list of vocabulary members as the comma separated
// form the Web API expects in query strings.
func joinMembers[T ~string](members []T) string {
	out := make([]byte, 0, len(members)*8)

	for i, m := range members {
		if i > 0 {
			out = append(out, ',')
		}

		out = append(out, m...)
	}

	return string(out)
}
