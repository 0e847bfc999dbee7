package spotify

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	uriPrefix    = "spotify:"
	openHost     = "open.spotify.com"
	maxIDLength  = 62
	base62Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// ParseID extracts the bare id of a resource of type want from s. It accepts
// a bare id, a "spotify:<type>:<id>" URI or an open.spotify.com URL. A URI or
// URL naming another type fails with ErrWrongIDType.
//
// User ids are not base62 and are accepted as-is when want is TypeUser.
func ParseID(want Type, s string) (string, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, uriPrefix):
		return parseURI(want, s)
	case strings.HasPrefix(s, "https://"+openHost+"/"), strings.HasPrefix(s, "http://"+openHost+"/"):
		return parseOpenURL(want, s)
	default:
		return checkID(want, s)
	}
}

// URI renders the canonical "spotify:<type>:<id>" form of id.
func URI(t Type, id string) string {
	return uriPrefix + string(t) + ":" + id
}

// ParseIDs applies ParseID to every element of ids.
func ParseIDs(want Type, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))

	for _, raw := range ids {
		id, err := ParseID(want, raw)
		if err != nil {
			return nil, err
		}

		out = append(out, id)
	}

	return out, nil
}

func parseURI(want Type, s string) (string, error) {
	parts := strings.Split(strings.TrimPrefix(s, uriPrefix), ":")

	// spotify:user:<owner>:playlist:<id> is the legacy playlist form.
	if len(parts) == 4 && parts[0] == string(TypeUser) && parts[2] == string(TypePlaylist) {
		parts = parts[2:]
	}

	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	return matchType(want, parts[0], parts[1], s)
}

func parseOpenURL(want Type, s string) (string, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")

	// Localized links look like /intl-de/track/<id>.
	if len(segments) > 0 && strings.HasPrefix(segments[0], "intl-") {
		segments = segments[1:]
	}

	if len(segments) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	return matchType(want, segments[0], segments[1], s)
}

func matchType(want Type, gotType, id, raw string) (string, error) {
	got, err := ParseType(gotType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}

	if got != want {
		return "", fmt.Errorf("%w: want %s, got %s", ErrWrongIDType, want, got)
	}

	return checkID(want, id)
}

func checkID(want Type, id string) (string, error) {
	if id == "" || id == "." || id == ".." || len(id) > maxIDLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	if want == TypeUser {
		return id, nil
	}

	for _, r := range id {
		if !strings.ContainsRune(base62Digits, r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}

	return id, nil
}
