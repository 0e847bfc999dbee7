// Package spotify provides types, interfaces, and helpers for working with the
// Spotify Web API.
//
// # Overview
//
// The spotify package defines the domain models (Album, Artist, Track,
// Playlist, Device), the closed vocabularies the API uses (AlbumType,
// SearchType, DeviceType and friends), the error taxonomy, and the interfaces
// for resource-oriented clients (AlbumsClient, PlayerClient, ...). A concrete
// implementation is provided by the spotifyclient package, which wires
// configuration, token management and the HTTP backend.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/spotify-client/pkg/spotify"
//	  "github.com/fivetwenty-io/spotify-client/pkg/spotifyclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := spotifyclient.New(ctx, &spotify.Config{
//	    ClientID:     "...",
//	    ClientSecret: "...",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  tracks, err := cli.Artists().TopTracks(ctx, "0TnOYISbd1XYRBk9myaseg", "US")
//	  if err != nil { log.Fatal(err) }
//	  _ = tracks
//	}
//
// # Errors
//
// Every failure is one of four kinds: StatusCodeError (the service answered
// with a non-2xx status), TransportError (the request did not complete),
// SerializationError (a payload could not be encoded or decoded) and EnumError
// (a string is not a member of a vocabulary; matches ErrNoEnum). KindOf
// classifies an error; IsNotFound, IsUnauthorized, IsForbidden and
// IsRateLimited branch on common statuses.
//
// # Vocabularies
//
// Each vocabulary is a string type with a fixed member set. ParseX converts a
// wire string and fails with an EnumError for anything else; String and
// MarshalText return the wire string; UnmarshalText is strict, so decoding a
// model containing an unknown member fails.
package spotify
