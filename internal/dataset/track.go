package dataset

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// Platform names a playlist-inclusion count column.
type Platform string

const (
	PlatformSpotify Platform = "in_spotify_playlists"
	PlatformApple   Platform = "in_apple_playlists"
	PlatformDeezer  Platform = "in_deezer_playlists"
)

var platformLabels = map[Platform]string{
	PlatformSpotify: "Spotify",
	PlatformApple:   "Apple",
	PlatformDeezer:  "Deezer",
}

// Platforms returns every supported platform in display order.
func Platforms() []Platform {
	return []Platform{PlatformSpotify, PlatformApple, PlatformDeezer}
}

// ParsePlatform accepts either the column name or the label, e.g.
// "in_apple_playlists" or "apple".
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms() {
		if s == string(p) || strings.EqualFold(s, platformLabels[p]) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}

func (p Platform) Label() string {
	if l, ok := platformLabels[p]; ok {
		return l
	}
	return string(p)
}

// Keys lists the pitch classes a track key may take.
var Keys = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Track is one song in the dataset.
type Track struct {
	TrackName   string
	ArtistName  string
	ArtistCount sql.NullInt64
	ReleaseDate time.Time
	Streams     sql.NullInt64
	Spotify     sql.NullInt64
	Apple       sql.NullInt64
	Deezer      sql.NullInt64

	// Empty when the key is absent.
	Key string
}

// Playlists returns the playlist count for the given platform.
func (t Track) Playlists(p Platform) sql.NullInt64 {
	switch p {
	case PlatformSpotify:
		return t.Spotify
	case PlatformApple:
		return t.Apple
	case PlatformDeezer:
		return t.Deezer
	}
	return sql.NullInt64{}
}

func validKey(k string) bool {
	for _, key := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
