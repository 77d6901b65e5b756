package dataset

import (
	"database/sql"
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	ds := New([]Track{
		{TrackName: "late", ReleaseDate: time.Date(2020, 3, 1, 22, 30, 0, 0, est), Key: "F#"},
		{TrackName: "undated"},
		{TrackName: "early", ReleaseDate: time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC), Key: "H"},
	})

	if ds.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ds.Len())
	}

	late := ds.At(0)
	if want := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC); !late.ReleaseDate.Equal(want) || late.ReleaseDate.Location() != time.UTC {
		t.Errorf("ReleaseDate = %v, want %v", late.ReleaseDate, want)
	}
	if late.Key != "F#" {
		t.Errorf("Key = %q, want F#", late.Key)
	}
	if ds.At(1).Key != "" {
		t.Errorf("invalid key kept as %q", ds.At(1).Key)
	}

	first, last := ds.Bounds()
	if first.Year() != 2019 || last.Year() != 2020 {
		t.Errorf("Bounds() = %v, %v", first, last)
	}
}

func TestNewEmpty(t *testing.T) {
	ds := New(nil)
	if ds.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ds.Len())
	}
	first, last := ds.Bounds()
	if !first.IsZero() || !last.IsZero() {
		t.Errorf("Bounds() = %v, %v, want zero", first, last)
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
	}{
		{"in_spotify_playlists", PlatformSpotify},
		{"spotify", PlatformSpotify},
		{"Apple", PlatformApple},
		{"in_deezer_playlists", PlatformDeezer},
	}
	for _, test := range tests {
		got, err := ParsePlatform(test.in)
		if err != nil || got != test.want {
			t.Errorf("ParsePlatform(%q) = %q, %v, want %q", test.in, got, err, test.want)
		}
	}

	if _, err := ParsePlatform("tidal"); !errors.Is(err, ErrUnknownPlatform) {
		t.Errorf("ParsePlatform(tidal) error = %v, want ErrUnknownPlatform", err)
	}
}

func TestPlaylists(t *testing.T) {
	tr := Track{
		Spotify: sql.NullInt64{Int64: 1, Valid: true},
		Apple:   sql.NullInt64{Int64: 2, Valid: true},
	}
	if got := tr.Playlists(PlatformApple); got.Int64 != 2 {
		t.Errorf("Playlists(apple) = %+v", got)
	}
	if got := tr.Playlists(PlatformDeezer); got.Valid {
		t.Errorf("Playlists(deezer) = %+v, want absent", got)
	}
	if got := tr.Playlists(Platform("bogus")); got.Valid {
		t.Errorf("Playlists(bogus) = %+v, want absent", got)
	}
}
