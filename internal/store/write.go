package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/song-dashboard/internal/dataset"
)

const dateLayout = "2006-01-02"

// SaveDataset replaces the stored tracks with ds and records the import.
func (s *Store) SaveDataset(source string, ds *dataset.Dataset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM Track"); err != nil {
		return fmt.Errorf("clearing tracks: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO Track (
			position, track_name, artist_name, artist_count, release_date, streams,
			in_spotify_playlists, in_apple_playlists, in_deezer_playlists, musical_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < ds.Len(); i++ {
		t := ds.At(i)
		key := sql.NullString{String: t.Key, Valid: t.Key != ""}
		_, err := stmt.Exec(i, t.TrackName, t.ArtistName, t.ArtistCount, t.ReleaseDate.Format(dateLayout),
			t.Streams, t.Spotify, t.Apple, t.Deezer, key)
		if err != nil {
			return fmt.Errorf("inserting track %q: %w", t.TrackName, err)
		}
	}

	_, err = tx.Exec("INSERT INTO Import (source, imported_at, tracks) VALUES (?, ?, ?)",
		source, time.Now().Unix(), ds.Len())
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
