package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/song-dashboard/internal/dataset"
)

// Import describes one SaveDataset call.
type Import struct {
	Source     string
	ImportedAt time.Time
	Tracks     int
}

func (s *Store) LastImport() (Import, error) {
	row := s.db.QueryRow("SELECT source, imported_at, tracks FROM Import ORDER BY id DESC LIMIT 1")
	var imp Import
	var unix int64
	err := row.Scan(&imp.Source, &unix, &imp.Tracks)
	if err == sql.ErrNoRows {
		return Import{}, ErrNoImport
	}
	if err != nil {
		return Import{}, fmt.Errorf("getting last import: %w", err)
	}
	imp.ImportedAt = time.Unix(unix, 0)
	return imp, nil
}

// LoadDataset reads the stored tracks back in their original order.
func (s *Store) LoadDataset() (*dataset.Dataset, error) {
	if _, err := s.LastImport(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT track_name, artist_name, artist_count, release_date, streams,
			in_spotify_playlists, in_apple_playlists, in_deezer_playlists, musical_key
		FROM Track
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	defer rows.Close()

	var tracks []dataset.Track
	for rows.Next() {
		var t dataset.Track
		var released string
		var key sql.NullString
		err := rows.Scan(&t.TrackName, &t.ArtistName, &t.ArtistCount, &released, &t.Streams,
			&t.Spotify, &t.Apple, &t.Deezer, &key)
		if err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		t.ReleaseDate, err = time.Parse(dateLayout, released)
		if err != nil {
			return nil, fmt.Errorf("parsing release date of %q: %w", t.TrackName, err)
		}
		t.Key = key.String
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tracks: %w", err)
	}

	return dataset.New(tracks), nil
}
