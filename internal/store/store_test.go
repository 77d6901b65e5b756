package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ademuri/song-dashboard/internal/dataset"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "songs.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}

	return store
}

func count(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

func TestNewIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "songs.db")
	for i := 0; i < 2; i++ {
		s, err := New(dbPath)
		if err != nil {
			t.Fatalf("New #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestSaveAndLoadDataset(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	want := dataset.New([]dataset.Track{
		{
			TrackName:   "Flowers",
			ArtistName:  "Miley Cyrus",
			ArtistCount: count(1),
			ReleaseDate: time.Date(2023, 1, 12, 0, 0, 0, 0, time.UTC),
			Streams:     count(1316855716),
			Spotify:     count(12211),
			Apple:       count(115),
			Deezer:      count(707),
		},
		{
			TrackName:   "Kill Bill",
			ArtistName:  "SZA",
			ReleaseDate: time.Date(2022, 12, 8, 0, 0, 0, 0, time.UTC),
			Spotify:     count(7429),
			Key:         "G#",
		},
	})

	if err := s.SaveDataset("songs.csv", want); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	got, err := s.LoadDataset()
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if got.Len() != want.Len() {
		t.Fatalf("loaded %d tracks, want %d", got.Len(), want.Len())
	}
	for i := 0; i < want.Len(); i++ {
		if !reflect.DeepEqual(got.At(i), want.At(i)) {
			t.Errorf("track %d = %+v, want %+v", i, got.At(i), want.At(i))
		}
	}
}

func TestSaveDatasetReplaces(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	first := dataset.New([]dataset.Track{
		{TrackName: "a", ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{TrackName: "b", ReleaseDate: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)},
	})
	second := dataset.New([]dataset.Track{
		{TrackName: "c", ReleaseDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
	})

	if err := s.SaveDataset("first.csv", first); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}
	if err := s.SaveDataset("second.csv", second); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	ds, err := s.LoadDataset()
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if ds.Len() != 1 || ds.At(0).TrackName != "c" {
		t.Errorf("expected only the second import, got %d tracks", ds.Len())
	}

	imp, err := s.LastImport()
	if err != nil {
		t.Fatalf("LastImport: %v", err)
	}
	if imp.Source != "second.csv" || imp.Tracks != 1 {
		t.Errorf("LastImport() = %+v", imp)
	}
	if time.Since(imp.ImportedAt) > time.Minute {
		t.Errorf("ImportedAt = %v, want about now", imp.ImportedAt)
	}
}

func TestLoadDatasetEmpty(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	if _, err := s.LoadDataset(); !errors.Is(err, ErrNoImport) {
		t.Errorf("LoadDataset() error = %v, want ErrNoImport", err)
	}
	if _, err := s.LastImport(); !errors.Is(err, ErrNoImport) {
		t.Errorf("LastImport() error = %v, want ErrNoImport", err)
	}
}
