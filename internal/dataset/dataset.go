package dataset

import (
	"time"
)

// Dataset is an ordered, read-only collection of tracks. Every track has a
// release date at UTC midnight.
type Dataset struct {
	tracks   []Track
	min, max time.Time
}

// New builds a Dataset from tracks, dropping any whose release date is
// zero. Release dates are truncated to the day in UTC. The slice is copied.
func New(tracks []Track) *Dataset {
	ds := &Dataset{tracks: make([]Track, 0, len(tracks))}
	for _, t := range tracks {
		if t.ReleaseDate.IsZero() {
			continue
		}
		y, m, d := t.ReleaseDate.Date()
		t.ReleaseDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if !validKey(t.Key) {
			t.Key = ""
		}

		if len(ds.tracks) == 0 || t.ReleaseDate.Before(ds.min) {
			ds.min = t.ReleaseDate
		}
		if len(ds.tracks) == 0 || t.ReleaseDate.After(ds.max) {
			ds.max = t.ReleaseDate
		}
		ds.tracks = append(ds.tracks, t)
	}
	return ds
}

func (ds *Dataset) Len() int {
	return len(ds.tracks)
}

// At returns a copy of the i'th track.
func (ds *Dataset) At(i int) Track {
	return ds.tracks[i]
}

// Bounds returns the earliest and latest release dates. Both are zero for an
// empty dataset.
func (ds *Dataset) Bounds() (first, last time.Time) {
	return ds.min, ds.max
}
