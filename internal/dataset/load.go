package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

var (
	ErrMissingColumn   = errors.New("missing required column")
	ErrUnknownEncoding = errors.New("unknown encoding")
)

const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf-8"

	DefaultEncoding = EncodingLatin1
)

const (
	colTrackName   = "track_name"
	colArtistName  = "artist(s)_name"
	colArtistCount = "artist_count"
	colYear        = "released_year"
	colMonth       = "released_month"
	colDay         = "released_day"
	colStreams     = "streams"
	colKey         = "key"
)

var requiredColumns = []string{
	colTrackName,
	colArtistName,
	colYear,
	colMonth,
	colDay,
	colStreams,
	string(PlatformSpotify),
	string(PlatformApple),
	colKey,
}

// Stats describes what happened to the rows of a loaded file.
type Stats struct {
	Rows             int
	Kept             int
	DroppedDate      int
	DroppedMalformed int
}

// Load reads and cleans the dataset at source, which is either a local path or
// an http(s) URL.
func Load(ctx context.Context, source string, opts Options) (*Dataset, Stats, error) {
	rc, err := open(ctx, source, opts)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening %s: %w", source, err)
	}
	defer rc.Close()

	ds, stats, err := Parse(rc, opts.Encoding)
	if err != nil {
		return nil, stats, fmt.Errorf("parsing %s: %w", source, err)
	}
	return ds, stats, nil
}

// Parse reads a delimited table from r. Rows with an invalid release date or
// the wrong number of fields are dropped; malformed numeric cells become
// absent.
func Parse(r io.Reader, encoding string) (*Dataset, Stats, error) {
	var stats Stats

	decoded, err := decode(r, encoding)
	if err != nil {
		return nil, stats, err
	}

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, stats, fmt.Errorf("%w: file is empty", ErrMissingColumn)
	}
	if err != nil {
		return nil, stats, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, stats, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok {
			return ""
		}
		return row[i]
	}

	var tracks []Track
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			stats.Rows++
			stats.DroppedMalformed++
			continue
		}
		if err != nil {
			return nil, stats, fmt.Errorf("reading row %d: %w", stats.Rows+1, err)
		}

		stats.Rows++
		if len(row) != len(header) {
			stats.DroppedMalformed++
			continue
		}

		date, ok := releaseDate(cell(row, colYear), cell(row, colMonth), cell(row, colDay))
		if !ok {
			stats.DroppedDate++
			continue
		}

		key := strings.TrimSpace(cell(row, colKey))
		if !validKey(key) {
			key = ""
		}

		tracks = append(tracks, Track{
			TrackName:   strings.TrimSpace(cell(row, colTrackName)),
			ArtistName:  strings.TrimSpace(cell(row, colArtistName)),
			ArtistCount: parseCount(cell(row, colArtistCount)),
			ReleaseDate: date,
			Streams:     parseCount(cell(row, colStreams)),
			Spotify:     parseCount(cell(row, string(PlatformSpotify))),
			Apple:       parseCount(cell(row, string(PlatformApple))),
			Deezer:      parseCount(cell(row, string(PlatformDeezer))),
			Key:         key,
		})
	}

	ds := New(tracks)
	stats.Kept = ds.Len()
	return ds, stats, nil
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingLatin1, "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case EncodingUTF8, "utf8":
		return r, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
}

// parseCount parses an integer cell, tolerating thousands separators and
// integral floats such as "12.0".
func parseCount(s string) sql.NullInt64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return sql.NullInt64{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sql.NullInt64{Int64: n, Valid: true}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return sql.NullInt64{}
	}
	if f >= float64(math.MaxInt64) || f < float64(math.MinInt64) {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(f), Valid: true}
}

// datePart parses one component of a release date. Fractional values are
// truncated.
func datePart(s string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < 0 || f > 9999 {
		return 0, false
	}
	return int(f), true
}

func releaseDate(year, month, day string) (time.Time, bool) {
	y, ok := datePart(year)
	if !ok {
		return time.Time{}, false
	}
	m, ok := datePart(month)
	if !ok {
		return time.Time{}, false
	}
	d, ok := datePart(day)
	if !ok {
		return time.Time{}, false
	}
	return calendarDate(y, m, d)
}

// calendarDate rejects dates that time.Date would normalize, e.g. Feb 30.
func calendarDate(y, m, d int) (time.Time, bool) {
	if y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
