package analysis

import (
	"time"

	"github.com/ademuri/song-dashboard/internal/dataset"
)

// StreamPoint is the total stream count of the tracks released on one day.
type StreamPoint struct {
	Date    time.Time `yaml:"date" json:"date"`
	Streams int64     `yaml:"streams" json:"streams"`
}

type RankedTrack struct {
	TrackName  string `yaml:"track_name" json:"track_name"`
	ArtistName string `yaml:"artist_name" json:"artist_name"`
	Count      int64  `yaml:"count" json:"count"`
}

type KeyTotal struct {
	Key   string `yaml:"key" json:"key"`
	Total int64  `yaml:"total" json:"total"`
}

type YearCount struct {
	Year  int `yaml:"year" json:"year"`
	Count int `yaml:"count" json:"count"`
}

// Outcome says whether a key distribution has anything to draw.
type Outcome int

const (
	Data Outcome = iota
	NoDataInRange
	NoValuesForPlatform
)

func (o Outcome) String() string {
	switch o {
	case Data:
		return "data"
	case NoDataInRange:
		return "no_data_in_range"
	case NoValuesForPlatform:
		return "no_values_for_platform"
	}
	return "unknown"
}

// Message is the placeholder shown instead of a chart. Empty for Data.
func (o Outcome) Message() string {
	switch o {
	case NoDataInRange:
		return "No data available for this date range."
	case NoValuesForPlatform:
		return "No values available for this platform."
	}
	return ""
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// KeyDistribution holds per-key playlist totals. Keys is empty unless Outcome
// is Data.
type KeyDistribution struct {
	Outcome Outcome    `yaml:"outcome" json:"outcome"`
	Keys    []KeyTotal `yaml:"keys,omitempty" json:"keys"`
}

// Query is one state of the dashboard selectors.
type Query struct {
	Start       time.Time
	End         time.Time
	BarPlatform dataset.Platform
	PiePlatform dataset.Platform

	// Size of the top tracks list, DefaultTopN when zero.
	N int
}

// Snapshot is every aggregate for one Query.
type Snapshot struct {
	Period      string          `yaml:"period" json:"period"`
	Streams     []StreamPoint   `yaml:"streams" json:"streams"`
	TopPlatform string          `yaml:"top_platform" json:"top_platform"`
	TopTracks   []RankedTrack   `yaml:"top_tracks" json:"top_tracks"`
	KeyPlatform string          `yaml:"key_platform" json:"key_platform"`
	Keys        KeyDistribution `yaml:"keys" json:"keys"`
	KeysMessage string          `yaml:"keys_message,omitempty" json:"keys_message,omitempty"`
	Years       []YearCount     `yaml:"years" json:"years"`
	TotalTracks int             `yaml:"total_tracks" json:"total_tracks"`
}
