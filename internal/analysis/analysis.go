package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/ademuri/song-dashboard/internal/dataset"
)

// DefaultTopN is the length of the top tracks list when none is given.
const DefaultTopN = 10

// Aggregator answers the dashboard queries over a read-only dataset. It holds no
// mutable state and is safe for concurrent use.
type Aggregator struct {
	ds *dataset.Dataset
}

func New(ds *dataset.Dataset) *Aggregator {
	return &Aggregator{ds: ds}
}

// Bounds returns the first and last release dates in the dataset.
func (a *Aggregator) Bounds() (first, last time.Time) {
	return a.ds.Bounds()
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inRange calls fn for every track released within [start, end], compared by
// calendar day.
func (a *Aggregator) inRange(start, end time.Time, fn func(dataset.Track)) {
	start, end = day(start), day(end)
	for i := 0; i < a.ds.Len(); i++ {
		t := a.ds.At(i)
		if t.ReleaseDate.Before(start) || t.ReleaseDate.After(end) {
			continue
		}
		fn(t)
	}
}

// TimeSeries sums streams per release date. Tracks without a stream count
// still create their date's point.
func (a *Aggregator) TimeSeries(start, end time.Time) []StreamPoint {
	totals := make(map[time.Time]int64)
	a.inRange(start, end, func(t dataset.Track) {
		totals[t.ReleaseDate] += t.Streams.Int64
	})

	points := make([]StreamPoint, 0, len(totals))
	for date, streams := range totals {
		points = append(points, StreamPoint{Date: date, Streams: streams})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// TopN returns the n tracks with the most playlist inclusions on platform,
// ignoring any date range. Ties keep dataset order.
func (a *Aggregator) TopN(platform dataset.Platform, n int) []RankedTrack {
	if n <= 0 {
		return []RankedTrack{}
	}

	var ranked []RankedTrack
	for i := 0; i < a.ds.Len(); i++ {
		t := a.ds.At(i)
		count := t.Playlists(platform)
		if !count.Valid {
			continue
		}
		ranked = append(ranked, RankedTrack{
			TrackName:  t.TrackName,
			ArtistName: t.ArtistName,
			Count:      count.Int64,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		return []RankedTrack{}
	}
	return ranked
}

// KeyDistribution sums playlist inclusions on platform per musical key.
func (a *Aggregator) KeyDistribution(start, end time.Time, platform dataset.Platform) KeyDistribution {
	var matched int
	var usable int
	var total int64
	totals := make(map[string]int64)
	a.inRange(start, end, func(t dataset.Track) {
		matched++
		count := t.Playlists(platform)
		if !count.Valid || t.Key == "" {
			return
		}
		usable++
		totals[t.Key] += count.Int64
		total += count.Int64
	})

	switch {
	case matched == 0:
		return KeyDistribution{Outcome: NoDataInRange}
	case usable == 0, total == 0:
		return KeyDistribution{Outcome: NoValuesForPlatform}
	}

	keys := make([]KeyTotal, 0, len(totals))
	for k, v := range totals {
		keys = append(keys, KeyTotal{Key: k, Total: v})
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Key < keys[j].Key
	})
	return KeyDistribution{Outcome: Data, Keys: keys}
}

// YearHistogram counts the tracks released in each year.
func (a *Aggregator) YearHistogram(start, end time.Time) []YearCount {
	counts := make(map[int]int)
	a.inRange(start, end, func(t dataset.Track) {
		counts[t.ReleaseDate.Year()]++
	})

	years := make([]YearCount, 0, len(counts))
	for y, c := range counts {
		years = append(years, YearCount{Year: y, Count: c})
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})
	return years
}

// Snapshot runs every query for q.
func (a *Aggregator) Snapshot(q Query) Snapshot {
	n := q.N
	if n == 0 {
		n = DefaultTopN
	}

	years := a.YearHistogram(q.Start, q.End)
	var total int
	for _, y := range years {
		total += y.Count
	}

	keys := a.KeyDistribution(q.Start, q.End, q.PiePlatform)
	return Snapshot{
		Period:      fmt.Sprintf("%s to %s", q.Start.Format("2006-01-02"), q.End.Format("2006-01-02")),
		Streams:     a.TimeSeries(q.Start, q.End),
		TopPlatform: q.BarPlatform.Label(),
		TopTracks:   a.TopN(q.BarPlatform, n),
		KeyPlatform: q.PiePlatform.Label(),
		Keys:        keys,
		KeysMessage: keys.Outcome.Message(),
		Years:       years,
		TotalTracks: total,
	}
}
