// Package chart draws dashboard aggregates as PNG or SVG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

var (
	// ErrNoData means the aggregate has nothing to draw.
	ErrNoData = errors.New("no data to chart")

	ErrUnknownFormat     = errors.New("unknown chart format")
	ErrUnknownBackground = errors.New("unknown background")
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) renderer() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Background is the plot color of the streams chart.
type Background string

const (
	White Background = "white"
	Black Background = "black"
)

func ParseBackground(s string) (Background, error) {
	switch Background(strings.ToLower(s)) {
	case "", White:
		return White, nil
	case Black:
		return Black, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackground, s)
}

func (b Background) colors() (fill, text drawing.Color) {
	if b == Black {
		return drawing.ColorBlack, drawing.ColorWhite
	}
	return drawing.ColorWhite, drawing.ColorBlack
}

const (
	width  = 960
	height = 500
)

// yRange starts at zero and never collapses to an empty range.
func yRange(peak float64) *chart.ContinuousRange {
	if peak <= 0 {
		peak = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: peak * 1.05}
}

// StreamsOverTime draws total streams per release date as a line.
func StreamsOverTime(w io.Writer, f Format, bg Background, points []analysis.StreamPoint) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]time.Time, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	var peak float64
	for _, p := range points {
		xs = append(xs, p.Date)
		ys = append(ys, float64(p.Streams))
		if float64(p.Streams) > peak {
			peak = float64(p.Streams)
		}
	}

	style := chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2}
	if len(points) == 1 {
		// go-chart needs two distinct x values.
		xs = append(xs, xs[0].AddDate(0, 0, 1))
		ys = append(ys, ys[0])
		style.DotWidth = 6
		style.DotColor = chart.ColorBlue
	}

	fill, text := bg.colors()
	axis := chart.Style{FontColor: text, StrokeColor: text}
	c := chart.Chart{
		Title:      "Streams Over Time",
		TitleStyle: chart.Style{FontColor: text},
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: fill, Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		Canvas:     chart.Style{FillColor: fill},
		XAxis: chart.XAxis{
			Name:           "Release date",
			NameStyle:      axis,
			Style:          axis,
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Streams",
			NameStyle:      axis,
			Style:          axis,
			Range:          yRange(peak),
			ValueFormatter: chart.IntValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Streams", XValues: xs, YValues: ys, Style: style},
		},
	}
	return c.Render(f.renderer(), w)
}

// TopTracks draws one bar per ranked track.
func TopTracks(w io.Writer, f Format, platform dataset.Platform, tracks []analysis.RankedTrack) error {
	if len(tracks) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(tracks))
	var peak float64
	for _, t := range tracks {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s – %s", t.TrackName, t.ArtistName),
			Value: float64(t.Count),
		})
		if float64(t.Count) > peak {
			peak = float64(t.Count)
		}
	}

	return barChart(w, f, fmt.Sprintf("Top %d Tracks by %s Playlists", len(tracks), platform.Label()), bars, peak, 80, 30)
}

// YearHistogram draws the number of releases per year.
func YearHistogram(w io.Writer, f Format, years []analysis.YearCount) error {
	if len(years) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(years))
	var peak float64
	for _, y := range years {
		bars = append(bars, chart.Value{Label: fmt.Sprint(y.Year), Value: float64(y.Count)})
		if float64(y.Count) > peak {
			peak = float64(y.Count)
		}
	}

	return barChart(w, f, "Songs per Year", bars, peak, 30, 10)
}

func barChart(w io.Writer, f Format, title string, bars []chart.Value, peak float64, barWidth, spacing int) error {
	wide := len(bars)*(barWidth+spacing) + 160
	if wide < width {
		wide = width
	}

	c := chart.BarChart{
		Title:      title,
		Width:      wide,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Range:          yRange(peak),
			ValueFormatter: chart.IntValueFormatter,
		},
		Bars: bars,
	}
	return c.Render(f.renderer(), w)
}

// KeyDistribution draws a pie of playlist totals per musical key.
func KeyDistribution(w io.Writer, f Format, platform dataset.Platform, dist analysis.KeyDistribution) error {
	if dist.Outcome != analysis.Data || len(dist.Keys) == 0 {
		return ErrNoData
	}

	values := make([]chart.Value, 0, len(dist.Keys))
	for _, k := range dist.Keys {
		if k.Total <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: k.Key, Value: float64(k.Total)})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	c := chart.PieChart{
		Title:  fmt.Sprintf("Key Distribution (%s Playlists)", platform.Label()),
		Width:  height,
		Height: height,
		Values: values,
	}
	return c.Render(f.renderer(), w)
}
