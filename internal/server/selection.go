package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/chart"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

const (
	dateLayout = "2006-01-02"
	maxTopN    = 100
)

// selection is the state of the dashboard controls.
type selection struct {
	Start       time.Time
	End         time.Time
	Background  chart.Background
	BarPlatform dataset.Platform
	PiePlatform dataset.Platform
	N           int
}

// parseSelection reads the controls from the query string. Missing values fall
// back to the full date span, a white background and Spotify.
func (s *Server) parseSelection(r *http.Request) (selection, error) {
	q := r.URL.Query()
	first, last := s.agg.Bounds()
	sel := selection{
		Start:       first,
		End:         last,
		Background:  chart.White,
		BarPlatform: dataset.PlatformSpotify,
		PiePlatform: dataset.PlatformSpotify,
		N:           analysis.DefaultTopN,
	}

	var err error
	if v := strings.TrimSpace(q.Get("start")); v != "" {
		if sel.Start, err = time.Parse(dateLayout, v); err != nil {
			return sel, fmt.Errorf("invalid start date %q", v)
		}
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		if sel.End, err = time.Parse(dateLayout, v); err != nil {
			return sel, fmt.Errorf("invalid end date %q", v)
		}
	}
	if sel.Background, err = chart.ParseBackground(q.Get("background")); err != nil {
		return sel, err
	}
	if v := q.Get("bar_platform"); v != "" {
		if sel.BarPlatform, err = dataset.ParsePlatform(v); err != nil {
			return sel, err
		}
	}
	if v := q.Get("pie_platform"); v != "" {
		if sel.PiePlatform, err = dataset.ParsePlatform(v); err != nil {
			return sel, err
		}
	}
	if v := q.Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxTopN {
			return sel, fmt.Errorf("n must be between 1 and %d, got %q", maxTopN, v)
		}
		sel.N = n
	}
	return sel, nil
}

// values encodes the selection for chart links.
func (sel selection) values() url.Values {
	v := url.Values{}
	v.Set("start", sel.Start.Format(dateLayout))
	v.Set("end", sel.End.Format(dateLayout))
	v.Set("background", string(sel.Background))
	v.Set("bar_platform", string(sel.BarPlatform))
	v.Set("pie_platform", string(sel.PiePlatform))
	v.Set("n", strconv.Itoa(sel.N))
	return v
}
