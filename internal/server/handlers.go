package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"path"
	"strings"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/chart"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type platformOption struct {
	Value    string
	Label    string
	Selected bool
}

func platformOptions(selected dataset.Platform) []platformOption {
	var opts []platformOption
	for _, p := range dataset.Platforms() {
		opts = append(opts, platformOption{Value: string(p), Label: p.Label(), Selected: p == selected})
	}
	return opts
}

type indexData struct {
	Start, End   string
	First, Last  string
	Dark         bool
	BarPlatforms []platformOption
	PiePlatforms []platformOption
	Query        template.URL

	StreamsMessage string
	TopMessage     string
	KeysMessage    string
	YearsMessage   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sel, err := s.parseSelection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	first, last := s.agg.Bounds()
	data := indexData{
		Start:        sel.Start.Format(dateLayout),
		End:          sel.End.Format(dateLayout),
		First:        first.Format(dateLayout),
		Last:         last.Format(dateLayout),
		Dark:         sel.Background == chart.Black,
		BarPlatforms: platformOptions(sel.BarPlatform),
		PiePlatforms: platformOptions(sel.PiePlatform),
		Query:        template.URL(sel.values().Encode()),
	}

	if len(s.agg.TimeSeries(sel.Start, sel.End)) == 0 {
		data.StreamsMessage = analysis.NoDataInRange.Message()
		data.YearsMessage = analysis.NoDataInRange.Message()
	}
	if len(s.agg.TopN(sel.BarPlatform, sel.N)) == 0 {
		data.TopMessage = analysis.NoValuesForPlatform.Message()
	}
	data.KeysMessage = s.agg.KeyDistribution(sel.Start, sel.End, sel.PiePlatform).Outcome.Message()

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, "rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)

	format, err := chart.ParseFormat(ext)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	sel, err := s.parseSelection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	noData := analysis.NoDataInRange.Message()
	switch name {
	case "streams":
		err = chart.StreamsOverTime(&buf, format, sel.Background, s.agg.TimeSeries(sel.Start, sel.End))
	case "top-tracks":
		noData = analysis.NoValuesForPlatform.Message()
		err = chart.TopTracks(&buf, format, sel.BarPlatform, s.agg.TopN(sel.BarPlatform, sel.N))
	case "keys":
		dist := s.agg.KeyDistribution(sel.Start, sel.End, sel.PiePlatform)
		noData = dist.Outcome.Message()
		err = chart.KeyDistribution(&buf, format, sel.PiePlatform, dist)
	case "years":
		err = chart.YearHistogram(&buf, format, s.agg.YearHistogram(sel.Start, sel.End))
	default:
		http.NotFound(w, r)
		return
	}

	if errors.Is(err, chart.ErrNoData) {
		http.Error(w, noData, http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Chart rendering failed", "chart", name, "error", err)
		http.Error(w, "rendering chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = buf.WriteTo(w)
}

type keysResponse struct {
	Outcome analysis.Outcome    `json:"outcome"`
	Message string              `json:"message"`
	Keys    []analysis.KeyTotal `json:"keys"`
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	sel, err := s.parseSelection(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var body any
	switch r.PathValue("query") {
	case "timeseries":
		body = s.agg.TimeSeries(sel.Start, sel.End)
	case "top-tracks":
		body = s.agg.TopN(sel.BarPlatform, sel.N)
	case "keys":
		dist := s.agg.KeyDistribution(sel.Start, sel.End, sel.PiePlatform)
		keys := dist.Keys
		if keys == nil {
			keys = []analysis.KeyTotal{}
		}
		body = keysResponse{Outcome: dist.Outcome, Message: dist.Outcome.Message(), Keys: keys}
	case "years":
		body = s.agg.YearHistogram(sel.Start, sel.End)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown query"})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
