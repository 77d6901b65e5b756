package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/chart"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

const testCSV = `track_name,artist(s)_name,artist_count,released_year,released_month,released_day,in_spotify_playlists,streams,in_apple_playlists,in_deezer_playlists,key
Alpha,Artist A,1,2022,1,15,100,1000,10,,C
Beta,Artist B,1,2022,1,15,300,500,,,C#
Gamma,Artist C & D,2,2023,3,1,200,2000,5,,A
Delta,Artist E,1,2023,13,1,1,1,1,1,C
`

func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spotify-2023.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func testAggregator(t *testing.T) *analysis.Aggregator {
	t.Helper()
	ds, _, err := dataset.Parse(strings.NewReader(testCSV), dataset.EncodingUTF8)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return analysis.New(ds)
}

// execute runs the root command with args and returns what it printed. The
// dataset flags are cleared first since flag values outlive a single run.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	for _, name := range []string{"data", "database"} {
		if err := rootCmd.PersistentFlags().Set(name, ""); err != nil {
			t.Fatalf("resetting --%s: %v", name, err)
		}
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetOut(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out.String()
}

func TestStreamsCommand(t *testing.T) {
	csv := writeTestCSV(t)

	out := execute(t, "streams", "--data", csv, "--encoding", "utf-8", "2022")
	for _, want := range []string{"2022-01-15", "1500", "Found 1500 streams over 1 release dates from 2022-01-01 to 2022-12-31"} {
		if !strings.Contains(out, want) {
			t.Errorf("streams output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "2023-03-01") {
		t.Errorf("streams output includes a date outside the range:\n%s", out)
	}

	out = execute(t, "streams", "--data", csv)
	if !strings.Contains(out, "2023-03-01") || !strings.Contains(out, "from 2022-01-15 to 2023-03-01") {
		t.Errorf("streams without dates should cover the whole dataset:\n%s", out)
	}
}

func TestTopTracksCommand(t *testing.T) {
	csv := writeTestCSV(t)

	out := execute(t, "top-tracks", "--data", csv, "--platform", "spotify", "-n", "2")
	if !strings.Contains(out, "Beta") || !strings.Contains(out, "Gamma") {
		t.Errorf("top-tracks output missing the top two tracks:\n%s", out)
	}
	if strings.Contains(out, "Alpha") {
		t.Errorf("top-tracks output should stop at two tracks:\n%s", out)
	}

	out = execute(t, "top-tracks", "--data", csv, "--platform", "deezer", "-n", "10")
	if !strings.Contains(out, analysis.NoValuesForPlatform.Message()) {
		t.Errorf("top-tracks by deezer should report no values:\n%s", out)
	}
}

func TestKeysCommand(t *testing.T) {
	csv := writeTestCSV(t)

	out := execute(t, "keys", "--data", csv, "--platform", "spotify")
	for _, want := range []string{"C#", "300", "Found 600 Spotify playlists across 3 keys"} {
		if !strings.Contains(out, want) {
			t.Errorf("keys output missing %q:\n%s", want, out)
		}
	}

	out = execute(t, "keys", "--data", csv, "--platform", "deezer")
	if !strings.Contains(out, analysis.NoValuesForPlatform.Message()) {
		t.Errorf("keys by deezer should report no values:\n%s", out)
	}

	out = execute(t, "keys", "--data", csv, "--platform", "spotify", "2019")
	if !strings.Contains(out, analysis.NoDataInRange.Message()) {
		t.Errorf("keys in 2019 should report no data:\n%s", out)
	}
}

func TestYearsCommand(t *testing.T) {
	csv := writeTestCSV(t)

	out := execute(t, "years", "--data", csv)
	if !strings.Contains(out, "Found 3 songs released in 2 years") {
		t.Errorf("unexpected years output:\n%s", out)
	}
}

func TestReportCommand(t *testing.T) {
	csv := writeTestCSV(t)

	out := execute(t, "report", "--data", csv, "--pie_platform", "apple", "2022")
	for _, want := range []string{
		"period: 2022-01-01 to 2022-12-31",
		"key_platform: Apple",
		"outcome: data",
		"total_tracks: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestImportCommand(t *testing.T) {
	csv := writeTestCSV(t)
	db := filepath.Join(t.TempDir(), "songs.db")

	out := execute(t, "import", "--data", csv, "--database", db)
	if !strings.Contains(out, "Imported 3 of 4 rows") {
		t.Errorf("unexpected import output: %q", out)
	}

	out = execute(t, "years", "--database", db)
	if !strings.Contains(out, "Found 3 songs released in 2 years") {
		t.Errorf("years from the snapshot:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	csv := writeTestCSV(t)
	path := filepath.Join(t.TempDir(), "streams.png")

	execute(t, "render", "streams", path, "--data", csv, "--background", "black")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading chart: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Errorf("chart is not a PNG")
	}
}

func TestRenderChartNoData(t *testing.T) {
	agg := testAggregator(t)
	first, last := agg.Bounds()
	q := analysis.Query{Start: first, End: last, BarPlatform: dataset.PlatformSpotify, PiePlatform: dataset.PlatformDeezer, N: 10}

	var buf bytes.Buffer
	err := renderChart(&buf, agg, "keys", chart.SVG, chart.White, q)
	if !errors.Is(err, chart.ErrNoData) {
		t.Fatalf("renderChart(keys) = %v, want ErrNoData", err)
	}
	if !strings.Contains(err.Error(), analysis.NoValuesForPlatform.Message()) {
		t.Errorf("error should carry the placeholder message, got %v", err)
	}

	if err := renderChart(&buf, agg, "pie", chart.SVG, chart.White, q); err == nil {
		t.Errorf("expected an error for an unknown chart")
	}
}
