package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

var topTracksNumber int
var topTracksPlatform string
var topTracksCmd = &cobra.Command{
	Use:   "top-tracks",
	Short: "Lists the tracks in the most playlists",
	Long: `Ranks every track by its playlist count on one platform. The ranking covers
the whole dataset; it does not take a date range.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		platform, err := dataset.ParsePlatform(topTracksPlatform)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		err = printAnalysis(cmd, &TopTracksAnalyzer{Platform: platform, N: topTracksNumber}, nil)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topTracksCmd)

	topTracksCmd.Flags().IntVarP(&topTracksNumber, "number", "n", analysis.DefaultTopN, "number of results to return")
	topTracksCmd.Flags().StringVarP(&topTracksPlatform, "platform", "p", "spotify", "platform to rank by: spotify, apple or deezer")
}

type TopTracksAnalyzer struct {
	Platform dataset.Platform
	N        int
}

func (t *TopTracksAnalyzer) Configure(params map[string]string) error {
	if err := configurePlatform(params, &t.Platform); err != nil {
		return err
	}
	if v, ok := params["n"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing n: %w", err)
		}
		t.N = n
	}
	return nil
}

func (t *TopTracksAnalyzer) GetName() string {
	return fmt.Sprintf("Top tracks by %s playlists", t.Platform.Label())
}

func (t *TopTracksAnalyzer) GetResults(agg *analysis.Aggregator, start time.Time, end time.Time) (a Analysis, err error) {
	tracks := agg.TopN(t.Platform, t.N)

	a.results = [][]string{{"Rank", "Track", "Artist", "Playlists"}}
	for i, track := range tracks {
		a.results = append(a.results, []string{
			strconv.Itoa(i + 1), track.TrackName, track.ArtistName, formatCount(track.Count)})
	}

	if len(tracks) == 0 {
		a.summary = analysis.NoValuesForPlatform.Message()
		return
	}
	a.summary = fmt.Sprintf("Top %d tracks by %s playlists", len(tracks), t.Platform.Label())
	return
}
