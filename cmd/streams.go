package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ademuri/song-dashboard/internal/analysis"
)

var streamsCmd = &cobra.Command{
	Use:   "streams [from] [to (optional)]",
	Short: "Sums streams by release date",
	Long: `Uses the specified date or date range, or the whole dataset when none is given.
Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printAnalysis(cmd, StreamsAnalyzer{}, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(streamsCmd)
}

// printAnalysis loads the dataset and prints one analyser's table for the
// date range in args.
func printAnalysis(cmd *cobra.Command, action Analyser, args []string) error {
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	agg := analysis.New(ds)

	first, last := agg.Bounds()
	start, end, err := parseDateRangeFromArgs(args, first, last)
	if err != nil {
		return err
	}
	return writeAnalysis(cmd.OutOrStdout(), agg, action, start, end)
}

func writeAnalysis(out io.Writer, agg *analysis.Aggregator, action Analyser, start, end time.Time) error {
	result, err := action.GetResults(agg, start, end)
	if err != nil {
		return fmt.Errorf("getting results for %s: %w", action.GetName(), err)
	}
	fmt.Fprint(out, result)
	return nil
}

type StreamsAnalyzer struct{}

func (StreamsAnalyzer) GetName() string {
	return "Streams by release date"
}

func (StreamsAnalyzer) GetResults(agg *analysis.Aggregator, start time.Time, end time.Time) (a Analysis, err error) {
	points := agg.TimeSeries(start, end)

	var total int64
	a.results = [][]string{{"Release date", "Streams"}}
	for _, p := range points {
		a.results = append(a.results, []string{p.Date.Format("2006-01-02"), formatCount(p.Streams)})
		total += p.Streams
	}

	if len(points) == 0 {
		a.summary = analysis.NoDataInRange.Message()
		return
	}
	a.summary = fmt.Sprintf("Found %d streams over %d release dates from %s to %s",
		total, len(points), start.Format("2006-01-02"), end.Format("2006-01-02"))
	return
}
