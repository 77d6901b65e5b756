package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/chart"
)

var (
	renderBackground  string
	renderBarPlatform string
	renderPiePlatform string
	renderNumber      int
)

var renderCmd = &cobra.Command{
	Use:   "render <chart> <file> [from] [to (optional)]",
	Short: "Draws one dashboard chart to a file",
	Long: `Writes a chart as PNG or SVG, picked from the file extension.
  <chart> is one of: streams, top-tracks, keys, years.
  Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.RangeArgs(2, 4),
	Run: func(cmd *cobra.Command, args []string) {
		err := runRender(cmd, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderBackground, "background", string(chart.White), "background of the streams chart: white or black")
	renderCmd.Flags().StringVar(&renderBarPlatform, "bar_platform", "spotify", "platform for the top tracks")
	renderCmd.Flags().StringVar(&renderPiePlatform, "pie_platform", "spotify", "platform for the key distribution")
	renderCmd.Flags().IntVarP(&renderNumber, "number", "n", analysis.DefaultTopN, "number of top tracks")
}

func runRender(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	format, err := chart.FormatForPath(path)
	if err != nil {
		return err
	}
	bg, err := chart.ParseBackground(renderBackground)
	if err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	agg := analysis.New(ds)

	q, err := buildQuery(agg, args[2:], renderBarPlatform, renderPiePlatform, renderNumber)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderChart(&buf, agg, name, format, bg, q); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s chart to %s\n", name, path)
	return nil
}

// renderChart draws the named chart. When there is nothing to draw the error
// carries the same message the dashboard shows in its place.
func renderChart(buf *bytes.Buffer, agg *analysis.Aggregator, name string, format chart.Format, bg chart.Background, q analysis.Query) error {
	var err error
	noData := analysis.NoDataInRange
	switch name {
	case "streams":
		err = chart.StreamsOverTime(buf, format, bg, agg.TimeSeries(q.Start, q.End))
	case "top-tracks":
		noData = analysis.NoValuesForPlatform
		err = chart.TopTracks(buf, format, q.BarPlatform, agg.TopN(q.BarPlatform, q.N))
	case "keys":
		dist := agg.KeyDistribution(q.Start, q.End, q.PiePlatform)
		noData = dist.Outcome
		err = chart.KeyDistribution(buf, format, q.PiePlatform, dist)
	case "years":
		err = chart.YearHistogram(buf, format, agg.YearHistogram(q.Start, q.End))
	default:
		return fmt.Errorf("Invalid chart: %s", name)
	}

	if errors.Is(err, chart.ErrNoData) {
		return fmt.Errorf("%s: %w", noData.Message(), err)
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}
