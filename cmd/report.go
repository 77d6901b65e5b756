package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

var (
	reportBarPlatform string
	reportPiePlatform string
	reportNumber      int
)

var reportCmd = &cobra.Command{
	Use:   "report [from] [to (optional)]",
	Short: "Generates a YAML report of every aggregate",
	Long: `Runs the streams, top tracks, keys and years queries for one dashboard state and
prints them as a single YAML document.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runReport(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportBarPlatform, "bar_platform", "spotify", "platform for the top tracks")
	reportCmd.Flags().StringVar(&reportPiePlatform, "pie_platform", "spotify", "platform for the key distribution")
	reportCmd.Flags().IntVarP(&reportNumber, "number", "n", analysis.DefaultTopN, "number of top tracks")
}

func runReport(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	agg := analysis.New(ds)

	q, err := buildQuery(agg, args, reportBarPlatform, reportPiePlatform, reportNumber)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), agg.Snapshot(q))
}

func buildQuery(agg *analysis.Aggregator, args []string, bar, pie string, n int) (q analysis.Query, err error) {
	first, last := agg.Bounds()
	q.Start, q.End, err = parseDateRangeFromArgs(args, first, last)
	if err != nil {
		return
	}
	if q.BarPlatform, err = dataset.ParsePlatform(bar); err != nil {
		return
	}
	if q.PiePlatform, err = dataset.ParsePlatform(pie); err != nil {
		return
	}
	q.N = n
	return
}

func writeReport(out io.Writer, snapshot analysis.Snapshot) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	err := encoder.Encode(snapshot)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}
