package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ademuri/song-dashboard/internal/analysis"
)

var yearsCmd = &cobra.Command{
	Use:   "years [from] [to (optional)]",
	Short: "Counts songs per release year",
	Long: `Uses the specified date or date range, or the whole dataset when none is given.
Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printAnalysis(cmd, YearsAnalyzer{}, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}

type YearsAnalyzer struct{}

func (YearsAnalyzer) GetName() string {
	return "Songs per year"
}

func (YearsAnalyzer) GetResults(agg *analysis.Aggregator, start time.Time, end time.Time) (a Analysis, err error) {
	years := agg.YearHistogram(start, end)

	total := 0
	a.results = [][]string{{"Year", "Songs"}}
	for _, y := range years {
		a.results = append(a.results, []string{strconv.Itoa(y.Year), strconv.Itoa(y.Count)})
		total += y.Count
	}

	if len(years) == 0 {
		a.summary = analysis.NoDataInRange.Message()
		return
	}
	a.summary = fmt.Sprintf("Found %d songs released in %d years", total, len(years))
	return
}
