package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

var keysPlatform string
var keysCmd = &cobra.Command{
	Use:   "keys [from] [to (optional)]",
	Short: "Sums playlist counts by musical key",
	Long: `Groups the tracks released in the date range by key and sums their playlist
count on one platform. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		platform, err := dataset.ParsePlatform(keysPlatform)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		err = printAnalysis(cmd, &KeysAnalyzer{Platform: platform}, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.Flags().StringVarP(&keysPlatform, "platform", "p", "spotify", "platform to sum: spotify, apple or deezer")
}

type KeysAnalyzer struct {
	Platform dataset.Platform
}

func (k *KeysAnalyzer) Configure(params map[string]string) error {
	return configurePlatform(params, &k.Platform)
}

func (k *KeysAnalyzer) GetName() string {
	return fmt.Sprintf("%s playlists by key", k.Platform.Label())
}

func (k *KeysAnalyzer) GetResults(agg *analysis.Aggregator, start time.Time, end time.Time) (a Analysis, err error) {
	dist := agg.KeyDistribution(start, end, k.Platform)

	a.results = [][]string{{"Key", "Playlists", "Share"}}
	if dist.Outcome != analysis.Data {
		a.summary = dist.Outcome.Message()
		return
	}

	var total int64
	for _, kt := range dist.Keys {
		total += kt.Total
	}
	for _, kt := range dist.Keys {
		share := float64(kt.Total) / float64(total) * 100
		a.results = append(a.results, []string{kt.Key, formatCount(kt.Total), fmt.Sprintf("%.1f%%", share)})
	}
	a.summary = fmt.Sprintf("Found %d %s playlists across %d keys", total, k.Platform.Label(), len(dist.Keys))
	return
}
