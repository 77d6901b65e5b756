package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/song-dashboard/internal/dataset"
	"github.com/ademuri/song-dashboard/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Saves the cleaned dataset to the database",
	Long: `Loads and cleans --data, then replaces the snapshot in --database with it.
Later commands can then run with only --database.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("data") == "" {
			return fmt.Errorf("required flag(s) \"data\" not set")
		}
		if viper.GetString("database") == "" {
			return fmt.Errorf("required flag(s) \"database\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := importDataset(cmd, cmd.OutOrStdout())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importDataset(cmd *cobra.Command, out io.Writer) error {
	source := viper.GetString("data")
	ds, stats, err := dataset.Load(cmd.Context(), source, dataset.Options{Encoding: viper.GetString("encoding")})
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	s, err := store.New(viper.GetString("database"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	if err := s.SaveDataset(source, ds); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}

	fmt.Fprintf(out, "Imported %d of %d rows from %s (%d with invalid dates, %d malformed)\n",
		stats.Kept, stats.Rows, source, stats.DroppedDate, stats.DroppedMalformed)
	return nil
}
