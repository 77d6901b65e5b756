package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/song-dashboard/internal/server"
)

var serveAddr string
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the interactive dashboard",
	Long: `Serves the dashboard page, its charts and a JSON API until interrupted.
The dataset is loaded once at startup.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runServe(cmd.Context())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8050", "address to listen on")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := loadDataset(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Dataset ready", "tracks", ds.Len())

	s, err := server.New(viper.GetString("addr"), ds, server.Options{Logger: slog.Default()})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	return s.Run(ctx)
}
