/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/song-dashboard/internal/dataset"
	"github.com/ademuri/song-dashboard/internal/store"
)

var cfgFile string
var dataSource string
var databasePath string
var encoding string
var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "song-dashboard",
	Short: "Explores the most streamed songs dataset",
	Long: `Loads a table of popular songs and answers questions about it: streams by
release date, top tracks by playlist count, key distribution and songs per year.
The answers are available as tables, charts, a YAML report, an email or an
interactive dashboard ('serve').

The dataset comes from --data (a file or an http(s) URL) or from a snapshot
previously saved with 'import' to --database.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.song-dashboard.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&dataSource, "data", "f", "", "Path or http(s) URL of the songs CSV")
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "", "Path to the SQLite snapshot database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(
		&encoding, "encoding", dataset.DefaultEncoding, "Text encoding of the CSV: latin1 or utf-8")
	viper.BindPFlag("encoding", rootCmd.PersistentFlags().Lookup("encoding"))

	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log_level", "info", "Log level: debug, info, warn or error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".song-dashboard" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".song-dashboard")
	}

	viper.SetEnvPrefix("SONG_DASHBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})

	slog.SetDefault(newLogger(viper.GetString("log_level")))
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// loadDataset returns the dataset named by --data, falling back to the
// snapshot in --database.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	if source := viper.GetString("data"); source != "" {
		ds, stats, err := dataset.Load(ctx, source, dataset.Options{Encoding: viper.GetString("encoding")})
		if err != nil {
			return nil, fmt.Errorf("loading dataset: %w", err)
		}
		slog.DebugContext(ctx, "Loaded dataset",
			"source", source,
			"rows", stats.Rows,
			"kept", stats.Kept,
			"dropped_date", stats.DroppedDate,
			"dropped_malformed", stats.DroppedMalformed)
		return ds, nil
	}

	dbPath := viper.GetString("database")
	if dbPath == "" {
		return nil, fmt.Errorf("required flag(s) \"data\" or \"database\" not set")
	}
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer s.Close()

	ds, err := s.LoadDataset()
	if errors.Is(err, store.ErrNoImport) {
		return nil, fmt.Errorf("Snapshot is empty - run import first.")
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return ds, nil
}
