package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/vibefinder/internal/catalog"
	"github.com/cesargomez89/vibefinder/internal/config"
	"github.com/cesargomez89/vibefinder/internal/logger"
	"github.com/cesargomez89/vibefinder/internal/search"
	"github.com/cesargomez89/vibefinder/internal/store"
)

var (
	configPath string
	verbose    bool
	mockMode   bool
)

var rootCmd = &cobra.Command{
	Use:   "vibe",
	Short: "find music by vibe across Spotify, YouTube and SoundCloud",
	Long: `vibe - describe a mood, get tracks
  vibe search "chill study lofi"
  vibe search --providers spotify,soundcloud "late night drive"`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log provider activity to stderr")
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "use canned providers instead of the real APIs")
}

// environment holds what a command needs, built from the loaded config.
type environment struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *store.DB
}

func loadEnvironment(withStore bool) (*environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if mockMode {
		cfg.Mock = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lc := cfg.LoggerConfig()
	lc.Output = os.Stderr
	if !verbose {
		lc.Level = "error"
	}
	env := &environment{cfg: cfg, logger: logger.New(lc)}

	if withStore {
		db, err := store.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		env.db = db
	}
	return env, nil
}

func (e *environment) Close() {
	if e.db != nil {
		e.db.Close()
	}
}

func (e *environment) aggregator() *search.Aggregator {
	var cache catalog.Cache
	if e.db != nil {
		cache = e.db
	}
	registry := catalog.NewRegistry(e.cfg.Credentials(), cache, e.logger)
	agg := search.NewAggregator(registry.Providers(), e.cfg.SearchConfig(), e.logger)
	if e.db != nil {
		agg = agg.WithRecorder(e.db)
	}
	return agg
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
