package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/search"
)

var (
	searchMax        int
	searchNoFallback bool
	searchProviders  string
	searchSave       bool
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search every enabled provider and print the merged ranking",
	Long: `Search every enabled provider and print the merged ranking as JSON.

Examples:
  vibe search "energetic gym workout fast"
  vibe search --max 5 "sad piano rainy"
  vibe search --providers youtube --no-fallback "anime opening"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchMax, "max", "n", 0, "maximum number of tracks (default from config)")
	searchCmd.Flags().BoolVar(&searchNoFallback, "no-fallback", false, "disable the parallel fallback phase")
	searchCmd.Flags().StringVar(&searchProviders, "providers", "", "comma separated providers to query")
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "cache provider calls and record the search in the database")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	overrides, err := searchOverrides(cmd)
	if err != nil {
		return err
	}

	env, err := loadEnvironment(searchSave)
	if err != nil {
		return err
	}
	defer env.Close()

	input := strings.Join(args, " ")
	resp, err := env.aggregator().SearchMusic(cmd.Context(), input, overrides)
	if err != nil {
		return fmt.Errorf("%s: %w", domain.KindOf(err), err)
	}
	return writeJSON(cmd.OutOrStdout(), resp)
}

func searchOverrides(cmd *cobra.Command) (*search.Overrides, error) {
	var o search.Overrides
	set := false

	if cmd.Flags().Changed("max") {
		if searchMax < 1 {
			return nil, fmt.Errorf("--max must be positive")
		}
		o.MaxResults = &searchMax
		set = true
	}
	if searchNoFallback {
		off := false
		o.EnableFallback = &off
		set = true
	}
	if searchProviders != "" {
		var names []domain.ProviderName
		for _, part := range strings.Split(searchProviders, ",") {
			name, ok := domain.ParseProviderName(part)
			if !ok {
				return nil, fmt.Errorf("unknown provider %q", strings.TrimSpace(part))
			}
			names = append(names, name)
		}
		o.Providers = search.OnlyProviders(names...)
		set = true
	}

	if !set {
		return nil, nil
	}
	return &o, nil
}
