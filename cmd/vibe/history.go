package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [search-id]",
	Short: "List recorded searches, or show one with its tracks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of searches")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(true)
	if err != nil {
		return err
	}
	defer env.Close()

	if len(args) == 1 {
		rec, err := env.db.GetSearch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("search %s not found", args[0])
		}
		return writeJSON(cmd.OutOrStdout(), rec)
	}

	recs, err := env.db.ListRecentSearches(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No searches recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSTATUS\tTRACKS\tQUERY")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Status, r.TotalResults, r.Query)
	}
	return tw.Flush()
}
