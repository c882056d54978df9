package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/vibefinder/internal/intent"
)

var intentCmd = &cobra.Command{
	Use:   "intent <text>",
	Short: "Print the intent parsed from free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), intent.Parse(strings.Join(args, " ")))
	},
}

func init() {
	rootCmd.AddCommand(intentCmd)
}
