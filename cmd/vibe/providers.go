package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var providersJSON bool

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show which providers are configured and enabled",
	Args:  cobra.NoArgs,
	RunE:  runProviders,
}

func init() {
	providersCmd.Flags().BoolVar(&providersJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(false)
	if err != nil {
		return err
	}
	defer env.Close()

	statuses := env.aggregator().Providers()
	if providersJSON {
		return writeJSON(cmd.OutOrStdout(), statuses)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tCONFIGURED\tENABLED\tPRIORITY\tTIMEOUT")
	for _, s := range statuses {
		fmt.Fprintf(tw, "%s\t%t\t%t\t%d\t%dms\n", s.Name, s.Configured, s.Enabled, s.Priority, s.TimeoutMs)
	}
	return tw.Flush()
}
