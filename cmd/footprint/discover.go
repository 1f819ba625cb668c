package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	discoverJSON     bool
	discoverServices bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run a discovery and print the summary and findings",
	Long: `Run a full discovery with the current credentials. The result is cached for the
session when REDIS_ADDR is set, so "footprint findings" can report on it later.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		session, release, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer release()

		if _, err := session.Discover(ctx); err != nil {
			return err
		}

		if discoverJSON {
			g, err := session.Graph(discoverServices)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), g)
		}

		report, err := session.Findings()
		if err != nil {
			return err
		}

		printReport(cmd.OutOrStdout(), report)

		return nil
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "print the laid out graph as JSON instead of the summary")
	discoverCmd.Flags().BoolVar(&discoverServices, "services", false, "include enabled service nodes in the JSON graph")

	rootCmd.AddCommand(discoverCmd)
}
