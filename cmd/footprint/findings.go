package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

var findingsJSON bool

var errNothingCached = errors.New("no cached discovery, run \"footprint discover\" first")

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "Report findings for the cached discovery",
	Long:  `Report findings from the session cache without calling any Google API.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		session, release, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer release()

		if err := session.Restore(ctx); err != nil {
			return err
		}

		report, err := session.Findings()
		if err != nil {
			if errors.Is(err, domain.ErrNoDiscovery) {
				return errNothingCached
			}

			return fmt.Errorf("findings: %w", err)
		}

		if findingsJSON {
			return writeJSON(cmd.OutOrStdout(), report)
		}

		printReport(cmd.OutOrStdout(), report)

		return nil
	},
}

func init() {
	findingsCmd.Flags().BoolVar(&findingsJSON, "json", false, "print the report as JSON")

	rootCmd.AddCommand(findingsCmd)
}
