package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hdx-data/ahcd-cli/internal/runlog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect conversion run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversion runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		log, err := runlog.Open(ctx, cfg.Data.RunLog())
		if err != nil {
			return err
		}
		defer log.Close() //nolint:errcheck

		year, _ := cmd.Flags().GetInt("year")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := log.List(ctx, runlog.Filter{Year: year, Status: status, Limit: limit})
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tYEAR\tSTATUS\tROWS\tSKIPPED\tOUTPUT")
		for _, r := range runs {
			out := r.OutputFile
			if r.Status == runlog.StatusFailed {
				out = r.Error
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%s\n",
				r.StartedAt.Format(time.RFC3339), r.Year, r.Status,
				r.RowsConverted, r.RowsSkipped, out)
		}
		return w.Flush()
	},
}

func init() {
	runsListCmd.Flags().Int("year", 0, "filter by survey year")
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsCmd.AddCommand(runsListCmd)
	rootCmd.AddCommand(runsCmd)
}
