package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hdx-data/ahcd-cli/internal/source"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List supported survey years",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, _, err := initEngine()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "YEAR\tRECORD LENGTH\tARCHIVE")
		for _, year := range reg.Years() {
			layout, err := reg.Get(year)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d\t%d\t%s\n", year, layout.RecordLength, source.FileInfo(year).ArchiveName)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}
