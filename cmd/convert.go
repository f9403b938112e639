package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hdx-data/ahcd-cli/internal/convert"
	"github.com/hdx-data/ahcd-cli/internal/namcs"
	"github.com/hdx-data/ahcd-cli/internal/runlog"
)

var convertCmd = &cobra.Command{
	Use:   "convert [years...]",
	Short: "Convert extracted dataset files to CSV",
	Long:  "Translates the fixed-width records of extracted survey files into cleaned CSV datasets, one output file per year.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, cb, err := initEngine()
		if err != nil {
			return err
		}

		all, _ := cmd.Flags().GetBool("all")
		years, err := resolveYears(reg, args, all)
		if err != nil {
			return err
		}

		fields, err := fieldsFlag(cmd)
		if err != nil {
			return err
		}
		policy, err := errorPolicy(cmd)
		if err != nil {
			return err
		}

		log, err := runlog.Open(ctx, cfg.Data.RunLog())
		if err != nil {
			return err
		}
		defer log.Close() //nolint:errcheck

		svc := convert.NewService(reg, cb, log)
		results, err := svc.ConvertYears(ctx, years, cfg.Data.ExtractDir(), cfg.Data.ConvertDir(), convert.Options{
			Fields:      fields,
			OnError:     policy,
			Concurrency: cfg.Convert.Concurrency,
		})

		printResults(results, years)
		return err
	},
}

func fieldsFlag(cmd *cobra.Command) ([]namcs.Field, error) {
	names, _ := cmd.Flags().GetStringSlice("fields")
	if len(names) == 0 {
		return nil, nil
	}

	fields := make([]namcs.Field, len(names))
	for i, n := range names {
		f := namcs.Field(n)
		if !namcs.IsSupported(f) {
			return nil, &namcs.UnsupportedFieldError{Field: f}
		}
		fields[i] = f
	}
	return fields, nil
}

func errorPolicy(cmd *cobra.Command) (namcs.ErrorPolicy, error) {
	mode, _ := cmd.Flags().GetString("on-error")
	if mode == "" {
		mode = cfg.Convert.OnError
	}
	switch mode {
	case "fail":
		return namcs.FailFast, nil
	case "skip":
		return namcs.SkipInvalid, nil
	default:
		return 0, fmt.Errorf("invalid --on-error %q (want fail or skip)", mode)
	}
}

func printResults(results map[int]*convert.YearResult, years []int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tROWS\tSKIPPED\tOUTPUT")
	for _, year := range years {
		res, ok := results[year]
		if !ok {
			continue
		}
		if res.Err != nil {
			fmt.Fprintf(w, "%d\t-\t-\tERROR: %v\n", year, res.Err)
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", year, res.Rows, res.Skipped, res.OutputFile)
	}
	w.Flush()
}

func init() {
	convertCmd.Flags().Bool("all", false, "convert every supported survey year")
	convertCmd.Flags().StringSlice("fields", nil, "output fields (default: the standard column set)")
	convertCmd.Flags().String("on-error", "", "row failure policy: fail or skip (default from config)")
	rootCmd.AddCommand(convertCmd)
}
