package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hdx-data/ahcd-cli/internal/config"
	"github.com/hdx-data/ahcd-cli/internal/namcs"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ahcd",
	Short: "NAMCS public-use dataset converter",
	Long:  "Downloads NCHS ambulatory health care survey files and converts their fixed-width records to cleaned CSV datasets.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initEngine builds the layout registry with the configured codebook
// overrides applied.
func initEngine() (*namcs.Registry, *namcs.Codebook, error) {
	reg, err := namcs.NewRegistry()
	if err != nil {
		return nil, nil, err
	}

	cb, err := namcs.LoadCodebook(cfg.Data.CodebookPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cb.Apply(reg); err != nil {
		return nil, nil, err
	}

	return reg, cb, nil
}

// resolveYears turns command arguments into survey years. With the all flag
// set it returns every supported year; otherwise each argument must be a
// supported year.
func resolveYears(reg *namcs.Registry, args []string, all bool) ([]int, error) {
	if all {
		return reg.Years(), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no years given (pass years or --all)")
	}

	var years []int
	for _, a := range args {
		y, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", a)
		}
		if _, err := reg.Get(y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
