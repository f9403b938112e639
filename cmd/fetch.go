package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hdx-data/ahcd-cli/internal/fetcher"
	"github.com/hdx-data/ahcd-cli/internal/source"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [years...]",
	Short: "Download and extract survey dataset files",
	Long:  "Downloads the public-use archives from the CDC server and extracts the fixed-width dataset files into the local data directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, _, err := initEngine()
		if err != nil {
			return err
		}

		all, _ := cmd.Flags().GetBool("all")
		force, _ := cmd.Flags().GetBool("force")
		years, err := resolveYears(reg, args, all)
		if err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Fetch.Concurrency)

		for _, year := range years {
			year := year
			g.Go(func() error {
				return fetchYear(ctx, year, force)
			})
		}
		return g.Wait()
	},
}

// fetchYear downloads one year's archive and extracts its dataset file into
// the extract directory under the normalized name. Years already extracted
// are skipped unless force is set.
func fetchYear(ctx context.Context, year int, force bool) error {
	dest := filepath.Join(cfg.Data.ExtractDir(), source.NormalizedFileName(year))
	if !force {
		if _, err := os.Stat(dest); err == nil {
			fmt.Printf("%d: already extracted\n", year)
			return nil
		}
	}

	info := source.FileInfo(year)
	archivePath := filepath.Join(cfg.Data.DownloadDir(), info.ArchiveName)

	f, err := fetcher.ForURL(info.URL, fetcher.Options{
		Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
	})
	if err != nil {
		return err
	}

	zap.L().Info("downloading archive",
		zap.Int("year", year),
		zap.String("url", info.URL),
	)
	n, err := f.DownloadToFile(ctx, info.URL, archivePath)
	if err != nil {
		return fmt.Errorf("fetch %d: %w", year, err)
	}
	zap.L().Info("downloaded archive",
		zap.Int("year", year),
		zap.Int64("bytes", n),
	)

	extracted, err := fetcher.ExtractDatasetFile(
		archivePath,
		cfg.Data.ExtractDir(),
		source.ExtractedNames(year),
		source.NormalizedFileName(year),
	)
	if err != nil {
		return fmt.Errorf("extract %d: %w", year, err)
	}

	fmt.Printf("%d: %s\n", year, extracted)
	return nil
}

func init() {
	fetchCmd.Flags().Bool("all", false, "fetch every supported survey year")
	fetchCmd.Flags().Bool("force", false, "re-download even if already extracted")
	rootCmd.AddCommand(fetchCmd)
}
