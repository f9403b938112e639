// Package convert orchestrates dataset conversions: it validates requests,
// builds record pipelines over extracted dataset files, writes CSV output,
// and records each run in the run log.
package convert

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hdx-data/ahcd-cli/internal/export"
	"github.com/hdx-data/ahcd-cli/internal/namcs"
	"github.com/hdx-data/ahcd-cli/internal/runlog"
	"github.com/hdx-data/ahcd-cli/internal/source"
)

// Options configures a conversion request.
type Options struct {
	// Fields restricts the output columns. Defaults to namcs.DefaultFields.
	Fields []namcs.Field
	// OnError selects the row failure policy.
	OnError namcs.ErrorPolicy
	// Concurrency bounds parallel year conversions in ConvertYears.
	Concurrency int
}

// YearResult is the outcome of converting one survey year.
type YearResult struct {
	Year       int    `json:"year"`
	SourceFile string `json:"source_file"`
	OutputFile string `json:"output_file,omitempty"`
	Rows       int    `json:"rows"`
	Skipped    int    `json:"skipped"`
	Err        error  `json:"-"`
}

// Service performs conversions against a layout registry and codebook.
// A nil run log disables run recording.
type Service struct {
	reg *namcs.Registry
	cb  *namcs.Codebook
	log *runlog.Log
}

// NewService builds a conversion service. The codebook's overrides must
// already be applied to the registry.
func NewService(reg *namcs.Registry, cb *namcs.Codebook, log *runlog.Log) *Service {
	return &Service{reg: reg, cb: cb, log: log}
}

// Records builds a record pipeline over an in-memory or streaming source for
// one survey year, validating the request first. This is the library entry
// point; file conversion wraps it.
func (s *Service) Records(year int, r io.Reader, opts Options) (*namcs.Reader, error) {
	if err := namcs.Validate(s.reg, year, s.fields(opts)); err != nil {
		return nil, err
	}
	layout, err := s.reg.Get(year)
	if err != nil {
		return nil, err
	}

	return namcs.NewReader(r, layout, source.NormalizedFileName(year), namcs.ReaderOptions{
		Fields:         opts.Fields,
		OnError:        opts.OnError,
		AgeDaysPerUnit: s.cb.AgeUnit(year),
	}), nil
}

// ConvertFile converts one extracted dataset file to CSV. The run is
// recorded in the run log when one is configured.
func (s *Service) ConvertFile(ctx context.Context, year int, srcPath, outPath string, opts Options) (*YearResult, error) {
	res := &YearResult{Year: year, SourceFile: srcPath}

	var run *runlog.Run
	if s.log != nil {
		var err error
		run, err = s.log.Start(ctx, year, srcPath)
		if err != nil {
			return nil, err
		}
	}

	rows, skipped, err := s.convertFile(year, srcPath, outPath, opts)
	res.Rows = rows
	res.Skipped = skipped

	if err != nil {
		res.Err = err
		if run != nil {
			if ferr := s.log.Fail(ctx, run.ID, err.Error()); ferr != nil {
				zap.L().Warn("run log update failed", zap.String("run", run.ID), zap.Error(ferr))
			}
		}
		return res, err
	}

	res.OutputFile = outPath
	if run != nil {
		if cerr := s.log.Complete(ctx, run.ID, int64(rows), int64(skipped), outPath); cerr != nil {
			zap.L().Warn("run log update failed", zap.String("run", run.ID), zap.Error(cerr))
		}
	}

	zap.L().Info("converted dataset",
		zap.Int("year", year),
		zap.Int("rows", rows),
		zap.Int("skipped", skipped),
		zap.String("output", outPath),
	)
	return res, nil
}

func (s *Service) convertFile(year int, srcPath, outPath string, opts Options) (rows, skipped int, err error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "convert: open source for %d", year)
	}

	reader, err := s.Records(year, f, opts)
	if err != nil {
		f.Close()
		return 0, 0, err
	}
	defer reader.Close() //nolint:errcheck

	rows, err = export.WriteCSVFile(outPath, reader)
	return rows, reader.Skipped(), err
}

// ConvertYears converts several survey years in parallel, each to its own
// output file under outDir. Years fail independently: the returned map holds
// one result per requested year, failed years carrying their error. The
// returned error is non-nil only if every year failed.
func (s *Service) ConvertYears(ctx context.Context, years []int, extractDir, outDir string, opts Options) (map[int]*YearResult, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var mu sync.Mutex
	results := make(map[int]*YearResult, len(years))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, year := range years {
		year := year
		g.Go(func() error {
			srcPath := filepath.Join(extractDir, source.NormalizedFileName(year))
			outPath := filepath.Join(outDir, source.NormalizedFileName(year)+".csv")

			res, err := s.ConvertFile(ctx, year, srcPath, outPath, opts)
			if err != nil {
				zap.L().Error("year conversion failed",
					zap.Int("year", year),
					zap.Error(err),
				)
				if res == nil {
					res = &YearResult{Year: year, SourceFile: srcPath, Err: err}
				}
			}

			mu.Lock()
			results[year] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed == len(years) && failed > 0 {
		return results, eris.Errorf("convert: all %d years failed", failed)
	}
	return results, nil
}

func (s *Service) fields(opts Options) []namcs.Field {
	if len(opts.Fields) == 0 {
		return namcs.DefaultFields
	}
	return opts.Fields
}
