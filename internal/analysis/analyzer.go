// Package analysis scans a directory tree for Python sources and extracts a
// structural report (imports, classes, functions, assignments, line counts)
// from each file using tree-sitter.
package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultExtensions is the extension filter used when none is given.
const DefaultExtensions = ".py"

// Analyzer runs the scanner and extractor over a directory tree.
type Analyzer struct {
	scanner   *FileScanner
	extractor *Extractor
	workers   int
	progress  ProgressReporter
}

type options struct {
	extensions string
	workers    int
	progress   ProgressReporter
}

// Option configures an Analyzer.
type Option func(*options)

// WithExtensions sets the comma-separated extension filter.
func WithExtensions(extensions string) Option {
	return func(o *options) {
		o.extensions = extensions
	}
}

// WithWorkers sets how many files are extracted concurrently. Values below 1
// mean sequential extraction.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(o *options) {
		if p != nil {
			o.progress = p
		}
	}
}

// New creates an Analyzer for folder. The folder is validated immediately;
// a missing path or a non-directory fails with ErrInvalidDirectory.
func New(folder string, opts ...Option) (*Analyzer, error) {
	o := options{
		extensions: DefaultExtensions,
		workers:    1,
		progress:   &NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}

	scanner, err := NewFileScanner(folder, o.extensions)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		scanner:   scanner,
		extractor: NewExtractor(),
		workers:   o.workers,
		progress:  o.progress,
	}, nil
}

// Scanner returns the analyzer's file scanner.
func (a *Analyzer) Scanner() *FileScanner {
	return a.scanner
}

// Analysis scans the tree and extracts a report for every matching file.
// Each call starts from scratch. Per-file failures are recorded in the report;
// the returned error is non-nil only if the walk fails or ctx is cancelled.
func (a *Analyzer) Analysis(ctx context.Context) (*DirectoryReport, error) {
	start := time.Now()

	a.progress.OnScanStart()
	paths, err := a.scanner.Scan()
	if err != nil {
		return nil, err
	}
	a.progress.OnScanComplete(len(paths))

	reports := make([]*FileReport, len(paths))
	if a.workers == 1 {
		for i, path := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			reports[i] = a.extractor.ExtractFile(path)
			a.progress.OnFileAnalyzed(path)
		}
	} else if err := a.extractParallel(ctx, paths, reports); err != nil {
		return nil, err
	}

	// Merge in scan order regardless of completion order
	report := NewDirectoryReport()
	stats := &Stats{}
	for i, path := range paths {
		report.Add(path, reports[i])
		stats.Files++
		if reports[i].Failed() {
			stats.FailedFiles++
		} else {
			stats.TotalLines += reports[i].Lines
		}
	}
	stats.Duration = time.Since(start)
	a.progress.OnComplete(stats)

	return report, nil
}

func (a *Analyzer) extractParallel(ctx context.Context, paths []string, reports []*FileReport) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	done := make(chan string)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for path := range done {
			a.progress.OnFileAnalyzed(path)
		}
	}()

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = a.extractor.ExtractFile(path)
			done <- path
			return nil
		})
	}

	err := g.Wait()
	close(done)
	<-progressDone

	if err != nil {
		return err
	}
	return ctx.Err()
}
