package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/mvp-joe/pyscaffold/internal/analysis"
	"github.com/mvp-joe/pyscaffold/internal/config"
	"github.com/mvp-joe/pyscaffold/internal/render"
	"github.com/mvp-joe/pyscaffold/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	analyzeExt     string
	analyzeFormat  string
	analyzeWorkers int
	analyzeQuiet   bool
	analyzeWatch   bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Report the structure of every Python file under a directory",
	Long: `Analyze walks dir (default: the current directory) and prints, for every
file whose name ends with one of the configured extensions, its imports,
classes with their methods, top-level functions with their positional
parameters, assignment targets and line count.

Files that cannot be read or parsed are reported with an error entry; they
never abort the run.

Examples:
  # Analyze the current directory as a table
  pyscaffold analyze

  # Include stub files and emit JSON
  pyscaffold analyze ./src --ext .py,.pyi --format json

  # Re-analyze whenever a source file changes
  pyscaffold analyze ./src --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeExt, "ext", "e", analysis.DefaultExtensions, "Comma-separated file extensions to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "table", "Output format: table, json or yaml")
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "w", 1, "Number of files to parse concurrently")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "Disable progress bars and status output")
	analyzeCmd.Flags().BoolVar(&analyzeWatch, "watch", false, "Re-run the analysis when source files change")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted! Stopping analysis...")
			cancel()
		case <-ctx.Done():
		}
	}()

	dir := rootDir(args)
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("ext") {
		cfg.Analysis.Extensions = analyzeExt
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = analyzeWorkers
	}
	if flags.Changed("format") {
		cfg.Output.Format = analyzeFormat
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	progress := NewCLIProgressReporter(os.Stderr, analyzeQuiet)
	analyzer, err := analysis.New(dir, append(cfg.AnalyzerOptions(), analysis.WithProgress(progress))...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colored := !color.NoColor && isTerminal(out)

	report, err := analyzer.Analysis(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("analysis cancelled")
		}
		return fmt.Errorf("analysis failed: %w", err)
	}
	if err := render.Write(out, cfg.Output.Format, report, colored); err != nil {
		return err
	}

	if !analyzeWatch {
		return nil
	}
	return watchAndRender(ctx, analyzer, cfg, func(report *analysis.DirectoryReport) error {
		return render.Write(out, cfg.Output.Format, report, colored)
	})
}

// watchAndRender re-runs a full analysis after each debounced batch of
// source changes until ctx is cancelled. The watcher is paused while an
// analysis runs; changes made meanwhile trigger one more run on resume.
func watchAndRender(ctx context.Context, analyzer *analysis.Analyzer, cfg *config.Config, emit func(*analysis.DirectoryReport) error) error {
	scanner := analyzer.Scanner()
	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond

	fw, err := watcher.NewFileWatcher(scanner.Root(), scanner.Extensions(), debounce)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Stop()

	changes := make(chan []string, 1)
	if err := fw.Start(ctx, func(files []string) {
		select {
		case changes <- files:
		default:
			// a rerun is already queued and will pick these up
		}
	}); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if !analyzeQuiet {
		log.Printf("Watching %s for changes (Ctrl+C to stop)", scanner.Root())
	}

	for {
		select {
		case <-ctx.Done():
			if !analyzeQuiet {
				log.Println("Watch mode stopped")
			}
			return nil

		case files := <-changes:
			fw.Pause()
			if !analyzeQuiet {
				log.Printf("Detected changes in %d file(s), re-analyzing...", len(files))
			}
			report, err := analyzer.Analysis(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("Analysis failed: %v", err)
				}
			} else if err := emit(report); err != nil {
				log.Printf("Failed to render report: %v", err)
			}
			fw.Resume()
		}
	}
}
