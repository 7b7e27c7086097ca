package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mvp-joe/pyscaffold/internal/analysis"
	"github.com/mvp-joe/pyscaffold/internal/config"
	"github.com/mvp-joe/pyscaffold/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	generateOutput       string
	generateExcludeDirs  []string
	generateExcludeFiles []string
	generateExt          string
	generateQuiet        bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Write placeholder pytest files for every analyzed module",
	Long: `Generate analyzes dir (default: the current directory) and writes one
test_<module>.py file per source file into the output directory. Each
top-level function gets a smoke test called with placeholder arguments and each
class gets a Test<Class> fixture with one smoke test per method.

Files under an excluded directory, files whose name matches an excluded
pattern, and files that failed analysis are skipped.

Examples:
  # Generate into ./tests, skipping tests/ and main.py
  pyscaffold generate

  # Custom output directory and exclusions
  pyscaffold generate ./src -o ./generated --exclude-dir migrations --exclude-file "conf*.py"
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "tests", "Directory the test files are written to")
	generateCmd.Flags().StringSliceVar(&generateExcludeDirs, "exclude-dir", nil, "Skip paths containing this string (repeatable, default tests)")
	generateCmd.Flags().StringSliceVar(&generateExcludeFiles, "exclude-file", nil, "Skip file names matching this glob (repeatable, default main.py)")
	generateCmd.Flags().StringVarP(&generateExt, "ext", "e", analysis.DefaultExtensions, "Comma-separated file extensions to analyze")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Only report skipped files and errors")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted! Stopping generation...")
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
		cfg.Analysis.Extensions = generateExt
	}
	if flags.Changed("output") {
		cfg.Scaffold.OutputDir = generateOutput
	}
	if flags.Changed("exclude-dir") {
		cfg.Scaffold.ExcludeDirs = generateExcludeDirs
	}
	if flags.Changed("exclude-file") {
		cfg.Scaffold.ExcludeFiles = generateExcludeFiles
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	progress := NewCLIProgressReporter(os.Stderr, generateQuiet)
	analyzer, err := analysis.New(dir, append(cfg.AnalyzerOptions(), analysis.WithProgress(progress))...)
	if err != nil {
		return err
	}

	report, err := analyzer.Analysis(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("generation cancelled")
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	gen, err := scaffold.New(report, scaffold.Options{
		OutputDir:    cfg.Scaffold.OutputDir,
		ExcludeDirs:  cfg.Scaffold.ExcludeDirs,
		ExcludeFiles: cfg.Scaffold.ExcludeFiles,
		Extensions:   analyzer.Scanner().Extensions(),
	})
	if err != nil {
		return err
	}

	result, err := gen.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, entry := range result.Entries {
		switch {
		case entry.Generated != nil:
			if !generateQuiet {
				fmt.Fprintf(out, "Generated test file: %s\n", entry.Generated.TestFile)
			}
		case entry.Skipped.Reason == scaffold.SkipError:
			fmt.Fprintf(out, "Skipping %s due to error: %s\n", entry.Skipped.Path, entry.Skipped.Detail)
		case verbose:
			log.Printf("Skipping %s (excluded)", entry.Skipped.Path)
		}
	}
	if !generateQuiet {
		fmt.Fprintf(out, "\n%d test files generated, %d skipped\n", len(result.Generated), len(result.Skipped))
	}

	return nil
}
