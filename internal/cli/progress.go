package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mvp-joe/pyscaffold/internal/analysis"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements analysis.ProgressReporter with a file
// progress bar. It writes to its own writer (stderr in the CLI) so that
// JSON and YAML reports on stdout stay clean.
type CLIProgressReporter struct {
	quiet   bool
	showBar bool
	out     io.Writer
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter. The bar is only
// drawn when out is a terminal; the summary is printed either way.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:   quiet,
		showBar: isTerminal(out),
		out:     out,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *CLIProgressReporter) OnScanStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnScanComplete(totalFiles int) {
	if c.quiet {
		return
	}
	if !c.showBar || totalFiles == 0 {
		c.fileBar = nil
		return
	}

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileAnalyzed(path string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
	if verbose {
		log.Printf("Analyzed %s", path)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *analysis.Stats) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Fprintf(c.out, "✓ Analysis complete: %s files (%s lines) in %.2fs\n",
		formatNumber(stats.Files), formatNumber(stats.TotalLines), stats.Duration.Seconds())
	if stats.FailedFiles > 0 {
		fmt.Fprintf(c.out, "  Files with errors: %s\n", formatNumber(stats.FailedFiles))
	}
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	str := fmt.Sprintf("%d", n)
	if n < 1000 && n > -1000 {
		return str
	}

	var result string
	digits := str
	if n < 0 {
		result = "-"
		digits = str[1:]
	}
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
