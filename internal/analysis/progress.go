package analysis

import "time"

// Stats summarizes one analysis run.
type Stats struct {
	Files       int
	FailedFiles int
	TotalLines  int
	Duration    time.Duration
}

// ProgressReporter provides callbacks for reporting analysis progress.
// Implementations can display progress bars, log messages, or remain silent.
// OnFileAnalyzed is never called concurrently.
type ProgressReporter interface {
	// OnScanStart is called when the directory walk begins.
	OnScanStart()

	// OnScanComplete is called with the number of matching files.
	OnScanComplete(totalFiles int)

	// OnFileAnalyzed is called after each file is extracted.
	OnFileAnalyzed(path string)

	// OnComplete is called when the run finishes.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnScanStart()                  {}
func (n *NoOpProgressReporter) OnScanComplete(totalFiles int) {}
func (n *NoOpProgressReporter) OnFileAnalyzed(path string)    {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)       {}
