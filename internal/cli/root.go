package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/mvp-joe/pyscaffold/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pyscaffold",
	Short: "pyscaffold - structural analysis and test scaffolding for Python projects",
	Long: `pyscaffold walks a directory of Python sources, extracts a structural
report for every file (imports, classes and their methods, top-level functions
and their positional parameters, assignment targets, line counts), and can turn
that report into placeholder pytest files.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <dir>/.pyscaffold/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initLogging keeps log lines short unless verbose output was requested.
func initLogging() {
	if verbose {
		log.SetFlags(log.LstdFlags)
	} else {
		log.SetFlags(0)
	}
}

// loadConfig resolves configuration for an analysis root. An explicit
// --config file replaces the .pyscaffold/config.yml lookup in dir.
func loadConfig(dir string) (*config.Config, error) {
	var loader config.Loader
	if cfgFile != "" {
		loader = config.NewFileLoader(cfgFile)
	} else {
		loader = config.NewLoader(dir)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// rootDir returns the directory argument, defaulting to the current directory.
func rootDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
