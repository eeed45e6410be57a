package commands

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/statementlens/statementlens/internal/buildinfo"
	"github.com/statementlens/statementlens/internal/config"
	"github.com/statementlens/statementlens/internal/importer"
	"github.com/statementlens/statementlens/internal/logging"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "statementlens",
		Short:   "Read NZ bank statement exports into one clean transaction ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: <repo>/"+config.FileName+" when present)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newParseCommand(opts))
	rootCmd.AddCommand(newInspectCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))

	return rootCmd
}

// setup loads the configuration for repoDir and installs the logger.
func (o *globalOptions) setup(repoDir string) (*config.Config, error) {
	cfg, err := o.loadConfig(repoDir)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if err := logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *globalOptions) loadConfig(repoDir string) (*config.Config, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	path := filepath.Join(repoDir, config.FileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.FromEnv()
	}
	return config.Load(path)
}

func newRegistry(cfg *config.Config) (*importer.Registry, error) {
	loc, err := cfg.Parsing.Location()
	if err != nil {
		return nil, err
	}
	return importer.DefaultRegistry(importer.NewPipeline(importer.WithLocation(loc))), nil
}
