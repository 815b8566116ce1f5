// Package main implements the stale-clean command line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stale-clean/pkg/constants"
	"stale-clean/pkg/core"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stale-clean",
	Short: "Find, export and delete files older than a retention period",
	Long: `stale-clean scans a folder for files that have not been modified within
the retention period (90 days by default), lists them with size and age,
exports the list as a semicolon separated CSV file and can delete them.`,
	SilenceUsage: true,
}

// globalFlags holds the flags shared by every subcommand.
type globalFlags struct {
	configPath string
	root       string
	extension  string
	days       int
	exclude    []string
	verbose    bool
}

var globalOpts = &globalFlags{}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalOpts.configPath, "config", constants.ConfigFile, "config file path")
	pf.StringVarP(&globalOpts.root, "root", "r", "", "folder to scan")
	pf.StringVarP(&globalOpts.extension, "ext", "e", "", "only consider files ending with this extension, e.g. .pdf")
	pf.IntVar(&globalOpts.days, "days", constants.DefaultRetentionDays, "retention period in days")
	pf.StringSliceVar(&globalOpts.exclude, "exclude", nil, "wildcard patterns of paths to leave alone")
	pf.BoolVarP(&globalOpts.verbose, "verbose", "v", false, "also write the log to stderr")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(historyCmd)
}

// app bundles what a subcommand needs after flags and config are merged.
type app struct {
	cfg      *core.Config
	logger   *slog.Logger
	location *time.Location
	out      io.Writer
	closer   io.Closer
}

func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := core.ParseConfig(globalOpts.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg, globalOpts)

	logCfg := cfg.LogConfig()
	logCfg.Console = logCfg.Console || globalOpts.verbose
	logger, closer, err := core.SetupLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	loc, err := core.ResolveLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("falling back to local timezone", slog.Any("error", err))
	}

	return &app{
		cfg:      cfg,
		logger:   logger.With(slog.String("command", cmd.Name())),
		location: loc,
		out:      cmd.OutOrStdout(),
		closer:   closer,
	}, nil
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cmd *cobra.Command, cfg *core.Config, opts *globalFlags) {
	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = opts.root
	}
	if flags.Changed("ext") {
		cfg.Extension = opts.extension
	}
	if flags.Changed("days") && opts.days > 0 {
		cfg.RetentionDays = opts.days
	}
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, opts.exclude...)
	}
}
