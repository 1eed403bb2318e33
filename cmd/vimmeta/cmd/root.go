package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/corey/vimmeta/internal/app"
	"github.com/corey/vimmeta/internal/config"
)

var (
	configFile   string
	formatFlag   string
	logLevelFlag string
	colorFlag    string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vimmeta",
	Short: "vimmeta: Vim plugin metadata extractor",
	Long: "Extracts functions, commands, variables, flags and doc comments from Vim script\n" +
		"plugins, and keeps an index of assembled plugins.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	switch formatFlag {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", formatFlag)
	}

	loaded, path, err := config.Load(config.LoadOptions{ConfigFile: configFile})
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		loaded.LogLevel = logLevelFlag
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded

	logger = app.NewLogger(os.Stderr, cfg.Level())
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	return nil
}

// newApp opens the store-backed application with the loaded configuration.
func newApp() (*app.App, error) {
	a, err := app.New(app.Config{
		DBPath:        cfg.DBPath,
		Workers:       cfg.Workers,
		CacheSize:     cfg.CacheSize,
		Extensions:    cfg.Extensions,
		WatchDebounce: cfg.WatchDebounce,
		Logger:        logger,
	})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(cfg.DBPath))
		}
		return nil, err
	}
	return a, nil
}

// cmdContext returns the command's context, or Background when run outside Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configFile, "config", "", "Config file (default ./"+config.LocalFileName+" if present)")
	f.StringVarP(&formatFlag, "format", "f", formatText, "Output format: text, json, yaml")
	f.StringVar(&logLevelFlag, "log-level", "info", "Log level: debug, info, warn, error")
	f.StringVar(&colorFlag, "color", "auto", "Colorize text output: auto, always, never")

	rootCmd.AddCommand(moduleCmd)
	rootCmd.AddCommand(pluginCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(watchCmd)
}
