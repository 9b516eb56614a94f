// Package main is the entry point for sysfacts. It loads the layered
// configuration, runs the enabled collector groups once and writes the
// JSON report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Guliveer/sysfacts/internal/collector"
	"github.com/Guliveer/sysfacts/internal/config"
	"github.com/Guliveer/sysfacts/internal/lang"
	"github.com/Guliveer/sysfacts/internal/lang/javascript"
	"github.com/Guliveer/sysfacts/internal/lang/python"
	"github.com/Guliveer/sysfacts/internal/output"
	"github.com/Guliveer/sysfacts/internal/platform"
	"github.com/Guliveer/sysfacts/internal/probe"
	"github.com/Guliveer/sysfacts/internal/snapshot"
)

// version is set at build time via -ldflags.
var version = "dev"

type options struct {
	configPath   string
	outputDir    string
	outputFile   string
	projectRoot  string
	logLevel     string
	noSystem     bool
	noPython     bool
	noJavaScript bool
}

func main() {
	var opts options
	if err := newRootCommand(&opts).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sysfacts: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sysfacts",
		Short:         "Collect host, Python and JavaScript facts into one JSON report",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, *opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default: search standard locations)")
	f.StringVar(&opts.outputDir, "output-dir", "", "directory the report is written to")
	f.StringVar(&opts.outputFile, "output-file", "", "report file name")
	f.StringVar(&opts.projectRoot, "project-root", "", "project directory for language and git facts")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	f.BoolVar(&opts.noSystem, "no-system", false, "skip the system section")
	f.BoolVar(&opts.noPython, "no-python", false, "skip the python section")
	f.BoolVar(&opts.noJavaScript, "no-javascript", false, "skip the javascript section")
	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger := initLogger(cfg).With(zap.String("run_id", uuid.NewString()))
	defer logger.Sync()

	logger.Info("Starting sysfacts",
		zap.String("version", version),
		zap.String("output_dir", cfg.Output.Directory),
		zap.String("project_root", cfg.Project.RootDir))

	plat, err := platform.New()
	if err != nil {
		logger.Error("Unsupported platform", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := probe.NewExec(
		probe.WithTimeout(cfg.Probe.Timeout.Duration),
		probe.WithLogger(logger.Named("probe")),
	)
	root, err := filepath.Abs(cfg.Project.RootDir)
	if err != nil {
		root = cfg.Project.RootDir
	}

	snap := snapshot.New(buildGroups(cfg, runner, plat, root, logger), cfg.Probe.Concurrency, logger)
	path, err := snap.Run(ctx, output.New(cfg.Output.Directory, logger.Named("output")), cfg.Output.Filename)
	if err != nil {
		logger.Error("No report written", zap.Error(err))
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	return nil
}

func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cli := config.CLIOverrides{
		OutputDir:   opts.outputDir,
		OutputFile:  opts.outputFile,
		ProjectRoot: opts.projectRoot,
		LogLevel:    opts.logLevel,
	}
	disabled := false
	if opts.noSystem {
		cli.System = &disabled
	}
	if opts.noPython {
		cli.Python = &disabled
	}
	if opts.noJavaScript {
		cli.JavaScript = &disabled
	}

	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadLayered(cli, embeddedConfig, opts.configPath)
	} else {
		cfg, err = config.LoadLayered(cli, embeddedConfig)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildGroups(cfg *config.Config, runner probe.Runner, plat platform.Platform, root string, logger *zap.Logger) snapshot.Groups {
	var groups snapshot.Groups
	langOpts := lang.Options{
		Runner:      runner,
		Platform:    plat,
		ProjectRoot: root,
	}

	if cfg.Collectors.System {
		groups.System = func(reg *collector.Registry) {
			collector.RegisterSystem(reg, collector.SystemOptions{
				Runner:       runner,
				Platform:     plat,
				ProjectRoot:  root,
				TopProcesses: cfg.Collectors.TopProcesses,
				Logger:       logger.Named("system"),
			})
		}
	}
	if cfg.Collectors.Python {
		opts := langOpts
		opts.Logger = logger.Named("python")
		groups.Python = func(reg *collector.Registry) { python.Register(reg, opts) }
	}
	if cfg.Collectors.JavaScript {
		opts := langOpts
		opts.Logger = logger.Named("javascript")
		groups.JavaScript = func(reg *collector.Registry) { javascript.Register(reg, opts) }
	}
	return groups
}

// initLogger creates a zap logger based on the configuration.
// It outputs to both console (human-readable) and optionally a JSON log file.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleConfig := encoderConfig
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		consoleConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	// File output (structured JSON, if configured)
	if cfg.Logging.Directory != "" {
		if file, err := openLogFile(cfg.Logging.Directory); err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		} else {
			fmt.Fprintf(os.Stderr, "sysfacts: log file disabled: %v\n", err)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("sysfacts_%s.log", time.Now().Format("20060102_150405"))
	return os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
}
