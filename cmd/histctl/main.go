// Package main is the entry point for histctl, a terminal demo of a
// reactive undo/redo history.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/histctl/internal/app"
	"github.com/dshills/histctl/internal/config"
	"github.com/dshills/histctl/internal/engine/history"
	"github.com/dshills/histctl/internal/logging"
	"github.com/dshills/histctl/internal/script"
	"github.com/dshills/histctl/internal/telemetry"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	ConfigPath  string
	LogLevel    string
	ScriptPath  string
	Headless    bool
	ShowVersion bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if opts.ShowVersion {
		fmt.Printf("histctl %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runWithConfig(ctx, opts, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("histctl", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.ScriptPath, "script", "", "Lua script to run against the history before the UI starts")
	fs.StringVar(&opts.ScriptPath, "s", "", "Lua script (shorthand)")
	fs.BoolVar(&opts.Headless, "headless", false, "Run the script and exit without starting the UI")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.ShowVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(output, "histctl - reactive undo/redo history demo\n\n")
		fmt.Fprintf(output, "Usage: histctl [options]\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nEnvironment:\n")
		for _, name := range config.EnvVars() {
			fmt.Fprintf(output, "  %s\n", name)
		}
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  histctl                              Start the counter demo\n")
		fmt.Fprintf(output, "  histctl -c histctl.toml              Use a config file (reloaded on change)\n")
		fmt.Fprintf(output, "  histctl -s seed.lua -headless        Run a script without the UI\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.Headless && opts.ScriptPath == "" {
		return opts, errors.New("-headless requires -script")
	}
	return opts, nil
}

// loadConfig loads the config file and applies command line overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runWithConfig(ctx context.Context, opts options, cfg *config.Config) error {
	// Text logs would corrupt the terminal UI, so they need a file there.
	var logOutput io.Writer = os.Stderr
	if !opts.Headless && cfg.Logging.File == "" {
		logOutput = io.Discard
	}
	logs, err := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Output:  logOutput,
		File:    cfg.Logging.File,
		Journal: cfg.Logging.Journal,
	})
	if err != nil {
		return err
	}
	defer logs.Close()
	logger := logs.Logger

	stack := history.NewStack(
		history.WithMaxEntries(cfg.History.MaxEntries),
		history.WithLogger(logging.WithComponent(logger, "history")),
	)
	defer stack.Dispose()

	var h history.History = stack
	if cfg.Tracing.Enabled {
		shutdown, err := initTracing(ctx, opts, cfg, logger)
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warn("tracing shutdown failed", "error", err)
			}
		}()
		h = telemetry.NewTracedHistory(stack, telemetry.WithParentContext(ctx))
	}

	if opts.ScriptPath != "" {
		state, err := script.NewState(h, script.WithLogger(logging.WithComponent(logger, "script")))
		if err != nil {
			return err
		}
		// Entries recorded by the script call back into the state.
		defer state.Close()

		if err := state.DoFile(opts.ScriptPath); err != nil {
			return fmt.Errorf("running script %s: %w", opts.ScriptPath, err)
		}
		logger.Info("script finished", "path", opts.ScriptPath,
			"undo_count", stack.UndoCount(), "redo_count", stack.RedoCount())
	}

	if opts.Headless {
		fmt.Printf("undo=%d redo=%d\n", stack.UndoCount(), stack.RedoCount())
		return nil
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}

	application, err := app.New(app.Options{
		Screen:  screen,
		History: h,
		Start:   cfg.Demo.Start,
		Step:    cfg.Demo.Step,
		Logger:  logging.WithComponent(logger, "app"),
	})
	if err != nil {
		return err
	}
	defer application.Dispose()

	if opts.ConfigPath != "" {
		watcher, err := watchConfig(opts.ConfigPath, application, stack, logs, logger)
		if err != nil {
			logger.Warn("config watching disabled", "path", opts.ConfigPath, "error", err)
		} else {
			defer watcher.Close()
		}
	}

	return application.Run(ctx)
}

// initTracing starts the tracer provider. Stdout export is dropped when
// the terminal UI owns stdout and no trace file is configured.
func initTracing(ctx context.Context, opts options, cfg *config.Config, logger *slog.Logger) (telemetry.ShutdownFunc, error) {
	useStdout := cfg.Tracing.Stdout
	if useStdout && !opts.Headless && cfg.Tracing.File == "" {
		logger.Warn("stdout trace export disabled while the UI is running; set tracing.file")
		useStdout = false
	}
	return telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
		UseStdout:      useStdout,
		File:           cfg.Tracing.File,
	})
}

// watchConfig applies reloaded settings on the application's event loop.
func watchConfig(path string, application *app.Application, stack *history.Stack, logs *logging.Logging, logger *slog.Logger) (*config.Watcher, error) {
	post := func(fn func()) {
		if err := application.Post(fn); err != nil {
			logger.Debug("dropped config update", "error", err)
		}
	}

	return config.NewWatcher(path,
		func(cfg *config.Config) {
			post(func() {
				stack.SetMaxEntries(cfg.History.MaxEntries)
				if err := logs.SetLevel(cfg.Logging.Level); err != nil {
					logger.Warn("invalid log level in reloaded config", "error", err)
				}
				application.SetStatus("config reloaded: max entries %d, log level %s",
					cfg.History.MaxEntries, cfg.Logging.Level)
			})
		},
		config.WithWatcherLogger(logging.WithComponent(logger, "config")),
		config.WithErrorHandler(func(err error) {
			post(func() {
				application.SetStatus("config reload failed: %v", err)
			})
		}),
	)
}
