package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/isdmx/mcp-postgres/config"
	"github.com/isdmx/mcp-postgres/interpreter"
	"github.com/isdmx/mcp-postgres/launcher"
	"github.com/isdmx/mcp-postgres/logger"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, config.New))
}

// run builds the application, launches the server with args and returns the
// exit code to terminate with. extra options are appended to the fx graph.
func run(ctx context.Context, args []string, stderr io.Writer, loadConfig func() (*config.Config, error), extra ...fx.Option) int {
	var (
		l   *launcher.Launcher
		log *zap.Logger
	)

	app := fx.New(
		// Provide dependencies
		fx.Provide(
			// Config
			loadConfig,

			// Logger with configuration
			logger.NewFromConfig,

			// Interpreter discovery based on config
			interpreter.NewLocatorFromConfig,

			// Server launcher
			launcher.NewFromConfig,
		),

		// Flush buffered log entries when the app stops
		fx.Invoke(func(lc fx.Lifecycle, log *zap.Logger) {
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					_ = log.Sync()
					return nil
				},
			})
		}),

		fx.Populate(&l, &log),

		// Use the application logger for fx logs
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		fx.Options(extra...),
	)

	if err := app.Err(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return launcher.ExitFailure
	}

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return launcher.ExitFailure
	}

	exitCode := l.Run(ctx, args)

	if err := app.Stop(ctx); err != nil {
		log.Debug("application stop failed", zap.Error(err))
	}
	return exitCode
}
