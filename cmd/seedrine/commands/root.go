package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/seedrine/internal/app"
	"github.com/florianilch/seedrine/internal/auth"
	"github.com/florianilch/seedrine/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "seedrine",
		Usage: "Seedr credential ambassador",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:  "state--storage",
				Usage: "state storage backend (file|keyring|mem)",
				Value: string(app.DefaultConfigStateStorage),
			},
			&cli.StringFlag{
				Name:  "state--file",
				Usage: "path to the state file (file storage)",
			},
			&cli.StringFlag{
				Name:  "api--base-url",
				Usage: "authentication service base URL",
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			tokenCommand(),
			refreshCommand(),
			deviceCommand(),
			statusCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

// setup loads configuration, installs the observability layer, and builds the
// credential manager. The returned teardown flushes log export.
func setup(ctx context.Context, cmd *cli.Command) (*auth.Manager, func(), error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	shutdown, err := observability.Instrument(ctx, cfg.ObservabilityConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up observability layer: %w", err)
	}
	teardown := func() {
		if err := shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "log export shutdown failed", "error", err)
		}
	}

	manager, err := app.NewManager(cfg)
	if err != nil {
		teardown()
		return nil, nil, fmt.Errorf("failed to create credential manager: %w", err)
	}

	return manager, teardown, nil
}
