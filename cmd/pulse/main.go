package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/sahara-community/pulse/internal/config"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	var (
		configPath string
		conf       config.Config
	)

	app := &cli.Command{
		Name:    "pulse",
		Usage:   "Real-time fan-out and notification delivery",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("PULSE_CONFIG"),
				Value:       "/etc/pulse/config.yaml",
				Destination: &configPath,
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("PULSE_DEBUG"),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}

			loaded, err := config.Load(configPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			conf = loaded
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the realtime and notification server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, conf)
				},
			},
			{
				Name:  "migrate",
				Usage: "Apply database migrations and exit",
				Action: func(ctx context.Context, c *cli.Command) error {
					return migrate(conf)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		slog.Error("pulse exited with error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}
