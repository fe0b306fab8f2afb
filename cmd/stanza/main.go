package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/lindgren/stanza/internal"
	pkgconfig "github.com/lindgren/stanza/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Flag overrides.
	if cmd.IsSet("root") {
		cfg.Content.Root = cmd.String("root")
	}
	if cmd.IsSet("out") {
		cfg.Output.Dir = cmd.String("out")
	}

	return cfg, nil
}

func runBuild(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithWatch(cmd.Bool("watch")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("build error: %w", err)
	}
	return nil
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithCheckOnly(true),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("check error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "stanza",
		Usage: "Deterministic blog publishing pipeline: content index, taxonomy, redirects, and a purged utility stylesheet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("STANZA_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Content root override",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output directory override",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Run the pipeline once and write artifacts",
				Action: runBuild,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Rebuild on content or theme changes",
					},
				},
			},
			{
				Name:   "check",
				Usage:  "Validate documents and theme configuration without writing artifacts",
				Action: runCheck,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
