// Command wordscramble runs the Word Scramble game.
//
// Modes:
//   - serve (default): JSON HTTP API, one session per player cookie.
//   - play:            interactive game in the terminal.
//
// Configuration comes from the environment (see internal/config), optionally
// loaded from a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/httpserver"
	"github.com/robalobadob/wordscramble/internal/spelling"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

const version = "1.0.0"

func main() {
	a := &app{}
	cmd := &cli.Command{
		Name:    "wordscramble",
		Usage:   "make as many words as you can from a root word",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "load environment from `FILE` (default ./.env if present)"},
			&cli.StringFlag{Name: "log-level", Usage: "override LOG_LEVEL (trace|debug|info|warn|error)"},
		},
		Before: a.before,
		Action: a.serve,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "override PORT"},
				},
				Action: a.serve,
			},
			{
				Name:  "play",
				Usage: "play in the terminal",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "daily", Usage: "use today's root word"},
				},
				Action: a.play,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("wordscramble exited")
	}
}

// app carries state resolved in before() to the command actions.
type app struct {
	cfg config.Config
}

// before loads .env, resolves configuration, and sets the global log level.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var files []string
	if f := cmd.String("env-file"); f != "" {
		files = append(files, f)
	}
	if err := config.LoadEnv(files...); err != nil {
		return ctx, fmt.Errorf("load env: %w", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return ctx, fmt.Errorf("config: %w", err)
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	a.cfg = cfg
	return ctx, nil
}

// collaborators loads the root-word pool and opens the spelling oracle.
// A pool that cannot be loaded is a startup failure, not something to retry.
func (a *app) collaborators(ctx context.Context) ([]string, spelling.Oracle, func() error, error) {
	provider := words.FromEnv()
	pool, err := words.Load(ctx, provider)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info().Str("source", provider.Source()).Int("words", len(pool)).Msg("root words loaded")

	oracle, closeFn, err := spelling.Open(ctx, a.cfg.Spelling)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("spelling oracle: %w", err)
	}
	return pool, oracle, closeFn, nil
}

// serve runs the HTTP API until interrupted.
func (a *app) serve(ctx context.Context, cmd *cli.Command) error {
	if a.cfg.DevSecret {
		if a.cfg.Production {
			return errors.New("APP_SECRET must be set when NODE_ENV=production")
		}
		log.Warn().Msg("APP_SECRET not set; using development secret")
	}

	pool, oracle, closeFn, err := a.collaborators(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("close spelling oracle")
		}
	}()

	port := a.cfg.Port
	if p := cmd.String("port"); p != "" {
		port = p
	}

	srv := httpserver.New(store.NewMemoryStore(), oracle, pool, a.cfg)
	log.Info().Str("port", port).Str("oracle", a.cfg.Spelling.Backend).Msg("starting wordscramble server")
	return srv.Start(ctx, ":"+port)
}
