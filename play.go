package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/messages"
)

// play runs the terminal front end on stdin/stdout.
func (a *app) play(ctx context.Context, cmd *cli.Command) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	pool, oracle, closeFn, err := a.collaborators(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	eng := game.New(oracle,
		game.WithLanguage(a.cfg.Language),
		game.WithOracleTimeout(a.cfg.OracleTimeout),
		game.WithLogger(log.Logger),
	)

	var picker game.Picker
	if cmd.Bool("daily") {
		picker = daily.Picker{Salt: a.cfg.DailySalt}
	}
	t := &terminal{eng: eng, pool: pool, fallback: a.cfg.FallbackWord, picker: picker, out: os.Stdout}
	return t.run(ctx, os.Stdin)
}

// terminal is a line-oriented presenter over one engine.
//
// Commands:
//   :new    start a new game
//   :words  list accepted words and the score
//   :quit   leave
// Anything else is submitted as a word.
type terminal struct {
	eng      *game.Engine
	pool     []string
	fallback string
	picker   game.Picker // nil: engine default
	out      io.Writer
}

func (t *terminal) run(ctx context.Context, in io.Reader) error {
	t.start()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		switch strings.TrimSpace(line) {
		case ":quit", ":q":
			t.printWords()
			return nil
		case ":new":
			t.start()
			continue
		case ":words":
			t.printWords()
			continue
		}

		res, snap, err := t.eng.ValidateSnapshot(ctx, line)
		switch {
		case errors.Is(err, game.ErrOracleUnavailable):
			fmt.Fprintln(t.out, "Spell checker unavailable, try that word again.")
			continue
		case err != nil:
			return err
		}

		if res.Accepted() {
			fmt.Fprintf(t.out, "+ %s (%d)  score: %d\n", res.Word, game.Length(res.Word), snap.Score)
			continue
		}
		if alert := messages.For(res.Kind, snap.RootWord); !alert.Empty() {
			fmt.Fprintf(t.out, "%s: %s\n", alert.Title, alert.Message)
		}
	}
	return sc.Err()
}

func (t *terminal) start() {
	root := t.eng.StartSessionWith(t.picker, t.pool, t.fallback)
	fmt.Fprintf(t.out, "Root word: %s\n", root)
}

func (t *terminal) printWords() {
	snap := t.eng.Snapshot()
	for _, w := range snap.UsedWords {
		fmt.Fprintf(t.out, "  %d  %s\n", game.Length(w), w)
	}
	fmt.Fprintf(t.out, "Score: %d\n", snap.Score)
}
