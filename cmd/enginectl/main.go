// Command enginectl drives a UCI engine over every game in a PGN file,
// printing each game's best move and final evaluation.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/xalluna/EngineUCI/internal/config"
	"github.com/xalluna/EngineUCI/internal/pool"
	"github.com/xalluna/EngineUCI/internal/transport"
	"github.com/xalluna/EngineUCI/pkg/pgnreader"
	"github.com/xalluna/EngineUCI/pkg/sanlan"
	"github.com/xalluna/EngineUCI/pkg/uci"
)

const searchDepth = 15

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: enginectl <pgn-file>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	pgnBytes, err := os.ReadFile(os.Args[1])
	if err != nil {
		panic(err)
	}

	p := pool.New(cfg.Pool.Capacity, log)
	p.Register("default", func() (*uci.Session, error) {
		t := transport.New(cfg.Engine.Path, cfg.Engine.Args, log)
		s := uci.New(t, log)
		if err := s.Start(); err != nil {
			return nil, err
		}
		return s, nil
	})
	defer p.Dispose()

	ctx := context.Background()
	handle, err := p.Checkout(ctx, "default")
	if err != nil {
		panic(err)
	}
	defer handle.Dispose()

	session := handle.Session
	if err := session.Handshake(ctx); err != nil {
		panic(err)
	}
	if err := session.WaitReady(ctx); err != nil {
		panic(err)
	}

	games := pgnreader.ParseMultipleGames(string(pgnBytes))
	log.Info().Int("games", len(games)).Msg("parsed pgn file")

	for i, game := range games {
		playGame(ctx, log, session, i, game)
	}
}

func playGame(ctx context.Context, log zerolog.Logger, session *uci.Session, index int, game pgnreader.PgnGame) {
	lan, err := sanlan.ConvertGame(game.Moves)
	if err != nil {
		log.Warn().Err(err).Int("game", index).Msg("skipping game: SAN conversion failed")
		return
	}

	if err := session.NewGame(ctx); err != nil {
		panic(err)
	}
	if err := session.SetPosition(ctx, nil, lan); err != nil {
		panic(err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	limit := uci.SearchLimit{Depth: searchDepth}

	move, err := session.GetBestMove(searchCtx, limit)
	if err != nil {
		log.Warn().Err(err).Int("game", index).Msg("search failed")
		return
	}

	evals, err := session.Evaluate(searchCtx, limit)
	score := "n/a"
	if err == nil {
		if best, ok := evals.Best(); ok {
			score = best.Score
		}
	}

	fmt.Printf("game %d: %s vs %s — bestmove=%s eval=%s\n",
		index, game.Headers["White"], game.Headers["Black"], move, score)
}
