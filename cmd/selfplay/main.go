package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"crazyeights/internal/app"
	"crazyeights/internal/bot"
	"crazyeights/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var (
	numGames = flag.Int("games", 100, "Number of games to play")
	seed     = flag.Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	levelA   = flag.String("a", "heuristic", "Brain of the first player (heuristic, random)")
	levelB   = flag.String("b", "random", "Brain of the second player (heuristic, random)")
	maxTurns = flag.Int("max-turns", 1000, "Turns after which a game is abandoned")
	verbose  = flag.Bool("verbose", false, "Log every move")
)

type stats struct {
	wins       map[string]int
	abandoned  int
	moves      int
	reshuffles int
}

func main() {
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("selfplay failed")
	}
}

func run() error {
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(*seed))

	agents, err := newAgents(rng)
	if err != nil {
		return err
	}
	svcLog := log.Logger.Level(zerolog.WarnLevel)
	if *verbose {
		svcLog = log.Logger
	}
	svc := app.NewService(rng, app.WithLogger(svcLog), app.WithStartPolicy(app.StartRandom))

	log.Info().Uint64("seed", *seed).Int("games", *numGames).Str("a", *levelA).Str("b", *levelB).Msg("starting selfplay")
	st := stats{wins: make(map[string]int)}
	for i := 0; i < *numGames; i++ {
		if err := playGame(context.Background(), svc, agents, &st); err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
	}

	for _, a := range agents {
		fmt.Printf("%-16s %d wins\n", a.ID, st.wins[a.ID])
	}
	fmt.Printf("abandoned        %d\n", st.abandoned)
	if *numGames > 0 {
		fmt.Printf("average moves    %.1f\n", float64(st.moves)/float64(*numGames))
		fmt.Printf("reshuffles       %d\n", st.reshuffles)
	}
	return nil
}

func newAgents(rng *rand.Rand) ([2]*bot.Agent, error) {
	var agents [2]*bot.Agent
	for i, name := range []string{*levelA, *levelB} {
		level, err := bot.ParseLevel(name)
		if err != nil {
			return agents, err
		}
		brain, err := bot.NewBrain(level, rng)
		if err != nil {
			return agents, err
		}
		agents[i] = bot.NewAgent(fmt.Sprintf("%c-%s", 'a'+i, level), brain)
	}
	return agents, nil
}

// playGame runs one game between the two agents. A game in which neither side
// can move any more is counted as abandoned.
func playGame(ctx context.Context, svc *app.Service, agents [2]*bot.Agent, st *stats) error {
	game, _, err := svc.NewGame(agents[0].ID, agents[1].ID)
	if err != nil {
		return err
	}

	for turn := 0; turn < *maxTurns; turn++ {
		agent := agents[game.Turn]
		outcome, events, err := svc.ComputerTurn(ctx, game, agent, app.DefaultMaxComputerDraws)
		for _, ev := range events {
			if ev.Kind == app.EventDeckReshuffled {
				st.reshuffles++
			}
		}
		if errors.Is(err, domain.ErrNoLegalMoveAndNoDrawPossible) || errors.Is(err, app.ErrDrawLimit) {
			log.Debug().Str("game_id", game.ID).Err(err).Msg("game stuck")
			break
		}
		if err != nil {
			return err
		}
		if outcome == domain.OutcomeGameWon {
			st.wins[game.WinnerID()]++
			st.moves += len(game.Moves)
			return nil
		}
	}

	st.abandoned++
	st.moves += len(game.Moves)
	_, err = svc.Cancel(game)
	return err
}
