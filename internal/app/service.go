package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crazyeights/internal/bot"
	"crazyeights/internal/domain"
	"crazyeights/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// Random is the randomness the service needs: shuffling for the rules engine
// and a bounded integer for the start policy.
type Random interface {
	domain.Shuffler
	Intn(n int) int
}

// Option configures a Service.
type Option func(s *Service)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.log = logger
	}
}

// WithScoreboard sets where won games are reported.
func WithScoreboard(sb ports.Scoreboard) Option {
	return func(s *Service) {
		if sb != nil {
			s.scoreboard = sb
		}
	}
}

// WithStartPolicy sets who acts first in new games.
func WithStartPolicy(p StartPolicy) Option {
	return func(s *Service) {
		s.start = p
	}
}

// WithClock replaces time.Now for game dates and score records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service contains Crazy Eights use-cases operating on domain state.
type Service struct {
	rng        Random
	log        zerolog.Logger
	scoreboard ports.Scoreboard
	start      StartPolicy
	now        func() time.Time
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng Random, opts ...Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	s := &Service{
		rng: rng,
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	// ErrRecordResult wraps a scoreboard failure. The game itself was won and
	// the session is in its final state.
	ErrRecordResult = errors.New("failed to record game result")
	// ErrDrawLimit is returned when the computer drew its maximum without
	// finding a playable card.
	ErrDrawLimit = errors.New("computer reached its draw limit")
)

// NewGame deals a new game between two distinct players.
func (s *Service) NewGame(playerA, playerB string) (*domain.Session, []Event, error) {
	if playerA == "" || playerB == "" || playerA == playerB {
		return nil, nil, fmt.Errorf("%w: %q and %q", domain.ErrInvalidPlayers, playerA, playerB)
	}

	first := domain.SeatA
	if s.start == StartRandom {
		first = domain.Seat(s.rng.Intn(2))
	}

	game := domain.Deal(playerA, playerB, s.rng, first)
	game.ID = uuid.NewString()
	game.CreatedAt = s.now().UTC()

	top, _ := game.TopCard()
	s.log.Info().
		Str("game_id", game.ID).
		Str("player_a", playerA).
		Str("player_b", playerB).
		Str("first", game.CurrentPlayer()).
		Stringer("top", top).
		Msg("game created")

	events := make([]Event, 0, 3)
	events = append(events, Event{
		Kind: EventGameCreated,
		Payload: GameCreatedPayload{
			GameID:          game.ID,
			Players:         game.Players,
			FirstTurnUserID: game.CurrentPlayer(),
			TopCard:         top,
			CurrentSuit:     game.CurrentSuit,
		},
	})
	for _, p := range game.Players {
		hand, _ := game.Hand(p)
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: p, Hand: hand},
			Recipients: []string{p},
		})
	}
	return game, events, nil
}

// Play parses a boundary (suit, rank) pair and plays it. An empty declared
// suit means none was given.
func (s *Service) Play(ctx context.Context, game *domain.Session, player, suit, rank, declared string) (domain.Outcome, []Event, error) {
	card, err := domain.ParseCard(suit, rank)
	if err != nil {
		return domain.OutcomeContinued, nil, err
	}
	var decl *domain.Suit
	if declared != "" {
		d, err := domain.ParseSuit(declared)
		if err != nil {
			return domain.OutcomeContinued, nil, err
		}
		decl = &d
	}
	return s.PlayCard(ctx, game, player, card, decl)
}

// PlayCard plays card for player and reports a win to the scoreboard.
func (s *Service) PlayCard(ctx context.Context, game *domain.Session, player string, card domain.Card, declared *domain.Suit) (domain.Outcome, []Event, error) {
	outcome, err := game.Play(player, card, declared)
	if err != nil {
		s.log.Debug().Err(err).Str("game_id", game.ID).Str("player", player).Stringer("card", card).Msg("play rejected")
		return outcome, nil, err
	}

	s.log.Info().
		Str("game_id", game.ID).
		Str("player", player).
		Stringer("card", card).
		Stringer("suit", game.CurrentSuit).
		Msg("card played")

	played := CardPlayedPayload{
		UserID:      player,
		Card:        card,
		CurrentSuit: game.CurrentSuit,
	}
	if card.IsEight() {
		d := game.CurrentSuit
		played.Declared = &d
	}
	if outcome == domain.OutcomeContinued {
		played.NextTurnUserID = game.CurrentPlayer()
	}
	events := []Event{{Kind: EventCardPlayed, Payload: played}}

	if outcome != domain.OutcomeGameWon {
		return outcome, events, nil
	}

	winner, loser := game.WinnerID(), game.LoserID()
	s.log.Info().Str("game_id", game.ID).Str("winner", winner).Str("loser", loser).Msg("game won")
	events = append(events, Event{
		Kind:    EventGameWon,
		Payload: GameWonPayload{GameID: game.ID, WinnerUserID: winner, LoserUserID: loser},
	})

	if s.scoreboard == nil {
		return outcome, events, nil
	}
	res := ports.Result{GameID: game.ID, Winner: winner, Loser: loser, At: s.now().UTC()}
	if err := s.scoreboard.RecordResult(ctx, res); err != nil {
		s.log.Error().Err(err).Str("game_id", game.ID).Msg("record result")
		return outcome, events, fmt.Errorf("%w: %v", ErrRecordResult, err)
	}
	return outcome, events, nil
}

// Draw draws one card for player. The drawn card is only sent to the drawer.
func (s *Service) Draw(game *domain.Session, player string) (domain.Card, []Event, error) {
	discards := len(game.DiscardPile)
	idx, err := game.Draw(player, s.rng)
	if err != nil {
		s.log.Debug().Err(err).Str("game_id", game.ID).Str("player", player).Msg("draw rejected")
		return domain.Card{}, nil, err
	}
	card := idx.Card()

	s.log.Debug().Str("game_id", game.ID).Str("player", player).Stringer("card", card).Msg("card drawn")
	events := []Event{{
		Kind:       EventCardDrawn,
		Payload:    CardDrawnPayload{UserID: player, Card: card},
		Recipients: []string{player},
	}}

	if discards > 1 && len(game.DiscardPile) == 1 {
		s.log.Info().Str("game_id", game.ID).Int("draw_pile", len(game.DrawPile)).Msg("deck reshuffled")
		events = append(events, Event{
			Kind:    EventDeckReshuffled,
			Payload: DeckReshuffledPayload{DrawPileSize: len(game.DrawPile)},
		})
	}
	return card, events, nil
}

// Cancel abandons a running game. Nothing is reported to the scoreboard.
func (s *Service) Cancel(game *domain.Session) ([]Event, error) {
	if err := game.Cancel(); err != nil {
		return nil, err
	}
	s.log.Info().Str("game_id", game.ID).Msg("game cancelled")
	return []Event{{Kind: EventGameCancelled, Payload: GameCancelledPayload{GameID: game.ID}}}, nil
}

// ComputerTurn plays one full turn for agent: it draws until its brain picks a
// card, then plays that card. maxDraws <= 0 means DefaultMaxComputerDraws.
func (s *Service) ComputerTurn(ctx context.Context, game *domain.Session, agent *bot.Agent, maxDraws int) (domain.Outcome, []Event, error) {
	if maxDraws <= 0 {
		maxDraws = DefaultMaxComputerDraws
	}
	if !game.InProgress() {
		return domain.OutcomeContinued, nil, fmt.Errorf("%w: status %s", domain.ErrGameNotInProgress, game.Status)
	}
	if game.CurrentPlayer() != agent.ID {
		return domain.OutcomeContinued, nil, fmt.Errorf("%w: %q", domain.ErrNotPlayersTurn, agent.ID)
	}

	var events []Event
	for draws := 0; ; draws++ {
		sel, err := agent.Decide(game)
		if err != nil {
			return domain.OutcomeContinued, events, err
		}
		if !sel.MustDraw {
			outcome, evs, err := s.PlayCard(ctx, game, agent.ID, sel.Card, sel.Declared)
			return outcome, append(events, evs...), err
		}
		if draws >= maxDraws {
			return domain.OutcomeContinued, events, fmt.Errorf("%w: %d draws", ErrDrawLimit, draws)
		}
		_, evs, err := s.Draw(game, agent.ID)
		events = append(events, evs...)
		if err != nil {
			return domain.OutcomeContinued, events, err
		}
	}
}
