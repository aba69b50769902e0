package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"crazyeights/internal/domain"
	"crazyeights/internal/ports"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func card(s domain.Suit, r domain.Rank) domain.Card {
	return domain.Card{Suit: s, Rank: r}
}

// riggedGame lays out a running game between alice (seat A) and bob (seat B).
// Cards not listed go to the draw pile in catalog order.
func riggedGame(t *testing.T, handA, handB, discard []domain.Card, current domain.Suit, turn domain.Seat) *domain.Session {
	t.Helper()
	a, err := domain.PileOf(handA...)
	require.NoError(t, err)
	b, err := domain.PileOf(handB...)
	require.NoError(t, err)
	d, err := domain.PileOf(discard...)
	require.NoError(t, err)

	used := make(map[domain.CardIndex]bool)
	for _, p := range []domain.Pile{a, b, d} {
		for _, c := range p {
			used[c] = true
		}
	}
	var draw domain.Pile
	for i := domain.CardIndex(0); i < domain.DeckSize; i++ {
		if !used[i] {
			draw = append(draw, i)
		}
	}

	game := &domain.Session{
		ID:          "game-1",
		Players:     [2]string{"alice", "bob"},
		Hands:       [2]domain.Pile{a, b},
		DiscardPile: d,
		DrawPile:    draw,
		CurrentSuit: current,
		Turn:        turn,
		Status:      domain.StatusInProgress,
		Moves:       []domain.Move{},
		CreatedAt:   fixedNow,
	}
	require.NoError(t, game.Validate())
	return game
}

type mockScoreboard struct {
	results []ports.Result
	err     error
}

func (m *mockScoreboard) RecordResult(ctx context.Context, r ports.Result) error {
	if m.err != nil {
		return m.err
	}
	m.results = append(m.results, r)
	return nil
}

var errScoreboardDown = errors.New("scoreboard down")

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}
