package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func card(s Suit, r Rank) Card {
	return Card{Suit: s, Rank: r}
}

func suitPtr(s Suit) *Suit {
	return &s
}

// buildSession lays out a running game with the given hands and discard pile
// (top first). Every other card goes to the draw pile in index order.
func buildSession(t *testing.T, handA, handB, discard []Card, current Suit) *Session {
	t.Helper()
	a, err := PileOf(handA...)
	require.NoError(t, err)
	b, err := PileOf(handB...)
	require.NoError(t, err)
	d, err := PileOf(discard...)
	require.NoError(t, err)

	used := make(map[CardIndex]bool)
	for _, p := range []Pile{a, b, d} {
		for _, c := range p {
			used[c] = true
		}
	}
	var draw Pile
	for i := CardIndex(0); i < DeckSize; i++ {
		if !used[i] {
			draw = append(draw, i)
		}
	}

	s := &Session{
		ID:          "g1",
		Players:     [2]string{"alice", "bob"},
		Hands:       [2]Pile{a, b},
		DiscardPile: d,
		DrawPile:    draw,
		CurrentSuit: current,
		Turn:        SeatA,
		Status:      StatusInProgress,
		Moves:       []Move{},
	}
	require.NoError(t, s.Validate())
	return s
}

func TestDealLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := Deal("alice", "bob", rng, SeatA)

	require.Len(t, s.Hands[SeatA], HandSize)
	require.Len(t, s.Hands[SeatB], HandSize)
	require.Len(t, s.DiscardPile, 1)
	require.Len(t, s.DrawPile, DeckSize-2*HandSize-1)
	require.Equal(t, StatusInProgress, s.Status)
	require.Equal(t, SeatA, s.Turn)
	require.Empty(t, s.Moves)

	top, ok := s.TopCard()
	require.True(t, ok)
	require.Equal(t, top.Suit, s.CurrentSuit)
	require.NoError(t, s.Validate())
}

func TestDealIsReproducibleWithFixedSeed(t *testing.T) {
	s1 := Deal("alice", "bob", rand.New(rand.NewSource(7)), SeatB)
	s2 := Deal("alice", "bob", rand.New(rand.NewSource(7)), SeatB)
	require.Equal(t, s1, s2)
	require.Equal(t, SeatB, s1.Turn)
	require.Equal(t, "bob", s1.CurrentPlayer())
}

func TestCanPlay(t *testing.T) {
	tests := []struct {
		name    string
		top     Card
		current Suit
		play    Card
		want    bool
	}{
		{name: "rank match", top: card(Hearts, Seven), current: Hearts, play: card(Spades, Seven), want: true},
		{name: "suit match", top: card(Hearts, Seven), current: Hearts, play: card(Hearts, Three), want: true},
		{name: "no match", top: card(Hearts, Seven), current: Hearts, play: card(Clubs, Three), want: false},
		{name: "eight always plays", top: card(Hearts, Seven), current: Hearts, play: card(Clubs, Eight), want: true},
		{name: "declared suit on eight", top: card(Clubs, Eight), current: Diamonds, play: card(Diamonds, Five), want: true},
		{name: "eight's own suit ignored", top: card(Clubs, Eight), current: Diamonds, play: card(Clubs, Five), want: false},
		{name: "eight on eight", top: card(Clubs, Eight), current: Diamonds, play: card(Spades, Eight), want: true},
		{name: "current suit differs from top suit", top: card(Hearts, Seven), current: Spades, play: card(Hearts, Two), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanPlay(tt.top, tt.current, tt.play))
		})
	}
}

func TestIsLegalPlay(t *testing.T) {
	s := buildSession(t,
		[]Card{card(Spades, Seven), card(Hearts, Three), card(Clubs, Three)},
		[]Card{card(Diamonds, King), card(Diamonds, Queen)},
		[]Card{card(Hearts, Seven)},
		Hearts,
	)

	legal, err := s.IsLegalPlay("alice", card(Spades, Seven))
	require.NoError(t, err)
	require.True(t, legal, "rank match")

	legal, err = s.IsLegalPlay("alice", card(Hearts, Three))
	require.NoError(t, err)
	require.True(t, legal, "suit match")

	legal, err = s.IsLegalPlay("alice", card(Clubs, Three))
	require.NoError(t, err)
	require.False(t, legal)

	_, err = s.IsLegalPlay("bob", card(Diamonds, King))
	require.ErrorIs(t, err, ErrNotPlayersTurn)

	_, err = s.IsLegalPlay("alice", card(Diamonds, King))
	require.ErrorIs(t, err, ErrCardNotHeld)

	_, err = s.IsLegalPlay("mallory", card(Spades, Seven))
	require.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = s.IsLegalPlay("alice", Card{Suit: Suit(8), Rank: Ace})
	require.ErrorIs(t, err, ErrUnknownCard)

	plays, err := s.LegalPlays("alice")
	require.NoError(t, err)
	require.Equal(t, []Card{card(Spades, Seven), card(Hearts, Three)}, plays)
}

func TestPlayFlipsTurnAndUpdatesPiles(t *testing.T) {
	s := buildSession(t,
		[]Card{card(Spades, Seven), card(Hearts, Three)},
		[]Card{card(Diamonds, King), card(Diamonds, Queen)},
		[]Card{card(Hearts, Seven)},
		Hearts,
	)

	out, err := s.Play("alice", card(Spades, Seven), nil)
	require.NoError(t, err)
	require.Equal(t, OutcomeContinued, out)
	require.Equal(t, SeatB, s.Turn)
	require.Equal(t, Spades, s.CurrentSuit)
	require.Equal(t, []Card{card(Hearts, Three)}, s.Hands[SeatA].Cards())

	top, _ := s.TopCard()
	require.Equal(t, card(Spades, Seven), top)
	require.Len(t, s.DiscardPile, 2)
	require.Equal(t, []Move{{Player: "alice", Action: ActionPlay, Suit: Spades, Rank: Seven}}, s.Moves)
	require.NoError(t, s.Validate())
}

func TestCrazyEightOverride(t *testing.T) {
	s := buildSession(t,
		[]Card{card(Clubs, Eight), card(Hearts, Two)},
		[]Card{card(Clubs, Five), card(Diamonds, Five), card(Spades, Eight)},
		[]Card{card(Clubs, Seven)},
		Clubs,
	)

	out, err := s.Play("alice", card(Clubs, Eight), suitPtr(Diamonds))
	require.NoError(t, err)
	require.Equal(t, OutcomeContinued, out)
	require.Equal(t, Diamonds, s.CurrentSuit)
	require.Equal(t, suitPtr(Diamonds), s.Moves[0].Declared)

	legal, err := s.IsLegalPlay("bob", card(Clubs, Five))
	require.NoError(t, err)
	require.False(t, legal, "the eight's own suit no longer counts")

	legal, err = s.IsLegalPlay("bob", card(Diamonds, Five))
	require.NoError(t, err)
	require.True(t, legal)

	legal, err = s.IsLegalPlay("bob", card(Spades, Eight))
	require.NoError(t, err)
	require.True(t, legal)
}

func TestPlayFailuresLeaveSessionUntouched(t *testing.T) {
	s := buildSession(t,
		[]Card{card(Clubs, Eight), card(Clubs, Three), card(Hearts, Two)},
		[]Card{card(Diamonds, King)},
		[]Card{card(Hearts, Seven)},
		Hearts,
	)
	before := s.Clone()

	tests := []struct {
		name     string
		player   string
		card     Card
		declared *Suit
		wantErr  error
	}{
		{name: "eight without suit", player: "alice", card: card(Clubs, Eight), wantErr: ErrMissingDeclaredSuit},
		{name: "eight with bogus suit", player: "alice", card: card(Clubs, Eight), declared: suitPtr(Suit(5)), wantErr: ErrUnknownSuit},
		{name: "illegal card", player: "alice", card: card(Clubs, Three), wantErr: ErrIllegalPlay},
		{name: "card not held", player: "alice", card: card(Spades, Seven), wantErr: ErrCardNotHeld},
		{name: "wrong turn", player: "bob", card: card(Diamonds, King), wantErr: ErrNotPlayersTurn},
		{name: "stranger", player: "eve", card: card(Hearts, Two), wantErr: ErrUnknownPlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Play(tt.player, tt.card, tt.declared)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, before, s)
		})
	}
}

func TestDrawNeverFlipsTurn(t *testing.T) {
	s := buildSession(t,
		[]Card{card(Clubs, Three)},
		[]Card{card(Diamonds, King)},
		[]Card{card(Hearts, Seven)},
		Hearts,
	)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 3; i++ {
		want := s.DrawPile[0]
		got, err := s.Draw("alice", rng)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, SeatA, s.Turn)
	}
	require.Len(t, s.Hands[SeatA], 4)
	require.Len(t, s.Moves, 3)
	for _, m := range s.Moves {
		require.Equal(t, ActionDraw, m.Action)
		require.Equal(t, "alice", m.Player)
	}

	_, err := s.Draw("bob", rng)
	require.ErrorIs(t, err, ErrNotPlayersTurn)
	require.NoError(t, s.Validate())
}

func TestDrawLastCardReshuffles(t *testing.T) {
	top, x, y, z := CardIndex(20), CardIndex(21), CardIndex(22), CardIndex(23)
	last := CardIndex(30)

	var handA, handB Pile
	for i := CardIndex(0); i < DeckSize; i++ {
		switch i {
		case top, x, y, z, last:
			continue
		}
		if i%2 == 0 {
			handA = append(handA, i)
		} else {
			handB = append(handB, i)
		}
	}
	s := &Session{
		Players:     [2]string{"alice", "bob"},
		Hands:       [2]Pile{handA, handB},
		DiscardPile: Pile{top, x, y, z},
		DrawPile:    Pile{last},
		CurrentSuit: top.Card().Suit,
		Status:      StatusInProgress,
	}
	require.NoError(t, s.Validate())

	got, err := s.Draw("alice", rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.Equal(t, last, got)
	require.Equal(t, Pile{top}, s.DiscardPile)
	require.ElementsMatch(t, []CardIndex{x, y, z}, s.DrawPile)
	require.NoError(t, s.Validate())
}

func TestDrawWithNothingLeft(t *testing.T) {
	s := buildSession(t,
		[]Card{card(Clubs, Three)},
		[]Card{card(Diamonds, King)},
		[]Card{card(Hearts, Seven)},
		Hearts,
	)
	// Move the draw pile into bob's hand to reach the degenerate layout.
	s.Hands[SeatB] = append(s.Hands[SeatB], s.DrawPile...)
	s.DrawPile = nil
	before := s.Clone()

	_, err := s.Draw("alice", rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrNoLegalMoveAndNoDrawPossible)
	require.Equal(t, before, s)
}

func TestDrawRefillsEmptyDrawPileFirst(t *testing.T) {
	s := buildSession(t,
		[]Card{card(Clubs, Three)},
		[]Card{card(Diamonds, King)},
		[]Card{card(Hearts, Seven), card(Hearts, Nine)},
		Hearts,
	)
	s.Hands[SeatB] = append(s.Hands[SeatB], s.DrawPile...)
	s.DrawPile = nil

	got, err := s.Draw("alice", rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, card(Hearts, Nine), got.Card())
	require.Len(t, s.DiscardPile, 1)
	require.Empty(t, s.DrawPile)
	require.NoError(t, s.Validate())
}

func TestWinningPlayEndsGame(t *testing.T) {
	s := buildSession(t,
		[]Card{card(Hearts, Two)},
		[]Card{card(Diamonds, King)},
		[]Card{card(Hearts, Seven)},
		Hearts,
	)

	out, err := s.Play("alice", card(Hearts, Two), nil)
	require.NoError(t, err)
	require.Equal(t, OutcomeGameWon, out)
	require.Equal(t, StatusWon, s.Status)
	require.Equal(t, "alice", s.WinnerID())
	require.Equal(t, "bob", s.LoserID())
	require.Equal(t, SeatA, s.Turn, "turn does not move after the winning play")
	require.NoError(t, s.Validate())

	_, err = s.Play("bob", card(Diamonds, King), nil)
	require.ErrorIs(t, err, ErrGameNotInProgress)
	_, err = s.Draw("bob", rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrGameNotInProgress)
	_, err = s.Draw("alice", rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrGameNotInProgress)
	require.ErrorIs(t, s.Cancel(), ErrGameNotInProgress)
}

func TestWinningWithAnEight(t *testing.T) {
	s := buildSession(t,
		[]Card{card(Spades, Eight)},
		[]Card{card(Diamonds, King)},
		[]Card{card(Hearts, Seven)},
		Hearts,
	)
	_, err := s.Play("alice", card(Spades, Eight), nil)
	require.ErrorIs(t, err, ErrMissingDeclaredSuit)

	out, err := s.Play("alice", card(Spades, Eight), suitPtr(Clubs))
	require.NoError(t, err)
	require.Equal(t, OutcomeGameWon, out)
}

func TestCancel(t *testing.T) {
	s := Deal("alice", "bob", rand.New(rand.NewSource(5)), SeatA)
	require.NoError(t, s.Cancel())
	require.Equal(t, StatusCancelled, s.Status)
	require.Equal(t, "", s.WinnerID())

	hand := s.Hands[SeatA].Cards()
	_, err := s.Play("alice", hand[0], suitPtr(Hearts))
	require.ErrorIs(t, err, ErrGameNotInProgress)
	_, err = s.Draw("alice", rand.New(rand.NewSource(5)))
	require.ErrorIs(t, err, ErrGameNotInProgress)
	require.ErrorIs(t, s.Cancel(), ErrGameNotInProgress)
	require.NoError(t, s.Validate())
}

// TestConservationOverFullGames plays complete games by always taking the first
// legal card and checks the partition after every step.
func TestConservationOverFullGames(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := Deal("alice", "bob", rng, Seat(seed%2))

		for step := 0; step < 5000 && s.InProgress(); step++ {
			player := s.CurrentPlayer()
			turn := s.Turn
			plays, err := s.LegalPlays(player)
			require.NoError(t, err)

			if len(plays) == 0 {
				_, err := s.Draw(player, rng)
				if err != nil {
					require.ErrorIs(t, err, ErrNoLegalMoveAndNoDrawPossible)
					break
				}
				require.Equal(t, turn, s.Turn)
			} else {
				out, err := s.Play(player, plays[0], suitPtr(Spades))
				require.NoError(t, err)
				if out == OutcomeContinued {
					require.Equal(t, turn.Other(), s.Turn)
				}
			}

			total := 0
			for _, p := range []Pile{s.Hands[0], s.Hands[1], s.DiscardPile, s.DrawPile} {
				total += p.Len()
			}
			require.Equal(t, DeckSize, total)
			require.NoError(t, s.Validate(), "seed %d step %d", seed, step)
		}
	}
}
