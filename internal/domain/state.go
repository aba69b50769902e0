package domain

import (
	"fmt"
	"time"
)

// Seat identifies one of the two players of a session.
type Seat int

const (
	SeatA Seat = iota
	SeatB
)

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	return 1 - s
}

// Status represents the lifecycle stage of a game.
type Status string

const (
	// StatusInProgress indicates the game accepts plays and draws.
	StatusInProgress Status = "in_progress"
	// StatusWon indicates a player emptied their hand.
	StatusWon Status = "won"
	// StatusCancelled indicates the game was abandoned without a result.
	StatusCancelled Status = "cancelled"
)

// Outcome is the result of a successful play.
type Outcome int

const (
	OutcomeContinued Outcome = iota
	OutcomeGameWon
)

func (o Outcome) String() string {
	if o == OutcomeGameWon {
		return "game_won"
	}
	return "continued"
}

// Move is one entry of the append-only game history.
type Move struct {
	Player   string `json:"player"`
	Action   Action `json:"action"`
	Suit     Suit   `json:"suit"`
	Rank     Rank   `json:"rank"`
	Declared *Suit  `json:"declared_suit,omitempty"`
}

// Card returns the card the move refers to.
func (m Move) Card() Card {
	return Card{Suit: m.Suit, Rank: m.Rank}
}

func (m Move) String() string {
	return fmt.Sprintf("%s,%s,%s,%s", m.Player, m.Action, m.Suit, m.Rank)
}

// Session is the complete state of one game between two players.
type Session struct {
	ID          string    `json:"id"`
	Players     [2]string `json:"players"`
	Hands       [2]Pile   `json:"hands"`
	DiscardPile Pile      `json:"discard_pile"`
	DrawPile    Pile      `json:"draw_pile"`
	CurrentSuit Suit      `json:"current_suit"`
	Turn        Seat      `json:"turn"`
	Status      Status    `json:"status"`
	Winner      Seat      `json:"winner"`
	Moves       []Move    `json:"moves"`
	CreatedAt   time.Time `json:"created_at"`
}

// SeatOf returns the seat held by player.
func (s *Session) SeatOf(player string) (Seat, error) {
	for i, p := range s.Players {
		if p == player {
			return Seat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
}

// PlayerAt returns the player ID seated at seat.
func (s *Session) PlayerAt(seat Seat) string {
	return s.Players[seat]
}

// CurrentPlayer returns the player who must act next.
func (s *Session) CurrentPlayer() string {
	return s.Players[s.Turn]
}

// Hand returns a copy of the player's hand in catalog form.
func (s *Session) Hand(player string) ([]Card, error) {
	seat, err := s.SeatOf(player)
	if err != nil {
		return nil, err
	}
	return s.Hands[seat].Cards(), nil
}

// TopCard returns the top of the discard pile.
func (s *Session) TopCard() (Card, bool) {
	top, ok := s.DiscardPile.Top()
	if !ok {
		return Card{}, false
	}
	return top.Card(), true
}

// InProgress reports whether plays and draws are still accepted.
func (s *Session) InProgress() bool {
	return s.Status == StatusInProgress
}

// WinnerID returns the winning player, or "" if the game was not won.
func (s *Session) WinnerID() string {
	if s.Status != StatusWon {
		return ""
	}
	return s.Players[s.Winner]
}

// LoserID returns the losing player, or "" if the game was not won.
func (s *Session) LoserID() string {
	if s.Status != StatusWon {
		return ""
	}
	return s.Players[s.Winner.Other()]
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	out := *s
	out.Hands = [2]Pile{s.Hands[0].Clone(), s.Hands[1].Clone()}
	out.DiscardPile = s.DiscardPile.Clone()
	out.DrawPile = s.DrawPile.Clone()
	out.Moves = make([]Move, len(s.Moves))
	for i, m := range s.Moves {
		out.Moves[i] = m
		if m.Declared != nil {
			d := *m.Declared
			out.Moves[i].Declared = &d
		}
	}
	return &out
}

// Validate checks the structural invariants of the session. It is meant for
// sessions that crossed a persistence boundary.
func (s *Session) Validate() error {
	switch s.Status {
	case StatusInProgress, StatusWon, StatusCancelled:
	default:
		return fmt.Errorf("%w: status %q", ErrCorruptSession, s.Status)
	}
	if s.Players[0] == "" || s.Players[1] == "" || s.Players[0] == s.Players[1] {
		return fmt.Errorf("%w: players %q", ErrCorruptSession, s.Players)
	}
	if !s.CurrentSuit.Valid() {
		return fmt.Errorf("%w: current suit %d", ErrCorruptSession, uint8(s.CurrentSuit))
	}
	if s.Turn != SeatA && s.Turn != SeatB {
		return fmt.Errorf("%w: turn %d", ErrCorruptSession, s.Turn)
	}

	var seen [DeckSize]bool
	count := 0
	for _, p := range []Pile{s.Hands[0], s.Hands[1], s.DiscardPile, s.DrawPile} {
		for _, c := range p {
			if !c.Valid() {
				return fmt.Errorf("%w: %v", ErrCorruptSession, ErrIndexOutOfRange)
			}
			if seen[c] {
				return fmt.Errorf("%w: card %s appears twice", ErrCorruptSession, c)
			}
			seen[c] = true
			count++
		}
	}
	if count != DeckSize {
		return fmt.Errorf("%w: %d cards accounted for", ErrCorruptSession, count)
	}

	switch s.Status {
	case StatusInProgress:
		if len(s.DiscardPile) == 0 {
			return fmt.Errorf("%w: empty discard pile", ErrCorruptSession)
		}
		if len(s.Hands[0]) == 0 || len(s.Hands[1]) == 0 {
			return fmt.Errorf("%w: empty hand in a running game", ErrCorruptSession)
		}
	case StatusWon:
		if s.Winner != SeatA && s.Winner != SeatB {
			return fmt.Errorf("%w: winner %d", ErrCorruptSession, s.Winner)
		}
		if len(s.Hands[s.Winner]) != 0 {
			return fmt.Errorf("%w: winner still holds cards", ErrCorruptSession)
		}
	}
	return nil
}
