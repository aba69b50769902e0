package domain

import "fmt"

// Deal shuffles a fresh deck and lays out a new game: seven cards to each
// player, one card to start the discard pile and the rest face down.
func Deal(playerA, playerB string, rng Shuffler, first Seat) *Session {
	cards := ShuffledIndices(rng)

	s := &Session{
		Players: [2]string{playerA, playerB},
		Hands: [2]Pile{
			Pile(cards[:HandSize]).Clone(),
			Pile(cards[HandSize:firstDiscard]).Clone(),
		},
		DiscardPile: Pile{cards[firstDiscard]},
		DrawPile:    Pile(cards[firstDiscard+1:]).Clone(),
		Turn:        first,
		Status:      StatusInProgress,
		Moves:       []Move{},
	}
	s.CurrentSuit = cards[firstDiscard].Card().Suit
	return s
}

// CanPlay applies the matching rule: an eight always plays; on top of an eight
// only the declared suit plays; otherwise rank or current suit must match.
func CanPlay(top Card, current Suit, c Card) bool {
	if c.IsEight() {
		return true
	}
	if top.IsEight() {
		return c.Suit == current
	}
	return c.Rank == top.Rank || c.Suit == current
}

// actor resolves player to a seat and checks that they may act now.
func (s *Session) actor(player string) (Seat, error) {
	if !s.InProgress() {
		return 0, fmt.Errorf("%w: status %s", ErrGameNotInProgress, s.Status)
	}
	seat, err := s.SeatOf(player)
	if err != nil {
		return 0, err
	}
	if seat != s.Turn {
		return 0, fmt.Errorf("%w: %q", ErrNotPlayersTurn, player)
	}
	return seat, nil
}

// IsLegalPlay reports whether player may play c on the current discard.
func (s *Session) IsLegalPlay(player string, c Card) (bool, error) {
	seat, err := s.actor(player)
	if err != nil {
		return false, err
	}
	idx, err := IndexOf(c)
	if err != nil {
		return false, err
	}
	if !s.Hands[seat].Contains(idx) {
		return false, fmt.Errorf("%w: %s", ErrCardNotHeld, c)
	}
	top, ok := s.TopCard()
	if !ok {
		return false, fmt.Errorf("%w: empty discard pile", ErrCorruptSession)
	}
	return CanPlay(top, s.CurrentSuit, c), nil
}

// LegalPlays returns the cards in player's hand that may be played now, in hand order.
func (s *Session) LegalPlays(player string) ([]Card, error) {
	seat, err := s.actor(player)
	if err != nil {
		return nil, err
	}
	top, ok := s.TopCard()
	if !ok {
		return nil, fmt.Errorf("%w: empty discard pile", ErrCorruptSession)
	}
	var out []Card
	for _, c := range s.Hands[seat].Cards() {
		if CanPlay(top, s.CurrentSuit, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Play discards c from player's hand. declared is required when c is an eight
// and ignored otherwise. The session is untouched when an error is returned.
func (s *Session) Play(player string, c Card, declared *Suit) (Outcome, error) {
	legal, err := s.IsLegalPlay(player, c)
	if err != nil {
		return OutcomeContinued, err
	}
	if !legal {
		return OutcomeContinued, fmt.Errorf("%w: %s on %s (suit %s)", ErrIllegalPlay, c, s.DiscardPile[0], s.CurrentSuit)
	}
	next := c.Suit
	var record *Suit
	if c.IsEight() {
		if declared == nil {
			return OutcomeContinued, ErrMissingDeclaredSuit
		}
		if !declared.Valid() {
			return OutcomeContinued, fmt.Errorf("%w: %d", ErrUnknownSuit, uint8(*declared))
		}
		next = *declared
		record = &next
	}

	seat := s.Turn
	idx := mustIndex(c)
	hand, err := s.Hands[seat].Remove(idx)
	if err != nil {
		return OutcomeContinued, err
	}

	s.Hands[seat] = hand
	s.DiscardPile = s.DiscardPile.PushFront(idx)
	s.CurrentSuit = next
	s.Moves = append(s.Moves, Move{Player: player, Action: ActionPlay, Suit: c.Suit, Rank: c.Rank, Declared: record})

	if len(hand) == 0 {
		s.Status = StatusWon
		s.Winner = seat
		return OutcomeGameWon, nil
	}
	s.Turn = seat.Other()
	return OutcomeContinued, nil
}

// Draw moves the front of the draw pile into player's hand. When that empties
// the draw pile, every discard except the top is shuffled into a new draw
// pile. Drawing never ends the turn.
func (s *Session) Draw(player string, rng Shuffler) (CardIndex, error) {
	seat, err := s.actor(player)
	if err != nil {
		return 0, err
	}
	if len(s.DrawPile) == 0 {
		if len(s.DiscardPile) < 2 {
			return 0, ErrNoLegalMoveAndNoDrawPossible
		}
		s.reshuffle(rng)
	}

	card, rest, _ := s.DrawPile.PopFront()
	s.Hands[seat] = s.Hands[seat].Append(card)
	s.DrawPile = rest
	c := card.Card()
	s.Moves = append(s.Moves, Move{Player: player, Action: ActionDraw, Suit: c.Suit, Rank: c.Rank})

	if len(s.DrawPile) == 0 {
		s.reshuffle(rng)
	}
	return card, nil
}

// reshuffle turns the discards below the top into a fresh draw pile.
func (s *Session) reshuffle(rng Shuffler) {
	if len(s.DiscardPile) == 0 {
		return
	}
	top := s.DiscardPile[0]
	recycled := s.DiscardPile[1:].Clone()
	shuffle(rng, recycled)
	s.DrawPile = append(s.DrawPile, recycled...)
	s.DiscardPile = Pile{top}
}

// Cancel abandons a running game. Cancelled games record no result.
func (s *Session) Cancel() error {
	if !s.InProgress() {
		return fmt.Errorf("%w: status %s", ErrGameNotInProgress, s.Status)
	}
	s.Status = StatusCancelled
	return nil
}
