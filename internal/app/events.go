package app

import "crazyeights/internal/domain"

// EventKind identifies emitted game events for Nakama dispatch.
type EventKind string

const (
	EventGameCreated    EventKind = "game_created"
	EventHandDealt      EventKind = "hand_dealt"
	EventCardPlayed     EventKind = "card_played"
	EventCardDrawn      EventKind = "card_drawn"
	EventDeckReshuffled EventKind = "deck_reshuffled"
	EventGameWon        EventKind = "game_won"
	EventGameCancelled  EventKind = "game_cancelled"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameCreatedPayload struct {
	GameID          string
	Players         [2]string
	FirstTurnUserID string
	TopCard         domain.Card
	CurrentSuit     domain.Suit
}

type HandDealtPayload struct {
	UserID string
	Hand   []domain.Card
}

type CardPlayedPayload struct {
	UserID         string
	Card           domain.Card
	Declared       *domain.Suit
	CurrentSuit    domain.Suit
	NextTurnUserID string
}

type CardDrawnPayload struct {
	UserID string
	Card   domain.Card
}

type DeckReshuffledPayload struct {
	DrawPileSize int
}

type GameWonPayload struct {
	GameID       string
	WinnerUserID string
	LoserUserID  string
}

type GameCancelledPayload struct {
	GameID string
}
