package app

import (
	"fmt"
	"time"

	"crazyeights/internal/domain"
)

// View is what one player is allowed to see of a game.
type View struct {
	GameID        string        `json:"game_id"`
	Players       [2]string     `json:"players"`
	Hand          []domain.Card `json:"hand"`
	OpponentCards int           `json:"opponent_cards"`
	TopCard       domain.Card   `json:"top_card"`
	CurrentSuit   domain.Suit   `json:"current_suit"`
	Turn          string        `json:"turn"`
	YourTurn      bool          `json:"your_turn"`
	LegalPlays    []domain.Card `json:"legal_plays,omitempty"`
	DrawPileSize  int           `json:"draw_pile_size"`
	Status        domain.Status `json:"status"`
	Winner        string        `json:"winner,omitempty"`
	Message       string        `json:"message"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewView projects game for player. The opponent's hand is reduced to its size.
func NewView(game *domain.Session, player string) (View, error) {
	seat, err := game.SeatOf(player)
	if err != nil {
		return View{}, err
	}
	top, _ := game.TopCard()

	v := View{
		GameID:        game.ID,
		Players:       game.Players,
		Hand:          game.Hands[seat].Cards(),
		OpponentCards: game.Hands[seat.Other()].Len(),
		TopCard:       top,
		CurrentSuit:   game.CurrentSuit,
		Turn:          game.CurrentPlayer(),
		DrawPileSize:  game.DrawPile.Len(),
		Status:        game.Status,
		Winner:        game.WinnerID(),
		CreatedAt:     game.CreatedAt,
	}

	switch game.Status {
	case domain.StatusWon:
		if v.Winner == player {
			v.Message = "Game over! You win!"
		} else {
			v.Message = fmt.Sprintf("Game over! %s wins!", v.Winner)
		}
	case domain.StatusCancelled:
		v.Message = "Game cancelled."
	default:
		v.YourTurn = game.Turn == seat
		if !v.YourTurn {
			v.Message = fmt.Sprintf("Waiting for %s.", v.Turn)
			break
		}
		plays, err := game.LegalPlays(player)
		if err != nil {
			return View{}, err
		}
		v.LegalPlays = plays
		if len(plays) == 0 {
			v.Message = "No playable card. Draw a card."
		} else {
			v.Message = "Your turn."
		}
	}
	return v, nil
}
