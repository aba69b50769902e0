package bot

import (
	"crazyeights/internal/domain"

	"golang.org/x/exp/slices"
)

// Selection is the decision made for one step of a turn. When MustDraw is
// set Card and Declared carry no meaning.
type Selection struct {
	MustDraw bool
	Card     domain.Card
	Declared *domain.Suit
}

// drawSelection is returned when nothing in the hand can be played.
var drawSelection = Selection{MustDraw: true}

// ChoosePlay picks a card for the automated player without touching any
// game state.
//
// Suits are walked from most to least held (ties keep first appearance in
// the hand). For the current suit the last non-eight card of it is chosen;
// for any other suit the last card of it matching the top rank.
// Failing all suits, the last eight in hand is played. Every eight declares
// the most held suit.
func ChoosePlay(hand []domain.Card, topRank domain.Rank, current domain.Suit) Selection {
	if len(hand) == 0 {
		return drawSelection
	}
	ranked := rankSuits(hand)

	for _, s := range ranked {
		if s == current {
			if i := lastIndex(hand, func(c domain.Card) bool { return c.Suit == s && !c.IsEight() }); i >= 0 {
				return selectCard(hand[i], ranked[0])
			}
			continue
		}
		if i := lastIndex(hand, func(c domain.Card) bool { return c.Suit == s && c.Rank == topRank }); i >= 0 {
			return selectCard(hand[i], ranked[0])
		}
	}

	if i := lastIndex(hand, domain.Card.IsEight); i >= 0 {
		return selectCard(hand[i], ranked[0])
	}
	return drawSelection
}

func selectCard(c domain.Card, favourite domain.Suit) Selection {
	sel := Selection{Card: c}
	if c.IsEight() {
		declared := favourite
		sel.Declared = &declared
	}
	return sel
}

// rankSuits orders the suits present in hand by descending count. Suits with
// equal counts keep the order in which they first appear.
func rankSuits(hand []domain.Card) []domain.Suit {
	counts := make(map[domain.Suit]int, len(domain.Suits))
	var order []domain.Suit
	for _, c := range hand {
		if counts[c.Suit] == 0 {
			order = append(order, c.Suit)
		}
		counts[c.Suit]++
	}
	slices.SortStableFunc(order, func(a, b domain.Suit) int {
		return counts[b] - counts[a]
	})
	return order
}

func lastIndex(hand []domain.Card, match func(domain.Card) bool) int {
	for i := len(hand) - 1; i >= 0; i-- {
		if match(hand[i]) {
			return i
		}
	}
	return -1
}
