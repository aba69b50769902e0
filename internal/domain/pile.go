package domain

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Pile is an ordered run of cards: a hand, the discard pile or the draw pile.
// For the discard and draw piles the front is index 0.
type Pile []CardIndex

// Len returns the number of cards in the pile.
func (p Pile) Len() int {
	return len(p)
}

// Contains reports whether c is in the pile.
func (p Pile) Contains(c CardIndex) bool {
	return slices.Contains(p, c)
}

// Remove returns the pile without c. The receiver is left untouched.
func (p Pile) Remove(c CardIndex) (Pile, error) {
	i := slices.Index(p, c)
	if i < 0 {
		return p, fmt.Errorf("%w: %s", ErrCardNotHeld, c)
	}
	out := make(Pile, 0, len(p)-1)
	out = append(out, p[:i]...)
	return append(out, p[i+1:]...), nil
}

// Append adds c to the back of the pile.
func (p Pile) Append(c CardIndex) Pile {
	return append(slices.Clip(p), c)
}

// PushFront places c on top of the pile.
func (p Pile) PushFront(c CardIndex) Pile {
	return slices.Insert(slices.Clone(p), 0, c)
}

// PopFront removes the front card and returns it with the remaining pile.
func (p Pile) PopFront() (CardIndex, Pile, bool) {
	if len(p) == 0 {
		return 0, p, false
	}
	return p[0], slices.Clone(p[1:]), true
}

// Top returns the front card.
func (p Pile) Top() (CardIndex, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[0], true
}

// Cards projects the pile through the catalog.
func (p Pile) Cards() []Card {
	out := make([]Card, 0, len(p))
	for _, c := range p {
		out = append(out, c.Card())
	}
	return out
}

// Clone returns an independent copy.
func (p Pile) Clone() Pile {
	if p == nil {
		return nil
	}
	return slices.Clone(p)
}

// PileOf builds a pile from catalog cards.
func PileOf(cards ...Card) (Pile, error) {
	out := make(Pile, 0, len(cards))
	for _, c := range cards {
		i, err := IndexOf(c)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}
