package domain

import (
	"fmt"
	"strings"
)

// Suit is one of the four card suits, in catalog order.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in catalog order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

var suitNames = [...]string{"hearts", "diamonds", "clubs", "spades"}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s <= Spades
}

func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("suit(%d)", uint8(s))
	}
	return suitNames[s]
}

// MarshalText encodes the suit by name.
func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSuit, uint8(s))
	}
	return []byte(suitNames[s]), nil
}

// UnmarshalText decodes a suit name.
func (s *Suit) UnmarshalText(text []byte) error {
	parsed, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSuit converts a suit name ("hearts", "Spades", ...) to a Suit.
func ParseSuit(name string) (Suit, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, sn := range suitNames {
		if sn == n {
			return Suit(i), nil
		}
	}
	return Hearts, fmt.Errorf("%w: %q", ErrUnknownSuit, name)
}

// Rank is a card rank from Ace to King, in catalog order.
type Rank uint8

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Ranks lists every rank in catalog order.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankNames = [...]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	return r <= King
}

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("rank(%d)", uint8(r))
	}
	return rankNames[r]
}

// MarshalText encodes the rank by its face ("A", "10", "K").
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: rank %d", ErrUnknownCard, uint8(r))
	}
	return []byte(rankNames[r]), nil
}

// UnmarshalText decodes a rank face.
func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRank converts a rank face to a Rank. Faces are case-insensitive.
func ParseRank(face string) (Rank, error) {
	f := strings.ToUpper(strings.TrimSpace(face))
	for i, rn := range rankNames {
		if rn == f {
			return Rank(i), nil
		}
	}
	return Ace, fmt.Errorf("%w: rank %q", ErrUnknownCard, face)
}

// Card is an immutable playing card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// IsEight reports whether the card is a crazy eight.
func (c Card) IsEight() bool {
	return c.Rank == Eight
}

// Valid reports whether both suit and rank are in range.
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid()
}

func (c Card) String() string {
	return "(" + c.Suit.String() + "," + c.Rank.String() + ")"
}

// ParseCard converts the boundary (suit, rank) pair into a Card.
func ParseCard(suit, rank string) (Card, error) {
	s, err := ParseSuit(suit)
	if err != nil {
		return Card{}, fmt.Errorf("%w: suit %q", ErrUnknownCard, suit)
	}
	r, err := ParseRank(rank)
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: s, Rank: r}, nil
}

// CardIndex is the storage representation of a card: suit*13 + rank.
type CardIndex int

// DeckSize is the number of cards in the deck.
const DeckSize = 52

// Valid reports whether i addresses a card in the deck.
func (i CardIndex) Valid() bool {
	return i >= 0 && i < DeckSize
}

// Card returns the catalog card for i. i must be valid.
func (i CardIndex) Card() Card {
	return deck[i]
}

func (i CardIndex) String() string {
	if !i.Valid() {
		return fmt.Sprintf("index(%d)", int(i))
	}
	return deck[i].String()
}

// CardAt returns the card stored at index i.
func CardAt(i CardIndex) (Card, error) {
	if !i.Valid() {
		return Card{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, int(i))
	}
	return deck[i], nil
}

// IndexOf returns the catalog index of c.
func IndexOf(c Card) (CardIndex, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("%w: suit=%d rank=%d", ErrUnknownCard, uint8(c.Suit), uint8(c.Rank))
	}
	return CardIndex(int(c.Suit)*len(Ranks) + int(c.Rank)), nil
}

// mustIndex is IndexOf for cards already known to be valid.
func mustIndex(c Card) CardIndex {
	i, err := IndexOf(c)
	if err != nil {
		panic(err)
	}
	return i
}
