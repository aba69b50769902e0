package domain

// Shuffler is the injectable source of randomness for dealing and reshuffling.
// *math/rand.Rand and *golang.org/x/exp/rand.Rand both satisfy it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

var deck = buildDeck()

func buildDeck() [DeckSize]Card {
	var d [DeckSize]Card
	i := 0
	for _, s := range Suits {
		for _, r := range Ranks {
			d[i] = Card{Suit: s, Rank: r}
			i++
		}
	}
	return d
}

// NewDeck returns the 52 cards ordered by CardIndex.
func NewDeck() []Card {
	out := make([]Card, DeckSize)
	copy(out, deck[:])
	return out
}

// ShuffledIndices returns a random permutation of all card indices.
func ShuffledIndices(rng Shuffler) []CardIndex {
	out := make([]CardIndex, DeckSize)
	for i := range out {
		out[i] = CardIndex(i)
	}
	shuffle(rng, out)
	return out
}

func shuffle(rng Shuffler, cards []CardIndex) {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}
