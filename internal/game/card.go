// internal/game/card.go
//
// Card identity and deck construction for the Queens engine.
// Defines:
//   - Suit and the four fixed suits.
//   - Card: suit, rank 1..13, value (= rank), opaque id, reveal flag.
//   - Deck helpers: build, shuffle, scoring values.
//
// Card ids are random UUIDs so a redacted view leaks nothing about the
// card behind it. The shuffle takes the room's rand source, which makes
// deck order reproducible under a seeded source in tests.

package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// Suit is one of the four fixed card suits.
type Suit string

const (
	SuitClubs    Suit = "Clubs"
	SuitSpades   Suit = "Spades"
	SuitDiamonds Suit = "Diamonds"
	SuitHearts   Suit = "Hearts"
)

var suits = []Suit{SuitClubs, SuitSpades, SuitDiamonds, SuitHearts}

// Named ranks with special dispatch rules.
const (
	RankAce   = 1
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
)

const deckSize = 52

// Card is a single playing card. The id is unique within a room and
// stable for the card's lifetime. PermanentFaceUp marks a card revealed
// to everyone by a King effect.
type Card struct {
	ID              string
	Suit            Suit
	Rank            int
	Value           int
	PermanentFaceUp bool
}

// newDeck builds the full 52-card deck, one copy of each (suit, rank)
// pair, and shuffles it with the supplied source.
func newDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, deckSize)
	for _, s := range suits {
		for rank := 1; rank <= 13; rank++ {
			deck = append(deck, Card{
				ID:    uuid.NewString(),
				Suit:  s,
				Rank:  rank,
				Value: rank,
			})
		}
	}
	shuffleDeck(deck, rng)
	return deck
}

// shuffleDeck permutes the deck in place (Fisher-Yates via rand.Shuffle).
func shuffleDeck(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// scoreValue is the final-round scoring value of a rank:
// Queen counts 0, Ace 1, Jack and King 10, everything else face value.
func scoreValue(rank int) int {
	switch rank {
	case RankQueen:
		return 0
	case RankAce:
		return 1
	case RankJack, RankKing:
		return 10
	default:
		return rank
	}
}
