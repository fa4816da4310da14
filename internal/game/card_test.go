package game

import (
	"math/rand"
	"strconv"
	"testing"
)

func TestNewDeckHasOneCopyOfEachCard(t *testing.T) {
	deck := newDeck(rand.New(rand.NewSource(1)))
	if len(deck) != deckSize {
		t.Fatalf("expected %d cards, got %d", deckSize, len(deck))
	}

	ids := make(map[string]bool)
	pairs := make(map[string]bool)
	for _, c := range deck {
		if ids[c.ID] {
			t.Fatalf("duplicate card id %s", c.ID)
		}
		ids[c.ID] = true
		key := string(c.Suit) + "/" + strconv.Itoa(c.Rank)
		if pairs[key] {
			t.Fatalf("duplicate card %s", key)
		}
		pairs[key] = true
		if c.Rank < 1 || c.Rank > 13 {
			t.Fatalf("rank out of range: %d", c.Rank)
		}
		if c.Value != c.Rank {
			t.Fatalf("card %s: value %d != rank %d", key, c.Value, c.Rank)
		}
	}
}

func TestShuffleIsAPermutation(t *testing.T) {
	deck := newDeck(rand.New(rand.NewSource(7)))
	before := make(map[string]int)
	for _, c := range deck {
		before[string(c.Suit)+"/"+strconv.Itoa(c.Rank)]++
	}

	shuffleDeck(deck, rand.New(rand.NewSource(99)))

	if len(deck) != deckSize {
		t.Fatalf("shuffle changed deck length to %d", len(deck))
	}
	after := make(map[string]int)
	for _, c := range deck {
		after[string(c.Suit)+"/"+strconv.Itoa(c.Rank)]++
	}
	for key, n := range before {
		if after[key] != n {
			t.Fatalf("card %s count changed: %d -> %d", key, n, after[key])
		}
	}
}

func TestShuffleIsReproducibleUnderASeed(t *testing.T) {
	a := newDeck(rand.New(rand.NewSource(42)))
	b := newDeck(rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i].Suit != b[i].Suit || a[i].Rank != b[i].Rank {
			t.Fatalf("decks diverge at %d: %v/%d vs %v/%d", i, a[i].Suit, a[i].Rank, b[i].Suit, b[i].Rank)
		}
	}
}

func TestScoreValue(t *testing.T) {
	tests := []struct {
		rank int
		want int
	}{
		{RankQueen, 0},
		{RankAce, 1},
		{RankJack, 10},
		{RankKing, 10},
		{2, 2},
		{7, 7},
		{10, 10},
	}
	for _, tt := range tests {
		if got := scoreValue(tt.rank); got != tt.want {
			t.Errorf("scoreValue(%d) = %d, want %d", tt.rank, got, tt.want)
		}
	}
}
