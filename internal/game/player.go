// internal/game/player.go
//
// Per-seat player state: identity, seat index, hand and the initial
// selection bookkeeping. Hands are ordered slices owned exclusively by
// one player; cards only move between hands through room actions.

package game

// Player holds state for one seat in a room.
type Player struct {
	ID            string
	Seat          int
	Hand          []Card
	SelectionDone bool
	SelectedIDs   []string
	Score         int
}

// handIndex returns the position of cardID in the hand, or -1.
func (p *Player) handIndex(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// removeCard takes the card at index i out of the hand and returns it.
func (p *Player) removeCard(i int) Card {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return c
}

// selectedCard reports whether cardID was one of the player's two
// initial selections.
func (p *Player) selectedCard(cardID string) bool {
	for _, id := range p.SelectedIDs {
		if id == cardID {
			return true
		}
	}
	return false
}
