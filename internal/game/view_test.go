package game

import (
	"testing"
)

func TestViewRedactsOpponentHands(t *testing.T) {
	r := newActiveRoom(t)
	me := r.players[0]
	opp := r.players[1]

	v := r.View(me.ID)

	if v.CenterCard == nil || !v.CenterCard.IsFaceUp || v.CenterCard.Suit == "" {
		t.Fatal("center card should always be shown face up with content")
	}

	own := v.Players[0]
	if own.HandSize != len(me.Hand) {
		t.Fatalf("own hand size = %d, want %d", own.HandSize, len(me.Hand))
	}
	for _, cv := range own.Hand {
		if cv.Suit == "" || cv.Rank == 0 {
			t.Fatal("own cards must keep suit and rank")
		}
	}

	theirs := v.Players[1]
	if theirs.HandSize != len(opp.Hand) {
		t.Fatalf("opponent hand size = %d, want %d", theirs.HandSize, len(opp.Hand))
	}
	for _, cv := range theirs.Hand {
		if cv.Suit != "" || cv.Rank != 0 || cv.Value != 0 {
			t.Fatal("opponent card content leaked through the view")
		}
		if cv.IsFaceUp {
			t.Fatal("opponent cards must be face down")
		}
		if cv.ID == "" {
			t.Fatal("opponent cards must keep their id")
		}
	}
}

func TestViewMarksSelectedCardsForOwnerOnly(t *testing.T) {
	r := newActiveRoom(t)
	me := r.players[0]

	v := r.View(me.ID)
	selected := 0
	for _, cv := range v.Players[0].Hand {
		if cv.Selected {
			selected++
			if !cv.IsFaceUp {
				t.Fatal("selected cards are revealed to their owner")
			}
		}
	}
	if selected != initialSelectionSize {
		t.Fatalf("owner sees %d selected cards, want %d", selected, initialSelectionSize)
	}

	// The opponent's view of the same hand shows no selections.
	vOpp := r.View(r.players[1].ID)
	for _, cv := range vOpp.Players[0].Hand {
		if cv.Selected || cv.Suit != "" {
			t.Fatal("selection leaked to the opponent")
		}
	}
}

func TestViewShowsKingRevealedCardToEveryone(t *testing.T) {
	r := newActiveRoom(t)
	r.players[0].Hand[2].PermanentFaceUp = true
	revealed := r.players[0].Hand[2]

	v := r.View(r.players[1].ID)
	found := false
	for _, cv := range v.Players[0].Hand {
		if cv.ID == revealed.ID {
			found = true
			if !cv.IsFaceUp || cv.Suit != revealed.Suit || cv.Rank != revealed.Rank {
				t.Fatal("king-revealed card should be visible to the opponent")
			}
		}
	}
	if !found {
		t.Fatal("revealed card missing from the opponent view")
	}
}

func TestViewForUnknownPlayerRedactsEverything(t *testing.T) {
	r := newActiveRoom(t)
	v := r.View("spectator")
	for _, pv := range v.Players {
		for _, cv := range pv.Hand {
			if cv.Suit != "" {
				t.Fatal("spectator view leaked hand content")
			}
		}
	}
}

func TestViewPhaseFlags(t *testing.T) {
	r := newFullRoom(t)
	v := r.View(r.players[0].ID)
	if !v.InitialSelectionMode || v.CurrentTurnIndex != noSeat {
		t.Fatalf("selection view = %+v", v)
	}

	r = newActiveRoom(t)
	five := makeCard(SuitHearts, 5)
	r.players[0].Hand = append(r.players[0].Hand, five)
	if _, err := r.PlayCard(0, five.ID, testNow); err != nil {
		t.Fatal(err)
	}
	v = r.View(r.players[0].ID)
	if !v.ReactionMode || v.ReactionValue != 5 || v.PendingPlayerIndex != 0 {
		t.Fatalf("reaction view = reaction %v value %d pending %d", v.ReactionMode, v.ReactionValue, v.PendingPlayerIndex)
	}
}
