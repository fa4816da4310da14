// internal/game/room.go
//
// Room state machine for the Queens card game.
// Responsibilities:
//   - Phase transitions: waiting -> initial_selection -> active ->
//     final_round -> ended (plus the reset path back to waiting).
//   - Turn sequencing with the deal-on-advance rule.
//   - Special-rank dispatch: King reveal, Jack swap, Queen pass,
//     reaction windows for ranks 1-10.
//   - Final-round scoring after a queens call.
//
// Every exported action locks the room for its whole run, validates
// before mutating, and returns the acting player's redacted view. The
// engine never touches the clock or the network: callers supply `now`
// and serialize the result.

package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle stage of a room.
type Phase string

const (
	PhaseWaiting          Phase = "waiting"
	PhaseInitialSelection Phase = "initial_selection"
	PhaseActive           Phase = "active"
	PhaseFinalRound       Phase = "final_round"
	PhaseEnded            Phase = "ended"
)

// pendingEffect is a sub-mode carried alongside active/final_round play
// that blocks the normal turn advance until resolved.
type pendingEffect int

const (
	pendingNone pendingEffect = iota
	pendingReaction
	pendingKingReveal
	pendingJackSwap
)

const (
	maxPlayers           = 2
	openingHandSize      = 4
	initialSelectionSize = 2

	// noSeat marks "no valid seat": the turn index while both players
	// pick their initial cards, and the caller/winner slots before one
	// exists.
	noSeat = -1
)

// Room is the authoritative state for one game. All mutation goes
// through its action methods; the mutex enforces the single-writer,
// run-to-completion discipline per room.
type Room struct {
	mu sync.Mutex

	id         string
	players    []*Player
	deck       []Card
	centerCard *Card
	// discards holds cards buried under the center pile. Nothing reads
	// them again, but keeping them preserves the one-copy-per-card
	// invariant across deck, hands, center and discards.
	discards      []Card
	currentTurn   int
	phase         Phase
	pending       pendingEffect
	pendingSeat   int
	reactionValue int
	// resolvedReactors marks seats done with the open reaction window;
	// penalizedReactors marks seats that already paid the one penalty.
	resolvedReactors  map[int]bool
	penalizedReactors map[int]bool
	queensCaller      int
	finalTurns        int
	winner            int
	lastActivity      time.Time
	rng               *rand.Rand
}

// NewRoom builds a room with a fresh shuffled deck. A nil rng seeds
// from the wall clock; tests pass a fixed-seed source for reproducible
// deck order.
func NewRoom(id string, rng *rand.Rand) *Room {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r := &Room{id: id, rng: rng}
	r.initGame()
	return r
}

// initGame resets every field except id and rng. Used at construction
// and by Reset.
func (r *Room) initGame() {
	r.players = nil
	r.deck = newDeck(r.rng)
	r.centerCard = nil
	r.discards = nil
	r.currentTurn = 0
	r.phase = PhaseWaiting
	r.clearPending()
	r.queensCaller = noSeat
	r.finalTurns = 0
	r.winner = noSeat
}

func (r *Room) clearPending() {
	r.pending = pendingNone
	r.pendingSeat = noSeat
	r.reactionValue = 0
	r.resolvedReactors = nil
	r.penalizedReactors = nil
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Touch records activity at now, deferring reaping.
func (r *Room) Touch(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActivity = now
}

// LastActivity reports when the room last saw a mutating action.
func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// JoinResult reports the outcome of a join or rejoin.
type JoinResult struct {
	PlayerID string
	Seat     int
	Rejoined bool
	RoomFull bool
	View     *View
}

// Join seats a new player, or returns the current view when playerID
// already belongs to a seat (reconnect). The first joiner takes seat 0,
// the second seat 1; filling the room moves it to initial selection
// with the turn index parked at -1.
func (r *Room) Join(playerID string, now time.Time) (*JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if playerID != "" {
		for _, p := range r.players {
			if p.ID == playerID {
				r.lastActivity = now
				return &JoinResult{
					PlayerID: p.ID,
					Seat:     p.Seat,
					Rejoined: true,
					RoomFull: len(r.players) == maxPlayers,
					View:     r.viewFor(p.ID),
				}, nil
			}
		}
	}

	if len(r.players) >= maxPlayers {
		return nil, NewError(KindRoomFull, "room %s is full", r.id)
	}

	id := playerID
	if id == "" {
		id = uuid.NewString()
	}
	hand := make([]Card, 0, openingHandSize)
	for i := 0; i < openingHandSize; i++ {
		if c, ok := r.draw(); ok {
			hand = append(hand, c)
		}
	}
	p := &Player{ID: id, Seat: len(r.players), Hand: hand}
	r.players = append(r.players, p)

	if len(r.players) == maxPlayers {
		r.phase = PhaseInitialSelection
		r.currentTurn = noSeat
	}
	r.lastActivity = now

	return &JoinResult{
		PlayerID: p.ID,
		Seat:     p.Seat,
		RoomFull: len(r.players) == maxPlayers,
		View:     r.viewFor(p.ID),
	}, nil
}

// SelectInitialCards records a seat's two chosen cards, revealed to
// their owner for the rest of the game. When both seats have selected,
// play begins: the center card is drawn and seat 0 takes the turn.
func (r *Room) SelectInitialCards(seat int, cardIDs []string, now time.Time) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseInitialSelection {
		return nil, NewError(KindWrongPhase, "initial selection is not open in phase %q", r.phase)
	}
	p, err := r.seatPlayer(seat)
	if err != nil {
		return nil, err
	}
	if p.SelectionDone {
		return nil, NewError(KindWrongPhase, "seat %d already completed its selection", seat)
	}
	if len(cardIDs) != initialSelectionSize || (len(cardIDs) == 2 && cardIDs[0] == cardIDs[1]) {
		return nil, NewError(KindInvalidSelectionCount, "must select exactly %d distinct cards", initialSelectionSize)
	}
	for _, id := range cardIDs {
		if p.handIndex(id) < 0 {
			return nil, NewError(KindCardNotInHand, "card %s is not in seat %d's hand", id, seat)
		}
	}

	p.SelectedIDs = append([]string(nil), cardIDs...)
	p.SelectionDone = true

	allDone := true
	for _, pl := range r.players {
		if !pl.SelectionDone {
			allDone = false
			break
		}
	}
	if allDone {
		r.phase = PhaseActive
		r.peekOrDrawCenter()
		r.currentTurn = 0
	}
	r.lastActivity = now
	return r.viewFor(p.ID), nil
}

// PlayCard removes a card from the seat's hand and dispatches on its
// rank. During an open reaction window the card is treated as a
// reaction attempt instead.
func (r *Room) PlayCard(seat int, cardID string, now time.Time) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseActive && r.phase != PhaseFinalRound {
		return nil, NewError(KindWrongPhase, "cannot play a card in phase %q", r.phase)
	}
	p, err := r.seatPlayer(seat)
	if err != nil {
		return nil, err
	}

	switch r.pending {
	case pendingKingReveal:
		return nil, NewError(KindWrongPhase, "waiting for seat %d to resolve a king reveal", r.pendingSeat)
	case pendingJackSwap:
		return nil, NewError(KindWrongPhase, "waiting for seat %d to resolve a jack swap", r.pendingSeat)
	case pendingReaction:
		if err := r.reactWith(p, cardID); err != nil {
			return nil, err
		}
		r.lastActivity = now
		return r.viewFor(p.ID), nil
	}

	if seat != r.currentTurn {
		return nil, NewError(KindNotYourTurn, "it is seat %d's turn", r.currentTurn)
	}
	idx := p.handIndex(cardID)
	if idx < 0 {
		return nil, NewError(KindCardNotInHand, "card %s is not in seat %d's hand", cardID, seat)
	}
	card := p.removeCard(idx)

	switch card.Rank {
	case RankKing:
		r.placeCenter(card)
		r.pending = pendingKingReveal
		r.pendingSeat = seat
	case RankJack:
		if r.phase == PhaseFinalRound && seat == r.queensCaller {
			// The caller may not swap during the final round, so the
			// jack plays as a plain center card.
			r.placeCenter(card)
			r.advanceTurn(true)
		} else {
			r.placeCenter(card)
			r.pending = pendingJackSwap
			r.pendingSeat = seat
		}
	case RankQueen:
		// The queen skips the center pile entirely and lands in the
		// next seat's hand; no card is dealt on this advance.
		next := r.players[(seat+1)%len(r.players)]
		next.Hand = append(next.Hand, card)
		r.buryCenter()
		r.advanceTurn(false)
	default:
		r.placeCenter(card)
		r.pending = pendingReaction
		r.pendingSeat = seat
		r.reactionValue = card.Value
		r.resolvedReactors = make(map[int]bool)
		r.penalizedReactors = make(map[int]bool)
	}
	r.lastActivity = now
	return r.viewFor(p.ID), nil
}

// reactWith handles a play made while a reaction window is open.
// A value match lands the card on the center pile and resolves the
// seat. The first mismatch costs one drawn penalty card; a later
// attempt by an already-penalized seat resolves it without a second
// penalty. The window closes once every non-acting seat is resolved.
func (r *Room) reactWith(p *Player, cardID string) error {
	if p.Seat == r.pendingSeat {
		return NewError(KindNotYourTurn, "seat %d opened the reaction window and must wait for it to close", p.Seat)
	}
	if r.resolvedReactors[p.Seat] {
		return NewError(KindWrongPhase, "seat %d already resolved this reaction window", p.Seat)
	}
	idx := p.handIndex(cardID)
	if idx < 0 {
		return NewError(KindCardNotInHand, "card %s is not in seat %d's hand", cardID, p.Seat)
	}

	if p.Hand[idx].Value == r.reactionValue {
		card := p.removeCard(idx)
		r.placeCenter(card)
		r.resolvedReactors[p.Seat] = true
	} else if !r.penalizedReactors[p.Seat] {
		r.penalizedReactors[p.Seat] = true
		if c, ok := r.draw(); ok {
			p.Hand = append(p.Hand, c)
		}
	} else {
		r.resolvedReactors[p.Seat] = true
	}

	if len(r.resolvedReactors) == len(r.players)-1 {
		r.clearPending()
		r.advanceTurn(true)
	}
	return nil
}

// DrawCard draws one card into the seat's hand without advancing the
// turn. Only legal for the turn holder during plain active play.
func (r *Room) DrawCard(seat int, now time.Time) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseActive {
		return nil, NewError(KindWrongPhase, "cannot draw in phase %q", r.phase)
	}
	if r.pending != pendingNone {
		return nil, NewError(KindWrongPhase, "cannot draw while an effect is pending")
	}
	p, err := r.seatPlayer(seat)
	if err != nil {
		return nil, err
	}
	if seat != r.currentTurn {
		return nil, NewError(KindNotYourTurn, "it is seat %d's turn", r.currentTurn)
	}
	c, ok := r.draw()
	if !ok {
		return nil, NewError(KindDeckExhausted, "the deck is empty")
	}
	p.Hand = append(p.Hand, c)
	r.lastActivity = now
	return r.viewFor(p.ID), nil
}

// CallQueens declares the final round. The caller becomes the scoring
// pivot and the turn passes on immediately; that pass does not count
// toward the final rotation.
func (r *Room) CallQueens(seat int, now time.Time) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseActive {
		return nil, NewError(KindWrongPhase, "queens can only be called in phase %q, not %q", PhaseActive, r.phase)
	}
	if r.pending != pendingNone {
		return nil, NewError(KindWrongPhase, "cannot call queens while an effect is pending")
	}
	p, err := r.seatPlayer(seat)
	if err != nil {
		return nil, err
	}
	if seat != r.currentTurn {
		return nil, NewError(KindNotYourTurn, "it is seat %d's turn", r.currentTurn)
	}

	r.phase = PhaseFinalRound
	r.queensCaller = seat
	r.finalTurns = 0
	r.passTurnTo((seat+1)%len(r.players), true)
	r.lastActivity = now
	return r.viewFor(p.ID), nil
}

// KingReveal resolves a pending king effect by permanently revealing
// one of the actor's own cards to everyone, then advances the turn.
func (r *Room) KingReveal(seat int, cardID string, now time.Time) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending != pendingKingReveal {
		return nil, NewError(KindWrongPhase, "no king reveal is pending")
	}
	if seat != r.pendingSeat {
		return nil, NewError(KindNotYourTurn, "seat %d must resolve the king reveal", r.pendingSeat)
	}
	p, err := r.seatPlayer(seat)
	if err != nil {
		return nil, err
	}
	idx := p.handIndex(cardID)
	if idx < 0 {
		return nil, NewError(KindCardNotInHand, "card %s is not in seat %d's hand", cardID, seat)
	}

	p.Hand[idx].PermanentFaceUp = true
	r.clearPending()
	r.advanceTurn(true)
	r.lastActivity = now
	return r.viewFor(p.ID), nil
}

// JackSwap resolves a pending jack effect by exchanging one of the
// actor's cards with one of the opponent's, then advances the turn.
func (r *Room) JackSwap(seat int, fromID, toID string, now time.Time) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending != pendingJackSwap {
		return nil, NewError(KindWrongPhase, "no jack swap is pending")
	}
	if seat != r.pendingSeat {
		return nil, NewError(KindNotYourTurn, "seat %d must resolve the jack swap", r.pendingSeat)
	}
	if r.phase == PhaseFinalRound && seat == r.queensCaller {
		return nil, NewError(KindWrongPhase, "the queens caller cannot swap during the final round")
	}
	p, err := r.seatPlayer(seat)
	if err != nil {
		return nil, err
	}
	fromIdx := p.handIndex(fromID)
	if fromIdx < 0 {
		return nil, NewError(KindInvalidCardSelection, "card %s is not in seat %d's hand", fromID, seat)
	}
	opp := r.players[(seat+1)%len(r.players)]
	toIdx := opp.handIndex(toID)
	if toIdx < 0 {
		return nil, NewError(KindInvalidCardSelection, "card %s is not in seat %d's hand", toID, opp.Seat)
	}

	p.Hand[fromIdx], opp.Hand[toIdx] = opp.Hand[toIdx], p.Hand[fromIdx]
	r.clearPending()
	r.advanceTurn(true)
	r.lastActivity = now
	return r.viewFor(p.ID), nil
}

// Reset discards all game state and rebuilds a fresh shuffled deck.
// The room keeps its id and random source.
func (r *Room) Reset(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initGame()
	r.lastActivity = now
}

// advanceTurn is the counted turn advance. In the final round it
// increments the rotation counter and ends the game once every seat
// has played; otherwise it passes the turn to the next seat, dealing
// one card on arrival when deal is set.
func (r *Room) advanceTurn(deal bool) {
	if r.phase == PhaseFinalRound {
		r.finalTurns++
		if r.finalTurns >= len(r.players) {
			r.finishGame()
			return
		}
	}
	r.passTurnTo((r.currentTurn+1)%len(r.players), deal)
}

// passTurnTo moves the turn to seat. The arriving seat is dealt one
// card if the deck has one, except the queens caller during the final
// round.
func (r *Room) passTurnTo(seat int, deal bool) {
	r.currentTurn = seat
	if !deal {
		return
	}
	if r.phase == PhaseFinalRound && seat == r.queensCaller {
		return
	}
	if c, ok := r.draw(); ok {
		r.players[seat].Hand = append(r.players[seat].Hand, c)
	}
}

// finishGame computes the final score and ends the room. The caller
// wins only with the strictly lowest hand total; ties resolve against
// them. On a win every seat records its own total; on a loss the
// caller records the sum of the other seats' totals and they record 0.
func (r *Room) finishGame() {
	r.phase = PhaseEnded

	totals := make([]int, len(r.players))
	for i, p := range r.players {
		for _, c := range p.Hand {
			totals[i] += scoreValue(c.Rank)
		}
	}

	caller := r.queensCaller
	callerWins := true
	for i, t := range totals {
		if i != caller && t <= totals[caller] {
			callerWins = false
		}
	}

	if callerWins {
		for i, p := range r.players {
			p.Score = totals[i]
		}
		r.winner = caller
		return
	}

	othersSum := 0
	lowestOther := noSeat
	for i, t := range totals {
		if i == caller {
			continue
		}
		othersSum += t
		if lowestOther == noSeat || t < totals[lowestOther] {
			lowestOther = i
		}
	}
	for i, p := range r.players {
		if i == caller {
			p.Score = othersSum
		} else {
			p.Score = 0
		}
	}
	r.winner = lowestOther
}

// placeCenter puts a card on the center pile, burying the previous
// center card in the discards.
func (r *Room) placeCenter(c Card) {
	r.buryCenter()
	r.centerCard = &c
}

// buryCenter moves the current center card, if any, to the discards.
func (r *Room) buryCenter() {
	if r.centerCard != nil {
		r.discards = append(r.discards, *r.centerCard)
		r.centerCard = nil
	}
}

// draw pops the top (last) card of the deck.
func (r *Room) draw() (Card, bool) {
	if len(r.deck) == 0 {
		return Card{}, false
	}
	c := r.deck[len(r.deck)-1]
	r.deck = r.deck[:len(r.deck)-1]
	return c, true
}

// peekOrDrawCenter draws a center card if none exists yet. Idempotent
// once set.
func (r *Room) peekOrDrawCenter() {
	if r.centerCard != nil {
		return
	}
	if c, ok := r.draw(); ok {
		r.centerCard = &c
	}
}

func (r *Room) seatPlayer(seat int) (*Player, error) {
	if seat < 0 || seat >= len(r.players) {
		return nil, NewError(KindPlayerNotFound, "no player at seat %d", seat)
	}
	return r.players[seat], nil
}
