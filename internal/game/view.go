// internal/game/view.go
//
// Player-specific projections of room state. This is the only place
// that decides what a requester may see, so every state-returning path
// goes through it: the requester's own hand keeps suit/rank/value
// (face down unless revealed), opponent cards collapse to an opaque id
// unless a King effect made them permanently face up, and the center
// card is always face up.

package game

// CardView is the wire shape of a card after redaction. Suit/rank/value
// are zero for cards the requester may not see.
type CardView struct {
	ID       string `json:"card_id"`
	Suit     Suit   `json:"suit,omitempty"`
	Rank     int    `json:"rank,omitempty"`
	Value    int    `json:"value,omitempty"`
	IsFaceUp bool   `json:"is_face_up"`
	Selected bool   `json:"selected,omitempty"`
}

// PlayerView is one seat as seen by the requester.
type PlayerView struct {
	Index                    int        `json:"index"`
	HandSize                 int        `json:"hand_size"`
	InitialSelectionComplete bool       `json:"initial_selection_complete"`
	Hand                     []CardView `json:"hand"`
	Score                    int        `json:"score"`
}

// View is a full room snapshot tailored to one requesting player.
type View struct {
	RoomID               string       `json:"room_id"`
	Phase                Phase        `json:"phase"`
	CenterCard           *CardView    `json:"center_card"`
	CurrentTurnIndex     int          `json:"current_turn_index"`
	DeckCount            int          `json:"deck_count"`
	TotalPlayers         int          `json:"total_players"`
	Players              []PlayerView `json:"players"`
	InitialSelectionMode bool         `json:"initial_selection_mode"`
	ReactionMode         bool         `json:"reaction_mode"`
	ReactionValue        int          `json:"reaction_value,omitempty"`
	KingRevealPending    bool         `json:"king_reveal_pending"`
	JackSwapPending      bool         `json:"jack_swap_pending"`
	PendingPlayerIndex   int          `json:"pending_player_index"`
	QueensTriggered      bool         `json:"queens_triggered"`
	FinalRoundActive     bool         `json:"final_round_active"`
	QueensCallerIndex    int          `json:"queens_caller_index"`
	GameOver             bool         `json:"game_over"`
	WinnerIndex          int          `json:"winner_index"`
}

// View builds the snapshot for the given player id. An unknown id sees
// every hand redacted.
func (r *Room) View(playerID string) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewFor(playerID)
}

// viewFor assumes the room lock is held.
func (r *Room) viewFor(playerID string) *View {
	v := &View{
		RoomID:               r.id,
		Phase:                r.phase,
		CurrentTurnIndex:     r.currentTurn,
		DeckCount:            len(r.deck),
		TotalPlayers:         len(r.players),
		InitialSelectionMode: r.phase == PhaseInitialSelection,
		ReactionMode:         r.pending == pendingReaction,
		KingRevealPending:    r.pending == pendingKingReveal,
		JackSwapPending:      r.pending == pendingJackSwap,
		PendingPlayerIndex:   noSeat,
		QueensTriggered:      r.queensCaller != noSeat,
		FinalRoundActive:     r.phase == PhaseFinalRound,
		QueensCallerIndex:    r.queensCaller,
		GameOver:             r.phase == PhaseEnded,
		WinnerIndex:          r.winner,
	}
	if r.pending != pendingNone {
		v.PendingPlayerIndex = r.pendingSeat
	}
	if r.pending == pendingReaction {
		v.ReactionValue = r.reactionValue
	}
	if r.centerCard != nil {
		cv := fullCardView(*r.centerCard)
		cv.IsFaceUp = true
		v.CenterCard = &cv
	}

	for _, p := range r.players {
		pv := PlayerView{
			Index:                    p.Seat,
			HandSize:                 len(p.Hand),
			InitialSelectionComplete: p.SelectionDone,
			Score:                    p.Score,
			Hand:                     make([]CardView, 0, len(p.Hand)),
		}
		owner := playerID != "" && p.ID == playerID
		for _, c := range p.Hand {
			switch {
			case owner:
				cv := fullCardView(c)
				cv.Selected = p.selectedCard(c.ID)
				cv.IsFaceUp = c.PermanentFaceUp || cv.Selected
				pv.Hand = append(pv.Hand, cv)
			case c.PermanentFaceUp:
				cv := fullCardView(c)
				cv.IsFaceUp = true
				pv.Hand = append(pv.Hand, cv)
			default:
				pv.Hand = append(pv.Hand, CardView{ID: c.ID})
			}
		}
		v.Players = append(v.Players, pv)
	}
	return v
}

func fullCardView(c Card) CardView {
	return CardView{ID: c.ID, Suit: c.Suit, Rank: c.Rank, Value: c.Value}
}

// Summary is the lobby listing shape for one room.
type Summary struct {
	ID         string `json:"id"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	IsFull     bool   `json:"is_full"`
}

// Summary reports occupancy for room listings.
func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		ID:         r.id,
		Players:    len(r.players),
		MaxPlayers: maxPlayers,
		IsFull:     len(r.players) >= maxPlayers,
	}
}
