package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zyreoo/queens-server-host/internal/config"
	"github.com/zyreoo/queens-server-host/internal/store"
)

type cardPayload struct {
	ID   string `json:"card_id"`
	Suit string `json:"suit"`
	Rank int    `json:"rank"`
}

type playerPayload struct {
	Index int           `json:"index"`
	Hand  []cardPayload `json:"hand"`
}

type statePayload struct {
	Phase                string          `json:"phase"`
	CenterCard           *cardPayload    `json:"center_card"`
	CurrentTurnIndex     int             `json:"current_turn_index"`
	TotalPlayers         int             `json:"total_players"`
	Players              []playerPayload `json:"players"`
	InitialSelectionMode bool            `json:"initial_selection_mode"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(store.NewMemory(), config.Config{ClientOrigin: "*"})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any, out any) int {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal %s body: %v", path, err)
	}
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return res.StatusCode
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) int {
	t.Helper()
	res, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return res.StatusCode
}

func TestCreateJoinSelectFlow(t *testing.T) {
	ts := newTestServer(t)

	var created struct {
		RoomID string `json:"room_id"`
	}
	if code := postJSON(t, ts, "/create_room", map[string]any{}, &created); code != http.StatusOK {
		t.Fatalf("create_room status = %d", code)
	}
	if created.RoomID == "" {
		t.Fatal("create_room returned no room id")
	}

	type joinRes struct {
		PlayerID    string       `json:"player_id"`
		PlayerIndex int          `json:"player_index"`
		RoomFull    bool         `json:"room_full"`
		State       statePayload `json:"state"`
	}
	var a, b joinRes
	if code := postJSON(t, ts, "/join", map[string]any{"room_id": created.RoomID}, &a); code != http.StatusOK {
		t.Fatalf("first join status = %d", code)
	}
	if code := postJSON(t, ts, "/join", map[string]any{"room_id": created.RoomID}, &b); code != http.StatusOK {
		t.Fatalf("second join status = %d", code)
	}
	if a.PlayerIndex != 0 || b.PlayerIndex != 1 {
		t.Fatalf("seats = %d/%d, want 0/1", a.PlayerIndex, b.PlayerIndex)
	}
	if !b.RoomFull || !b.State.InitialSelectionMode {
		t.Fatalf("second join = %+v, want full room in selection mode", b)
	}

	// Third seat is refused.
	if code := postJSON(t, ts, "/join", map[string]any{"room_id": created.RoomID}, nil); code != http.StatusBadRequest {
		t.Fatalf("third join status = %d, want 400", code)
	}

	// Each player selects the first two cards of their own hand.
	for _, p := range []joinRes{a, b} {
		var st statePayload
		getJSON(t, ts, "/state?room_id="+created.RoomID+"&player_id="+p.PlayerID, &st)
		hand := st.Players[p.PlayerIndex].Hand
		if len(hand) != 4 {
			t.Fatalf("seat %d sees %d cards, want 4", p.PlayerIndex, len(hand))
		}
		if hand[0].Suit == "" {
			t.Fatal("own hand content missing from state")
		}
		var res struct {
			State statePayload `json:"state"`
		}
		code := postJSON(t, ts, "/select_initial_cards", map[string]any{
			"room_id":           created.RoomID,
			"player_index":      p.PlayerIndex,
			"selected_card_ids": []string{hand[0].ID, hand[1].ID},
		}, &res)
		if code != http.StatusOK {
			t.Fatalf("select for seat %d status = %d", p.PlayerIndex, code)
		}
	}

	var st statePayload
	getJSON(t, ts, "/state?room_id="+created.RoomID+"&player_id="+a.PlayerID, &st)
	if st.Phase != "active" || st.CurrentTurnIndex != 0 || st.CenterCard == nil {
		t.Fatalf("state after selections = %+v, want active play with a center card", st)
	}

	// Opponent hands are redacted over the wire.
	if suit := st.Players[1].Hand[0].Suit; suit != "" {
		t.Fatalf("opponent suit leaked: %q", suit)
	}
}

func TestUnknownRoomIs404(t *testing.T) {
	ts := newTestServer(t)
	if code := postJSON(t, ts, "/join", map[string]any{"room_id": "missing"}, nil); code != http.StatusNotFound {
		t.Fatalf("join unknown room status = %d, want 404", code)
	}
	if code := getJSON(t, ts, "/state?room_id=missing", nil); code != http.StatusNotFound {
		t.Fatalf("state unknown room status = %d, want 404", code)
	}
}

func TestListRooms(t *testing.T) {
	ts := newTestServer(t)

	var created struct {
		RoomID string `json:"room_id"`
	}
	postJSON(t, ts, "/create_room", map[string]any{}, &created)

	var listed struct {
		Rooms []struct {
			ID         string `json:"id"`
			Players    int    `json:"players"`
			MaxPlayers int    `json:"max_players"`
			IsFull     bool   `json:"is_full"`
		} `json:"rooms"`
	}
	if code := getJSON(t, ts, "/rooms", &listed); code != http.StatusOK {
		t.Fatalf("rooms status = %d", code)
	}
	if len(listed.Rooms) != 1 || listed.Rooms[0].ID != created.RoomID {
		t.Fatalf("rooms = %+v", listed.Rooms)
	}
	if listed.Rooms[0].MaxPlayers != 2 || listed.Rooms[0].IsFull {
		t.Fatalf("room summary = %+v", listed.Rooms[0])
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	if code := getJSON(t, ts, "/health", nil); code != http.StatusOK {
		t.Fatalf("health status = %d", code)
	}
}
