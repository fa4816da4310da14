// internal/httpserver/server.go
//
// HTTP wiring for the Queens backend. The router is deliberately thin:
// each endpoint maps one inbound action to exactly one engine call,
// supplies the room and acting-player identifiers plus the clock, and
// serializes the engine's view. All game decisions live in internal/game.
//
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Room endpoints: create/join/reset, the in-game actions, state, listing.
//   - Engine error kind -> HTTP status mapping.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zyreoo/queens-server-host/internal/config"
	"github.com/zyreoo/queens-server-host/internal/game"
	"github.com/zyreoo/queens-server-host/internal/store"
)

// Server bundles the router and the room store.
type Server struct {
	r     *chi.Mux
	store store.Store
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"queens-server","endpoints":["/health","POST /create_room","POST /join","POST /play_card","GET /state","GET /rooms"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// --- rooms ---
	s.r.Post("/create_room", s.handleCreateRoom)
	s.r.Post("/join", s.handleJoin)
	s.r.Post("/select_initial_cards", s.handleSelectInitialCards)
	s.r.Post("/play_card", s.handlePlayCard)
	s.r.Post("/draw_card", s.handleDrawCard)
	s.r.Post("/call_queens", s.handleCallQueens)
	s.r.Post("/king_reveal", s.handleKingReveal)
	s.r.Post("/jack_swap", s.handleJackSwap)
	s.r.Post("/reset", s.handleReset)
	s.r.Get("/state", s.handleState)
	s.r.Get("/rooms", s.handleListRooms)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for the configured origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ handlers -----------------------------------

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	room := game.NewRoom(uuid.NewString(), nil)
	room.Touch(time.Now())
	if err := s.store.Create(r.Context(), room); err != nil {
		s.writeError(w, err)
		return
	}
	log.Info().Str("room_id", room.ID()).Msg("room created")
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "room_id": room.ID()})
}

type joinReq struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	room, err := s.store.Get(r.Context(), req.RoomID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := room.Join(req.PlayerID, time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	log.Info().Str("room_id", req.RoomID).Int("seat", res.Seat).Bool("rejoined", res.Rejoined).Msg("player joined")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"room_id":      req.RoomID,
		"player_id":    res.PlayerID,
		"player_index": res.Seat,
		"rejoined":     res.Rejoined,
		"room_full":    res.RoomFull,
		"state":        res.View,
	})
}

type selectReq struct {
	RoomID          string   `json:"room_id"`
	PlayerIndex     int      `json:"player_index"`
	SelectedCardIDs []string `json:"selected_card_ids"`
}

func (s *Server) handleSelectInitialCards(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.roomAction(w, r, req.RoomID, func(room *game.Room, now time.Time) (*game.View, error) {
		return room.SelectInitialCards(req.PlayerIndex, req.SelectedCardIDs, now)
	})
}

type playCardReq struct {
	RoomID      string `json:"room_id"`
	PlayerIndex int    `json:"player_index"`
	CardID      string `json:"card_id"`
}

func (s *Server) handlePlayCard(w http.ResponseWriter, r *http.Request) {
	var req playCardReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.roomAction(w, r, req.RoomID, func(room *game.Room, now time.Time) (*game.View, error) {
		return room.PlayCard(req.PlayerIndex, req.CardID, now)
	})
}

type seatReq struct {
	RoomID      string `json:"room_id"`
	PlayerIndex int    `json:"player_index"`
}

func (s *Server) handleDrawCard(w http.ResponseWriter, r *http.Request) {
	var req seatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.roomAction(w, r, req.RoomID, func(room *game.Room, now time.Time) (*game.View, error) {
		return room.DrawCard(req.PlayerIndex, now)
	})
}

func (s *Server) handleCallQueens(w http.ResponseWriter, r *http.Request) {
	var req seatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.roomAction(w, r, req.RoomID, func(room *game.Room, now time.Time) (*game.View, error) {
		return room.CallQueens(req.PlayerIndex, now)
	})
}

type kingRevealReq struct {
	RoomID      string `json:"room_id"`
	PlayerIndex int    `json:"player_index"`
	CardID      string `json:"card_id"`
}

func (s *Server) handleKingReveal(w http.ResponseWriter, r *http.Request) {
	var req kingRevealReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.roomAction(w, r, req.RoomID, func(room *game.Room, now time.Time) (*game.View, error) {
		return room.KingReveal(req.PlayerIndex, req.CardID, now)
	})
}

type jackSwapReq struct {
	RoomID      string `json:"room_id"`
	PlayerIndex int    `json:"player_index"`
	FromCardID  string `json:"from_card_id"`
	ToCardID    string `json:"to_card_id"`
}

func (s *Server) handleJackSwap(w http.ResponseWriter, r *http.Request) {
	var req jackSwapReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.roomAction(w, r, req.RoomID, func(room *game.Room, now time.Time) (*game.View, error) {
		return room.JackSwap(req.PlayerIndex, req.FromCardID, req.ToCardID, now)
	})
}

type resetReq struct {
	RoomID string `json:"room_id"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	room, err := s.store.Get(r.Context(), req.RoomID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	room.Reset(time.Now())
	log.Info().Str("room_id", req.RoomID).Msg("room reset")
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "message": "game reset complete"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room_id")
	playerID := r.URL.Query().Get("player_id")
	room, err := s.store.Get(r.Context(), roomID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room.View(playerID))
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	summaries := make([]game.Summary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.Summary())
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rooms": summaries})
}

// roomAction runs one engine call against a room and writes the
// resulting view, or the mapped error.
func (s *Server) roomAction(w http.ResponseWriter, r *http.Request, roomID string,
	fn func(*game.Room, time.Time) (*game.View, error)) {
	room, err := s.store.Get(r.Context(), roomID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := fn(room, time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "state": view})
}

// ------------------------------- output ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine error kinds to HTTP statuses. Anything without
// a kind is an unexpected internal fault and gets logged.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := game.KindOf(err)
	switch kind {
	case game.KindRoomNotFound, game.KindPlayerNotFound:
		status = http.StatusNotFound
	case game.KindNotYourTurn:
		status = http.StatusForbidden
	case game.KindRoomFull, game.KindWrongPhase, game.KindCardNotInHand,
		game.KindInvalidSelectionCount, game.KindInvalidCardSelection, game.KindDeckExhausted:
		status = http.StatusBadRequest
	default:
		log.Error().Err(err).Msg("unexpected handler error")
		kind = "internal"
	}
	writeJSON(w, status, map[string]any{"status": "error", "error": string(kind), "message": err.Error()})
}
