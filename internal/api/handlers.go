/*
Package api
File: handlers.go
Description:
    HTTP handlers for the presentation layer: reading snapshots and the
    catalog, and the action endpoints (click, buy, prestige, visibility).
    Failed transactions are not errors; the response carries the unchanged
    snapshot and a flag, and the UI is expected to disable the affordance.
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/duskworks/nightfall-idle/internal/game"
)

// Server bundles the handlers' collaborators.
type Server struct {
	Session   *game.Session
	Scheduler *game.Scheduler
	Hub       *Hub
}

type BuyRequest struct {
	ID string `json:"id"`
}

type VisibilityRequest struct {
	Visible bool `json:"visible"`
}

type ClickResponse struct {
	Result game.ClickResult `json:"result"`
	State  game.Snapshot    `json:"state"`
}

type PurchaseResponse struct {
	Purchased bool          `json:"purchased"`
	State     game.Snapshot `json:"state"`
}

type PrestigeResponse struct {
	Prestiged bool          `json:"prestiged"`
	State     game.Snapshot `json:"state"`
}

// Routes builds the endpoint table.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Read endpoints
	mux.HandleFunc("/api/state", s.handleGetState)
	mux.HandleFunc("/api/catalog", s.handleGetCatalog)

	// Action endpoints
	mux.HandleFunc("/api/click", s.handleClick)
	mux.HandleFunc("/api/upgrades/buy", s.handleBuyUpgrade)
	mux.HandleFunc("/api/prestige/upgrades/buy", s.handleBuyPrestigeUpgrade)
	mux.HandleFunc("/api/prestige", s.handlePrestige)
	mux.HandleFunc("/api/visibility", s.handleVisibility)

	// Real-time snapshot feed
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(s.Hub, w, r)
	})

	return mux
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.Snapshot())
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.Catalog())
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	result, snap := s.Session.Click()
	s.broadcastState(snap)
	writeJSON(w, ClickResponse{Result: result, State: snap})
}

func (s *Server) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	var req BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	snap, ok := s.Session.BuyUpgrade(req.ID)
	s.broadcastState(snap)
	writeJSON(w, PurchaseResponse{Purchased: ok, State: snap})
}

func (s *Server) handleBuyPrestigeUpgrade(w http.ResponseWriter, r *http.Request) {
	var req BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	snap, ok := s.Session.BuyPrestigeUpgrade(req.ID)
	s.broadcastState(snap)
	writeJSON(w, PurchaseResponse{Purchased: ok, State: snap})
}

func (s *Server) handlePrestige(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.Session.Prestige()
	s.broadcastState(snap)
	writeJSON(w, PrestigeResponse{Prestiged: ok, State: snap})
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	snap := s.Scheduler.SetVisibility(req.Visible)
	s.broadcastState(snap)
	writeJSON(w, snap)
}

func (s *Server) broadcastState(snap game.Snapshot) {
	if s.Hub == nil {
		return
	}
	s.Hub.BroadcastJSON("state_sync", snap)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// CORSMiddleware lets the browser client talk to the server across origins.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
