package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"prediction-league/api/shared"
)

// ResultsEvent is the payload the fixtures feed posts when a result changes
type ResultsEvent struct {
	Tournament string `json:"tournament"`
	MatchID    string `json:"matchId"`
	Event      string `json:"event"`
}

// ProjectionRequest carries the simulated outcomes for a what-if projection
type ProjectionRequest struct {
	Outcomes map[string]shared.SimulatedOutcome `json:"outcomes"`
}

// PickSyncRequest carries a locally cached pick set to merge into the server state
type PickSyncRequest struct {
	UserID   string        `json:"userId"`
	Username string        `json:"username"`
	Picks    []shared.Pick `json:"picks"`
}

// LeaderboardHandler serves the current ranked leaderboard as JSON, computed fresh
// from stored state on every request
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Writes the ranked entries, or an error status
func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entries, err := s.api.Leaderboard()
	if err != nil {
		log.Println("leaderboard computation failed:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

// ProjectionHandler computes a what-if leaderboard for the posted simulated outcomes.
// Nothing is persisted; repeating the request with the same body gives the same rows
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Writes the projected rows, or an error status
func (s *Server) ProjectionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("failed to decode projection request:", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	rows, err := s.api.ProjectLeaderboard(req.Outcomes)
	if err != nil {
		log.Println("projection failed:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

// KnockoutHandler serves the knockout bracket activation decision
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Writes the activation decision, or an error status
func (s *Server) KnockoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	decision, err := s.api.KnockoutActivation()
	if err != nil {
		log.Println("knockout activation lookup failed:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, decision)
}

// PickSyncHandler merges a locally cached pick set into the server-stored one and
// returns the merged canonical set
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Persists the merged pick set and writes it back, or an error status
func (s *Server) PickSyncHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req PickSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("failed to decode pick sync request:", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	merged, err := s.api.SyncUserPicks(shared.User{UserID: req.UserID, Username: req.Username}, req.Picks)
	if err != nil {
		log.Println("pick sync failed:", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	writeJSON(w, merged)
}

// ResultsWebhookHandler HTTP endpoint that receives a webhook from the fixtures feed
// used to kick off updating stored data and regenerating the leaderboard
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Kicks off the update functions for the match data and leaderboard data
func (s *Server) ResultsWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var event ResultsEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Println("failed to decode webhook:", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Events for other tournaments are acknowledged and ignored
	if event.Tournament != s.api.Store.GetTournament() {
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Printf("results event tournament=%s match=%s event=%s\n", event.Tournament, event.MatchID, event.Event)

	// Kick async pipeline – refresh fixtures then regenerate the stored leaderboard
	// The request context dies when this handler returns, so the pipeline gets its own
	go func(e ResultsEvent) {
		if err := s.api.RefreshMatches(context.Background()); err != nil {
			log.Println("RefreshMatches failed:", err)
			return
		}
		if err := s.api.GenerateLeaderboard(); err != nil {
			log.Println("GenerateLeaderboard failed:", err)
			return
		}
	}(event)

	w.WriteHeader(http.StatusOK)
}

// writeJSON serialises a response body, logging instead of failing if the client went away
func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("failed to write response:", err)
	}
}
