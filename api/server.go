// Package api exposes the game session manager over HTTP with JSON bodies.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/marl-games/game-server/service"
	"github.com/marl-games/game-server/service/i"
	"github.com/rs/zerolog"
)

// Server routes game requests to the session manager. Every engine call is a
// bounded synchronous unit of work; the server adds no session-level
// buffering or state of its own.
type Server struct {
	manager i.GameSessionManager
	logger  zerolog.Logger
}

// NewServer wires a server to a session manager.
func NewServer(manager i.GameSessionManager, logger zerolog.Logger) *Server {
	return &Server{manager: manager, logger: logger}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /game/start", s.handleStart)
	mux.HandleFunc("POST /game/move", s.handleMove)
	mux.HandleFunc("POST /game/ai-move", s.handleAIMove)
	mux.HandleFunc("GET /game/state/{session_id}", s.handleState)
	mux.HandleFunc("DELETE /game/{session_id}", s.handleDelete)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "game server is running",
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req GameStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.manager.CreateSession(req.GameType, req.ModelPath)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	state := session.CurrentState()
	writeJSON(w, http.StatusOK, GameStartResponse{
		SessionID:     session.ID().String(),
		GameType:      session.GameKind(),
		Observation:   state.Observation,
		ActionMask:    state.ActionMask,
		ValidActions:  state.ValidActions,
		CurrentPlayer: state.CurrentPlayer,
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, ok := s.lookup(w, req.SessionID)
	if !ok {
		return
	}

	state, reward, done, err := session.MakeMove(req.Action)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MoveResponse{
		Observation:   state.Observation,
		ActionMask:    state.ActionMask,
		ValidActions:  state.ValidActions,
		Reward:        reward,
		Done:          done,
		CurrentPlayer: state.CurrentPlayer,
	})
}

func (s *Server) handleAIMove(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r.URL.Query().Get("session_id"))
	if !ok {
		return
	}

	action, reward, done, err := session.AIMove()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	state := session.CurrentState()
	writeJSON(w, http.StatusOK, AIMoveResponse{
		AIAction:      action,
		Observation:   state.Observation,
		ActionMask:    state.ActionMask,
		ValidActions:  state.ValidActions,
		CurrentPlayer: state.CurrentPlayer,
		Done:          done,
		Reward:        reward,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r.PathValue("session_id"))
	if !ok {
		return
	}

	state := session.CurrentState()
	writeJSON(w, http.StatusOK, GameStateResponse{
		SessionID:     session.ID().String(),
		GameType:      session.GameKind(),
		Observation:   state.Observation,
		ActionMask:    state.ActionMask,
		ValidActions:  state.ValidActions,
		CurrentPlayer: state.CurrentPlayer,
		Done:          state.Done,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("session_id")
	id, err := uuid.Parse(raw)
	if err != nil || !s.manager.DeleteSession(id) {
		s.writeServiceError(w, service.ErrSessionNotFound)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Status: "deleted", SessionID: raw})
}

// lookup resolves a session id string, writing a 404 when it does not name a
// live session.
func (s *Server) lookup(w http.ResponseWriter, raw string) (i.GameSession, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeServiceError(w, service.ErrSessionNotFound)
		return nil, false
	}
	session, ok := s.manager.GetSession(id)
	if !ok {
		s.writeServiceError(w, service.ErrSessionNotFound)
		return nil, false
	}
	return session, true
}

// writeServiceError translates engine errors into HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, service.ErrUnsupportedGameKind):
		writeError(w, http.StatusBadRequest, "Invalid game type")
	case errors.Is(err, service.ErrPolicyNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionFinished):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Warn().Err(err).Msg("request failed")
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
