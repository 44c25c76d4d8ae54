package api

// Request and response schemas for the game endpoints. Field names follow
// the wire contract consumed by the frontend.

// GameStartRequest asks for a new game session.
type GameStartRequest struct {
	GameType string `json:"game_type"`
	// ModelPath selects a specific checkpoint; empty means latest.
	ModelPath string `json:"model_path,omitempty"`
}

// GameStartResponse carries the initial game state and session handle.
type GameStartResponse struct {
	SessionID     string  `json:"session_id"`
	GameType      string  `json:"game_type"`
	Observation   any     `json:"observation"`
	ActionMask    []bool  `json:"action_mask"`
	ValidActions  []int   `json:"valid_actions"`
	CurrentPlayer *string `json:"current_player"`
}

// MoveRequest submits the caller's action for a session.
type MoveRequest struct {
	SessionID string `json:"session_id"`
	Action    int    `json:"action"`
}

// MoveResponse carries the state after a move.
type MoveResponse struct {
	Observation   any     `json:"observation"`
	ActionMask    []bool  `json:"action_mask"`
	ValidActions  []int   `json:"valid_actions"`
	Reward        float64 `json:"reward"`
	Done          bool    `json:"done"`
	CurrentPlayer *string `json:"current_player"`
	AIAction      *int    `json:"ai_action"`
}

// AIMoveResponse carries the AI's chosen action and the state after it.
type AIMoveResponse struct {
	AIAction      int     `json:"ai_action"`
	Observation   any     `json:"observation"`
	ActionMask    []bool  `json:"action_mask"`
	ValidActions  []int   `json:"valid_actions"`
	CurrentPlayer *string `json:"current_player"`
	Done          bool    `json:"done"`
	Reward        float64 `json:"reward"`
}

// GameStateResponse carries the full state of an existing session.
type GameStateResponse struct {
	SessionID     string  `json:"session_id"`
	GameType      string  `json:"game_type"`
	Observation   any     `json:"observation"`
	ActionMask    []bool  `json:"action_mask"`
	ValidActions  []int   `json:"valid_actions"`
	CurrentPlayer *string `json:"current_player"`
	Done          bool    `json:"done"`
}

// DeleteResponse acknowledges a deleted session.
type DeleteResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
