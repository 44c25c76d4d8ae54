package service

import "errors"

// Session-engine errors.
var (
	ErrUnsupportedGameKind = errors.New("unsupported game type")
	ErrPolicyNotFound      = errors.New("no trained policy found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionFinished     = errors.New("game is already finished")
)
