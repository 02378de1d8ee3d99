package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrNotJoined       = errors.New("player has not joined")

	// Match errors
	ErrInvalidMove   = errors.New("invalid move: use 'rock', 'paper', or 'scissors'")
	ErrEngineFailure = errors.New("match engine failure")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("username or email already registered")
)
