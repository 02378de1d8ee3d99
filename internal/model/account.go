package model

import "time"

// Account is a registered login. Its ID is the PlayerID used by the registry.
type Account struct {
	ID           PlayerID
	Username     string // immutable
	Email        string
	DisplayName  string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
