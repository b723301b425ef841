// Package model defines domain entities for the application.
package model

import "time"

// User represents an account that owns tasks.
// PasswordHash holds an argon2id PHC string and is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}
