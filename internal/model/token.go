// Package model defines domain entities for the application.
package model

import "time"

// AccessToken represents a bearer token record owned by the external
// identity provider. Only the Argon2id hash is stored; the plaintext is
// shown once at provisioning time.
type AccessToken struct {
	ID          string     `json:"id"`
	UserID      int64      `json:"user_id"`
	TokenHash   string     `json:"-"` // Never serialize
	TokenPrefix string     `json:"token_prefix"`
	Scopes      []string   `json:"scopes"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
