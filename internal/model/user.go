// Package model defines domain entities for the application.
package model

import "time"

// User represents an account owned by the external identity provider.
// This service reads users only to attach owner names and resolve
// request identity; it never creates or mutates them.
type User struct {
	ID             int64     `json:"id"`
	UserName       string    `json:"user_name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never serialize
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity holds the authenticated caller of a request.
// This is injected into the request context by auth middleware.
type Identity struct {
	UserID      int64
	UserName    string
	IsSuperuser bool
	TokenID     string
}

// CanModify reports whether the identity may mutate the given note.
// Owners and superusers may; everyone else is forbidden.
func (i *Identity) CanModify(note *Note) bool {
	return note.IsOwnedBy(i.UserID) || i.IsSuperuser
}
