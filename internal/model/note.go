// Package model defines domain entities for the application.
package model

import "time"

// MaxTitleLength is the maximum length of a note title, matching the
// VARCHAR(60) column. Longer titles are rejected, never truncated.
const MaxTitleLength = 60

// Note represents a user-owned text record.
type Note struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether the note belongs to the given user.
func (n *Note) IsOwnedBy(userID int64) bool {
	return n.OwnerID == userID
}

// NoteWithOwner pairs a note with its owner's display name.
// Produced by the joined listing query so no second round trip is needed.
type NoteWithOwner struct {
	Note
	OwnerName string `json:"user_name"`
}
