// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/serkuksov/NotesAPI/internal/model"
)

// CreateNoteRequest represents the request body for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest represents the request body for updating a note.
// Pointer fields distinguish "absent" from "set to empty": only fields
// present in the request body are written.
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteWithOwnerResponse is a note plus its owner's user name, returned
// by the public listing.
type NoteWithOwnerResponse struct {
	NoteResponse
	UserName string `json:"user_name"`
}

// NoteListResponse represents a page of notes from the public listing.
type NoteListResponse struct {
	Data       []NoteWithOwnerResponse `json:"data"`
	Pagination Pagination              `json:"pagination"`
}

// OwnNoteListResponse represents a page of the caller's own notes.
// Same envelope as the public listing, without owner names.
type OwnNoteListResponse struct {
	Data       []NoteResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// Pagination describes the page that was returned.
type Pagination struct {
	Limit int `json:"limit"`
	Page  int `json:"page"`
	Count int `json:"count"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToNoteResponse converts a Note model to NoteResponse DTO.
func ToNoteResponse(note *model.Note) *NoteResponse {
	return &NoteResponse{
		ID:        note.ID,
		UserID:    note.OwnerID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// ToOwnNoteListResponse converts the caller's notes to an
// OwnNoteListResponse page.
func ToOwnNoteListResponse(notes []*model.Note, limit, page int) *OwnNoteListResponse {
	data := make([]NoteResponse, len(notes))
	for i, n := range notes {
		data[i] = *ToNoteResponse(n)
	}
	return &OwnNoteListResponse{
		Data: data,
		Pagination: Pagination{
			Limit: limit,
			Page:  page,
			Count: len(data),
		},
	}
}

// ToNoteListResponse converts listed notes to a NoteListResponse page.
func ToNoteListResponse(notes []*model.NoteWithOwner, limit, page int) *NoteListResponse {
	data := make([]NoteWithOwnerResponse, len(notes))
	for i, n := range notes {
		data[i] = NoteWithOwnerResponse{
			NoteResponse: *ToNoteResponse(&n.Note),
			UserName:     n.OwnerName,
		}
	}
	return &NoteListResponse{
		Data: data,
		Pagination: Pagination{
			Limit: limit,
			Page:  page,
			Count: len(data),
		},
	}
}
