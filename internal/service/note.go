// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serkuksov/NotesAPI/internal/metrics"
	"github.com/serkuksov/NotesAPI/internal/model"
	"github.com/serkuksov/NotesAPI/internal/repository"
)

// Service errors.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title exceeds maximum length")
	ErrNoteNotFound     = errors.New("note not found")
	ErrForbidden        = errors.New("not allowed to modify this note")
	ErrNoFieldsToUpdate = errors.New("no fields supplied for update")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidLimit     = errors.New("limit out of range")
	ErrInvalidPage      = errors.New("page out of range")
)

// Pagination bounds, matching the public API contract.
const (
	MinLimit     = 5
	MaxLimit     = 50
	DefaultLimit = 25
	DefaultPage  = 1
)

// NoteService handles note business logic.
type NoteService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewNoteService creates a new NoteService.
func NewNoteService(repo *repository.Repository, recorder metrics.Recorder) *NoteService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &NoteService{
		repo:    repo,
		metrics: recorder,
	}
}

// Pagination holds validated limit/page values.
type Pagination struct {
	Limit int
	Page  int
}

// ValidatePagination checks bounds and applies defaults.
// Zero means "not supplied" and takes the default; out-of-range values
// are a validation failure, not silently clamped.
func ValidatePagination(limit, page int) (Pagination, error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if page == 0 {
		page = DefaultPage
	}

	if limit < MinLimit || limit > MaxLimit {
		return Pagination{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidLimit, limit, MinLimit, MaxLimit)
	}
	if page < 1 {
		return Pagination{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	return Pagination{Limit: limit, Page: page}, nil
}

// validateTitle enforces the creation/update title rules: present,
// non-empty, and within the column limit. Overlong titles are rejected,
// never truncated.
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if len([]rune(title)) > model.MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// CreateNote creates a note owned by the authenticated caller.
func (s *NoteService) CreateNote(ctx context.Context, identity *model.Identity, title, content string) (*model.Note, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	note, err := s.repo.CreateNote(ctx, identity.UserID, title, content)
	if err != nil {
		return nil, err
	}

	s.metrics.IncNoteCreated()
	return note, nil
}

// GetNote fetches a single note by id.
func (s *NoteService) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	note, err := s.repo.GetNoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

// ListUserNotes returns a page of the caller's own notes,
// most recently updated first.
func (s *NoteService) ListUserNotes(ctx context.Context, identity *model.Identity, limit, page int) ([]*model.Note, error) {
	pagination, err := ValidatePagination(limit, page)
	if err != nil {
		return nil, err
	}

	notes, err := s.repo.ListNotesByOwner(ctx, identity.UserID, pagination.Limit, pagination.Page)
	if err != nil {
		return nil, err
	}

	s.metrics.IncNoteListed()
	return notes, nil
}

// ListNotesInput defines the public listing parameters.
type ListNotesInput struct {
	Title     string
	OwnerName string
	Search    string
	OrderBy   []string
	Limit     int
	Page      int
}

// ListNotes returns a filtered, sorted, paginated page of notes with
// their owners' display names.
func (s *NoteService) ListNotes(ctx context.Context, input ListNotesInput) ([]*model.NoteWithOwner, error) {
	pagination, err := ValidatePagination(input.Limit, input.Page)
	if err != nil {
		return nil, err
	}

	filter := repository.NoteFilter{
		Title:     input.Title,
		OwnerName: input.OwnerName,
		Search:    input.Search,
		OrderBy:   input.OrderBy,
	}

	start := time.Now()
	notes, err := s.repo.ListNotes(ctx, filter, pagination.Limit, pagination.Page)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortField) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSortField, err)
		}
		return nil, err
	}

	s.metrics.IncNoteListed()
	s.metrics.ObserveListDuration(time.Since(start))
	return notes, nil
}

// UpdateNoteInput defines the mutable note fields. A nil pointer means
// "leave unchanged"; an empty string is a legal value.
type UpdateNoteInput struct {
	Title   *string
	Content *string
}

// HasFields reports whether at least one field was explicitly supplied.
func (u UpdateNoteInput) HasFields() bool {
	return u.Title != nil || u.Content != nil
}

// UpdateNote mutates a note's fields after the ordered authorization
// checks: the note must exist, the caller must be the owner or a
// superuser, and at least one field must be supplied.
func (s *NoteService) UpdateNote(ctx context.Context, identity *model.Identity, id int64, input UpdateNoteInput) (*model.Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	if !identity.CanModify(note) {
		s.metrics.IncMutationDenied()
		return nil, ErrForbidden
	}

	if !input.HasFields() {
		return nil, ErrNoFieldsToUpdate
	}

	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateNoteFields(ctx, id, input.Title, input.Content)
	if err != nil {
		return nil, err
	}
	if !updated {
		// The note disappeared between the check and the write.
		return nil, ErrNoteNotFound
	}

	s.metrics.IncNoteUpdated()
	return s.GetNote(ctx, id)
}

// DeleteNote permanently removes a note after the same existence and
// ownership checks as UpdateNote. Returns the removed note.
func (s *NoteService) DeleteNote(ctx context.Context, identity *model.Identity, id int64) (*model.Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	if !identity.CanModify(note) {
		s.metrics.IncMutationDenied()
		return nil, ErrForbidden
	}

	deleted, err := s.repo.DeleteNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrNoteNotFound
	}

	s.metrics.IncNoteDeleted()
	return note, nil
}
