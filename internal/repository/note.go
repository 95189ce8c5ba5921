package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/serkuksov/NotesAPI/internal/model"
)

// Common errors for note repository operations.
var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrOwnerNotFound = errors.New("note owner not found")
)

// CreateNote inserts a new note owned by ownerID.
// created_at and updated_at are set to the same instant.
func (r *Repository) CreateNote(ctx context.Context, ownerID int64, title, content string) (*model.Note, error) {
	query := `
		INSERT INTO notes (user_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`

	now := time.Now().UTC()
	note := &model.Note{
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.RunInTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, ownerID, title, content, now).Scan(&note.ID)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// GetNoteByID retrieves a note by its ID.
func (r *Repository) GetNoteByID(ctx context.Context, id int64) (*model.Note, error) {
	query := `
		SELECT n.id, n.user_id, n.title, n.content, n.created_at, n.updated_at
		FROM notes n
		WHERE n.id = $1
	`

	note, err := scanNote(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note by ID: %w", err)
	}

	return note, nil
}

// ListNotesByOwner retrieves a page of the owner's notes,
// most recently updated first.
func (r *Repository) ListNotesByOwner(ctx context.Context, ownerID int64, limit, page int) ([]*model.Note, error) {
	query := `
		SELECT n.id, n.user_id, n.title, n.content, n.created_at, n.updated_at
		FROM notes n
		WHERE n.user_id = $1
		ORDER BY n.updated_at DESC, n.id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes by owner: %w", err)
	}
	defer rows.Close()

	notes := make([]*model.Note, 0, limit)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// ListNotes retrieves a page of notes joined with their owners' names,
// narrowed and ordered by the filter. Returns ErrInvalidSortField when the
// filter names a sort key that is not a Note column.
func (r *Repository) ListNotes(ctx context.Context, filter NoteFilter, limit, page int) ([]*model.NoteWithOwner, error) {
	query, args, err := buildListQuery(filter, limit, page)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*model.NoteWithOwner, 0, limit)
	for rows.Next() {
		var note model.NoteWithOwner
		err := rows.Scan(
			&note.ID,
			&note.OwnerID,
			&note.Title,
			&note.Content,
			&note.CreatedAt,
			&note.UpdatedAt,
			&note.OwnerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// UpdateNoteFields sets only the supplied fields and refreshes updated_at.
// A nil pointer means "leave unchanged"; an empty string is a legal value.
// Reports whether a row was actually affected.
func (r *Repository) UpdateNoteFields(ctx context.Context, id int64, title, content *string) (bool, error) {
	sets := []string{"updated_at = $2"}
	args := []any{id, time.Now().UTC()}

	if title != nil {
		args = append(args, *title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if content != nil {
		args = append(args, *content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}

	query := fmt.Sprintf("UPDATE notes SET %s WHERE id = $1", strings.Join(sets, ", "))

	var affected int64
	err := r.RunInTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		result, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = result.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to update note: %w", err)
	}

	return affected > 0, nil
}

// DeleteNote permanently removes a note.
// Reports whether a row was actually affected.
func (r *Repository) DeleteNote(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM notes WHERE id = $1`

	var affected int64
	err := r.RunInTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		result, err := tx.Exec(ctx, query, id)
		if err != nil {
			return err
		}
		affected = result.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete note: %w", err)
	}

	return affected > 0, nil
}

// scanNote scans a single row into a Note model.
func scanNote(row pgx.Row) (*model.Note, error) {
	var note model.Note
	err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	return &note, err
}
