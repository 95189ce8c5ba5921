package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/serkuksov/NotesAPI/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserNameExists = errors.New("user name already exists")
	ErrUserHasNotes   = errors.New("user still owns notes")
)

const userColumns = "id, user_name, email, hashed_password, is_active, is_superuser, is_verified, created_at"

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByName retrieves a user by their unique display name.
func (r *Repository) GetUserByName(ctx context.Context, userName string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_name = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, userName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	return user, nil
}

// CreateUser inserts a user record. The users table belongs to the identity
// provider; this exists only for the dev bootstrap script and test seeding.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (user_name, email, hashed_password, is_active, is_superuser, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		user.UserName,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.IsSuperuser,
		user.IsVerified,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserNameExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// DeleteUser removes a user record. The notes foreign key is RESTRICT, so
// deletion fails with ErrUserHasNotes while any notes remain.
func (r *Repository) DeleteUser(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`

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
		if isForeignKeyViolation(err) {
			return false, ErrUserHasNotes
		}
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	return affected > 0, nil
}

// scanUser scans a single row into a User model.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.UserName,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
		&user.IsSuperuser,
		&user.IsVerified,
		&user.CreatedAt,
	)
	return &user, err
}
