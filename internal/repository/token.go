package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/serkuksov/NotesAPI/internal/model"
)

// ErrTokenNotFound indicates no access token matched the lookup.
var ErrTokenNotFound = errors.New("access token not found")

// CreateAccessToken inserts a new access token record. Like users, access
// tokens belong to the identity provider; this is the provisioning path
// used by the bootstrap script and test seeding.
func (r *Repository) CreateAccessToken(ctx context.Context, token *model.AccessToken) error {
	query := `
		INSERT INTO access_tokens (id, user_id, token_hash, token_prefix, scopes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.TokenPrefix,
		pq.Array(token.Scopes),
		token.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create access token: %w", err)
	}

	return nil
}

// GetAccessTokensByPrefix retrieves all tokens matching a visible prefix.
// Used during authentication to find candidate tokens for verification;
// prefix collisions are possible, so callers verify each candidate.
func (r *Repository) GetAccessTokensByPrefix(ctx context.Context, prefix string) ([]*model.AccessToken, error) {
	query := `
		SELECT id, user_id, token_hash, token_prefix, scopes, last_used_at, created_at
		FROM access_tokens
		WHERE token_prefix = $1
	`

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens by prefix: %w", err)
	}
	defer rows.Close()

	var tokens []*model.AccessToken
	for rows.Next() {
		token, err := scanAccessToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access tokens: %w", err)
	}

	return tokens, nil
}

// UpdateTokenLastUsed records when a token last authenticated a request.
func (r *Repository) UpdateTokenLastUsed(ctx context.Context, id string) error {
	query := `UPDATE access_tokens SET last_used_at = $2 WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update token last_used_at: %w", err)
	}

	return nil
}

// scanAccessToken scans a row into an AccessToken model.
func scanAccessToken(row pgx.Row) (*model.AccessToken, error) {
	var token model.AccessToken
	var scopes []string
	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.TokenPrefix,
		pq.Array(&scopes),
		&token.LastUsedAt,
		&token.CreatedAt,
	)
	token.Scopes = scopes
	return &token, err
}
