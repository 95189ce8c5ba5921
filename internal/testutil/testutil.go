// Package testutil provides helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/serkuksov/NotesAPI/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	release := func() error {
		defer conn.Release()
		_, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID)
		return err
	}
	return release, nil
}

// resetSchema re-applies a migration's down then up files.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downSQL, err := os.ReadFile(filepath.Join(root, "migrations", name+".down.sql"))
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(filepath.Join(root, "migrations", name+".up.sql"))
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// ResetAllSchemas drops and recreates every table for a clean test run.
// Tables referencing users must come down before users comes back up.
func ResetAllSchemas(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range []string{"000003_access_tokens", "000002_notes", "000001_users"} {
		root, err := ProjectRoot()
		if err != nil {
			return err
		}
		downSQL, err := os.ReadFile(filepath.Join(root, "migrations", name+".down.sql"))
		if err != nil {
			return fmt.Errorf("read down migration: %w", err)
		}
		if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
			return fmt.Errorf("apply down migration: %w", err)
		}
	}
	for _, name := range []string{"000001_users", "000002_notes", "000003_access_tokens"} {
		root, err := ProjectRoot()
		if err != nil {
			return err
		}
		upSQL, err := os.ReadFile(filepath.Join(root, "migrations", name+".up.sql"))
		if err != nil {
			return fmt.Errorf("read up migration: %w", err)
		}
		if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
			return fmt.Errorf("apply up migration: %w", err)
		}
	}
	return nil
}

// ResetNotesSchema drops and recreates the notes table for tests.
func ResetNotesSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_notes")
}

// ResetTokensSchema drops and recreates the access_tokens table for tests.
func ResetTokensSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000003_access_tokens")
}

// FlushRedis clears the test Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// SeedUser inserts a user and returns its id.
func SeedUser(ctx context.Context, pool *pgxpool.Pool, userName string, superuser bool) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO users (user_name, email, hashed_password, is_active, is_superuser, is_verified)
		VALUES ($1, $2, 'x', TRUE, $3, TRUE)
		RETURNING id`,
		userName, userName+"@example.com", superuser,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed user: %w", err)
	}
	return id, nil
}

// SeedNote inserts a note for the given owner and returns its id.
func SeedNote(ctx context.Context, pool *pgxpool.Pool, ownerID int64, title, content string, createdAt time.Time) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO notes (user_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id`,
		ownerID, title, content, createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed note: %w", err)
	}
	return id, nil
}

// NewTestNote creates a note with sensible defaults for unit tests.
func NewTestNote(t testing.TB, ownerID int64, title string) *model.Note {
	t.Helper()
	now := time.Now().UTC()
	return &model.Note{
		OwnerID:   ownerID,
		Title:     title,
		Content:   "content for " + title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UniqueName generates a unique name for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
