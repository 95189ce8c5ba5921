// Command bootstrap-token provisions a user and an access token.
// Account signup is handled by a separate identity service; this tool
// exists for local development and operator bootstrap.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/serkuksov/NotesAPI/internal/auth"
	"github.com/serkuksov/NotesAPI/internal/model"
	"github.com/serkuksov/NotesAPI/internal/repository"
)

type output struct {
	UserID      int64    `json:"user_id"`
	UserName    string   `json:"user_name"`
	Email       string   `json:"email"`
	TokenID     string   `json:"token_id"`
	Token       string   `json:"token"`
	TokenPrefix string   `json:"token_prefix"`
	Scopes      []string `json:"scopes"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		userName    = flag.String("user", "admin", "User name to own the token")
		email       = flag.String("email", "admin@notes.local", "User email")
		superuser   = flag.Bool("superuser", false, "Grant superuser rights to the user")
		env         = flag.String("env", auth.EnvLive, "Token environment: live or test")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := ensureUser(ctx, repo, *userName, *email, *superuser)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	generated, err := auth.GenerateToken(*env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate token:", err)
		os.Exit(1)
	}

	token := &model.AccessToken{
		ID:          ulid.Make().String(),
		UserID:      user.ID,
		TokenHash:   generated.Hash,
		TokenPrefix: generated.Prefix,
		Scopes:      []string{"notes"},
		CreatedAt:   time.Now().UTC(),
	}

	if err := repo.CreateAccessToken(ctx, token); err != nil {
		fmt.Fprintln(os.Stderr, "create access token:", err)
		os.Exit(1)
	}

	out := output{
		UserID:      user.ID,
		UserName:    user.UserName,
		Email:       user.Email,
		TokenID:     token.ID,
		Token:       generated.Plaintext,
		TokenPrefix: token.TokenPrefix,
		Scopes:      token.Scopes,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func ensureUser(ctx context.Context, repo *repository.Repository, userName, email string, superuser bool) (*model.User, error) {
	existing, err := repo.GetUserByName(ctx, userName)
	if err == nil {
		if existing.Email != email {
			return nil, fmt.Errorf("user %s exists with different email: %s", userName, existing.Email)
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user := &model.User{
		UserName:    userName,
		Email:       email,
		IsActive:    true,
		IsSuperuser: superuser,
		IsVerified:  true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
