package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/serkuksov/NotesAPI/internal/auth"
	"github.com/serkuksov/NotesAPI/internal/cache"
	"github.com/serkuksov/NotesAPI/internal/model"
	"github.com/serkuksov/NotesAPI/internal/repository"
)

// minAuthDuration is the minimum time to spend on auth to prevent timing attacks.
const minAuthDuration = 200 * time.Millisecond

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Repository *repository.Repository
	Cache      *cache.Cache
}

// Auth returns a middleware that authenticates requests.
// It extracts the access token from the Authorization header, verifies it
// against the stored hash, and injects the resolved identity into the
// request context. All failures produce the same 401 response so callers
// cannot distinguish unknown tokens from revoked or malformed ones.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			// Ensure consistent timing regardless of outcome
			defer func() {
				elapsed := time.Since(startTime)
				if elapsed < minAuthDuration {
					time.Sleep(minAuthDuration - elapsed)
				}
			}()

			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeAuthError(w)
				return
			}

			parsed, err := auth.ParseToken(token)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "invalid_format")
				writeAuthError(w)
				return
			}

			// Check cache first
			cacheKey := auth.QuickHash(token)
			identity, _ := cfg.Cache.GetIdentity(r.Context(), cacheKey)

			if identity != nil {
				logAuthSuccess(cfg.Logger, r, identity, true)
				ctx := auth.ContextWithIdentity(r.Context(), identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Cache miss - lookup candidate tokens by prefix
			tokens, err := cfg.Repository.GetAccessTokensByPrefix(r.Context(), parsed.Prefix)
			if err != nil {
				cfg.Logger.Error("database error during auth",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Verify against each candidate (handles prefix collisions)
			var matched *model.AccessToken
			for _, t := range tokens {
				ok, err := auth.VerifyToken(token, t.TokenHash)
				if err != nil {
					continue
				}
				if ok {
					matched = t
					break
				}
			}

			if matched == nil {
				logAuthFailure(cfg.Logger, r, "invalid_token")
				writeAuthError(w)
				return
			}

			// Load the owning user; revoked and deactivated accounts
			// must not authenticate even with a valid token.
			user, err := cfg.Repository.GetUserByID(r.Context(), matched.UserID)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "unknown_user")
				writeAuthError(w)
				return
			}
			if !user.IsActive {
				logAuthFailure(cfg.Logger, r, "inactive_user")
				writeAuthError(w)
				return
			}

			identity = &model.Identity{
				UserID:      user.ID,
				UserName:    user.UserName,
				IsSuperuser: user.IsSuperuser,
				TokenID:     matched.ID,
			}

			// Cache the result
			_ = cfg.Cache.SetIdentity(r.Context(), cacheKey, identity)

			// Update last_used_at asynchronously; detach from the request
			// context so the write survives the response.
			tokenID := matched.ID
			go func() {
				_ = cfg.Repository.UpdateTokenLastUsed(context.WithoutCancel(r.Context()), tokenID)
			}()

			logAuthSuccess(cfg.Logger, r, identity, false)

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the access token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

func logAuthSuccess(logger *slog.Logger, r *http.Request, identity *model.Identity, cacheHit bool) {
	logger.Info("authentication successful",
		slog.Int64("user_id", identity.UserID),
		slog.String("token_id", identity.TokenID),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.Bool("cache_hit", cacheHit),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or missing access token","code":"UNAUTHORIZED"}`))
}
