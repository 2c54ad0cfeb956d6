package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgo/roster/internal/model"
	"github.com/forgo/roster/pkg/jwt"
)

// AuthService defines the interface for token validation and requester
// resolution
type AuthService interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
	ResolveRequester(ctx context.Context, claims *jwt.Claims) (model.Requester, error)
}

// ClaimsKey is the context key for JWT claims
const ClaimsKey contextKey = "claims"

// RequesterKey is the context key for the resolved requester
const RequesterKey contextKey = "requester"

// Auth returns a middleware that requires a valid bearer token
func Auth(authService AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				if r.Header.Get("Authorization") == "" {
					model.NewUnauthorizedError("missing authorization header").WriteJSON(w)
				} else {
					model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				}
				return
			}

			claims, err := authService.ValidateAccessToken(token)
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					model.NewUnauthorizedError("token expired").WriteJSON(w)
				case errors.Is(err, jwt.ErrInvalidSignature):
					model.NewUnauthorizedError("invalid token signature").WriteJSON(w)
				default:
					model.NewUnauthorizedError("invalid token").WriteJSON(w)
				}
				return
			}

			ctx, err := withIdentity(r.Context(), authService, claims)
			if err != nil {
				slog.Error("resolve requester failed",
					slog.String("account_id", claims.AccountID),
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
				model.NewInternalError("").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth is like Auth but doesn't require authentication.
// Requests without a usable token proceed as anonymous.
func OptionalAuth(authService AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.ValidateAccessToken(token)
			if err != nil {
				// Invalid token, but optional so continue without auth
				next.ServeHTTP(w, r)
				return
			}

			ctx, err := withIdentity(r.Context(), authService, claims)
			if err != nil {
				slog.Error("resolve requester failed",
					slog.String("account_id", claims.AccountID),
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
				model.NewInternalError("").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func withIdentity(ctx context.Context, authService AuthService, claims *jwt.Claims) (context.Context, error) {
	requester, err := authService.ResolveRequester(ctx, claims)
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, AccountIDKey, claims.AccountID)
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	ctx = context.WithValue(ctx, RequesterKey, requester)
	noteRequester(ctx, claims.AccountID, requester)
	return ctx, nil
}

// GetAccountID extracts the account ID from context
func GetAccountID(ctx context.Context) string {
	if id, ok := ctx.Value(AccountIDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the JWT claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}

// GetRequester returns the resolved requester, anonymous when the request
// carried no valid token
func GetRequester(ctx context.Context) model.Requester {
	if r, ok := ctx.Value(RequesterKey).(model.Requester); ok {
		return r
	}
	return model.AnonymousRequester{}
}
