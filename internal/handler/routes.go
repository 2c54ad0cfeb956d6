package handler

import (
	"net/http"

	"github.com/forgo/roster/internal/middleware"
)

// Routes groups the handlers and the per-route auth middleware
type Routes struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Accounts  *AccountHandler
	Contracts *ContractHandler
	Players   *PlayerHandler
	Teams     *TeamHandler
	Dashboard *DashboardHandler

	RequireAuth  middleware.Middleware
	OptionalAuth middleware.Middleware
	// Optional, applied after authentication
	RateLimit   middleware.Middleware
	Idempotency middleware.Middleware
}

func passthrough(next http.Handler) http.Handler { return next }

func orPassthrough(m middleware.Middleware) middleware.Middleware {
	if m == nil {
		return passthrough
	}
	return m
}

// Register mounts every endpoint on mux. Reads are public with optional
// auth; writes need staff or admin; deletes, account administration and
// the dashboard need admin.
func (rt Routes) Register(mux *http.ServeMux) {
	limit := orPassthrough(rt.RateLimit)
	idempotent := orPassthrough(rt.Idempotency)

	open := func(h http.HandlerFunc) http.Handler {
		return limit(h)
	}
	public := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, rt.OptionalAuth, limit)
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, rt.RequireAuth, limit)
	}
	writer := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, rt.RequireAuth, limit, middleware.RequireWriter(), idempotent)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, rt.RequireAuth, limit, middleware.RequireAdmin(), idempotent)
	}

	// Health check endpoint
	mux.HandleFunc("GET /health", rt.Health.Health)

	// Auth endpoints
	mux.Handle("POST /v1/auth/login", open(rt.Auth.Login))
	mux.Handle("GET /v1/auth/me", authed(rt.Auth.Me))
	mux.Handle("PATCH /v1/auth/me", authed(rt.Auth.UpdateMe))

	// Account administration
	mux.Handle("GET /v1/accounts", admin(rt.Accounts.List))
	mux.Handle("GET /v1/accounts/{accountId}", admin(rt.Accounts.Get))
	mux.Handle("POST /v1/accounts", admin(rt.Accounts.Create))
	mux.Handle("PATCH /v1/accounts/{accountId}", admin(rt.Accounts.Update))
	mux.Handle("DELETE /v1/accounts/{accountId}", admin(rt.Accounts.Delete))

	// Contract endpoints
	mux.Handle("GET /v1/contracts", public(rt.Contracts.List))
	mux.Handle("GET /v1/contracts/{contractId}", public(rt.Contracts.Get))
	mux.Handle("POST /v1/contracts", writer(rt.Contracts.Create))
	mux.Handle("PATCH /v1/contracts/{contractId}", writer(rt.Contracts.Update))
	mux.Handle("DELETE /v1/contracts/{contractId}", admin(rt.Contracts.Delete))

	// Player endpoints
	mux.Handle("GET /v1/players", public(rt.Players.List))
	mux.Handle("GET /v1/players/{playerId}", public(rt.Players.Get))
	mux.Handle("POST /v1/players", writer(rt.Players.Create))
	mux.Handle("PATCH /v1/players/{playerId}", writer(rt.Players.Update))
	mux.Handle("DELETE /v1/players/{playerId}", admin(rt.Players.Delete))

	// Team endpoints
	mux.Handle("GET /v1/teams", public(rt.Teams.List))
	mux.Handle("GET /v1/teams/{teamId}", public(rt.Teams.Get))
	mux.Handle("POST /v1/teams", writer(rt.Teams.Create))
	mux.Handle("PATCH /v1/teams/{teamId}", writer(rt.Teams.Update))
	mux.Handle("DELETE /v1/teams/{teamId}", admin(rt.Teams.Delete))

	// Dashboard
	mux.Handle("GET /v1/dashboard", admin(rt.Dashboard.Stats))
}
