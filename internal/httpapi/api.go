// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/observability"
	"github.com/inkpost/inkpost/internal/post"
)

// Accounts registers, authenticates and resets accounts. auth.Directory implements it.
type Accounts interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.Account, error)
	Authenticate(ctx context.Context, email, password string) (*auth.Session, error)
	BeginReset(ctx context.Context, email string) error
	CompleteReset(ctx context.Context, req auth.CompleteResetRequest) error
}

// Sessions resolves the Authorization header. auth.SessionAuthenticator implements it.
type Sessions interface {
	Authenticate(rawHeader string) (auth.Identity, error)
}

// Posts manages posts. post.Service implements it.
type Posts interface {
	Create(ctx context.Context, caller auth.Identity, in post.Input) (*post.Post, error)
	List(ctx context.Context) ([]*post.Post, error)
	Get(ctx context.Context, rawID string) (*post.Post, error)
	Update(ctx context.Context, caller auth.Identity, rawID string, in post.Input) (*post.Post, error)
	Delete(ctx context.Context, caller auth.Identity, rawID string) error
}

// Deps are the collaborators of the API. Logger and Metrics are optional.
type Deps struct {
	Accounts Accounts
	Sessions Sessions
	Posts    Posts
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// API serves the HTTP routes.
type API struct {
	accounts Accounts
	sessions Sessions
	posts    Posts
	logger   *slog.Logger
	metrics  *observability.Metrics
	handler  http.Handler
}

// New creates an API and builds its route table.
func New(deps Deps) (*API, error) {
	if deps.Accounts == nil {
		return nil, oops.Code("HTTP_INVALID_CONFIG").Errorf("accounts service is required")
	}
	if deps.Sessions == nil {
		return nil, oops.Code("HTTP_INVALID_CONFIG").Errorf("session authenticator is required")
	}
	if deps.Posts == nil {
		return nil, oops.Code("HTTP_INVALID_CONFIG").Errorf("posts service is required")
	}

	a := &API{
		accounts: deps.Accounts,
		sessions: deps.Sessions,
		posts:    deps.Posts,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	a.handler = withRequestID(a.routes())
	return a, nil
}

// ServeHTTP implements http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *API) routes() *http.ServeMux {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, instrument(pattern, a.logger, a.metrics, h))
	}

	handle("POST /user-register", http.HandlerFunc(a.handleRegister))
	handle("POST /user-login", http.HandlerFunc(a.handleLogin))
	handle("POST /verify-email", http.HandlerFunc(a.handleBeginReset))
	handle("POST /varify-email", http.HandlerFunc(a.handleBeginReset))
	handle("POST /reset-password", http.HandlerFunc(a.handleCompleteReset))
	handle("GET /verify-token", a.authenticated(a.handleVerifyToken))

	handle("POST /create-blog", a.authenticated(a.handleCreatePost))
	handle("GET /get-allBlogs", http.HandlerFunc(a.handleListPosts))
	handle("GET /blog/{id}", http.HandlerFunc(a.handleGetPost))
	handle("PUT /update-blog/{id}", a.authenticated(a.handleUpdatePost))
	handle("DELETE /delete-blog/{id}", a.authenticated(a.handleDeletePost))

	return mux
}
