// Package http provides HTTP routing and middleware configuration for the
// cardlink service.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"cardlink/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// cardlink API. It applies JSON content-type enforcement, request logging
// and bearer-token authentication, and mounts the account, card, saved-
// reference and marketplace endpoints under /api.
//
// Public (no token): POST /api/register, POST /api/login, and the
// share-link resolve surface GET /api/users/{userID}/cards/{index}.
func NewRouter(
	authHandler *AuthHandler,
	cardsHandler *CardsHandler,
	marketHandler *MarketHandler,
	resolver middleware.TokenResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Enforce bearer-token authentication
	r.Use(middleware.BearerAuth(resolver))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/users/{userID}/cards/{index}", cardsHandler.Resolve)

		// Protected endpoints: require a valid bearer token
		r.Group(func(r chi.Router) {
			r.Post("/logout", authHandler.Logout)
			r.Get("/account", authHandler.Me)

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", cardsHandler.List)
				r.Post("/", cardsHandler.Save)
				r.Delete("/{index}", cardsHandler.Remove)
			})

			r.Route("/saved", func(r chi.Router) {
				r.Get("/", cardsHandler.ListSaved)
				r.Post("/", cardsHandler.AddSaved)
				r.Delete("/{index}", cardsHandler.RemoveSaved)
			})

			r.Get("/templates", marketHandler.Templates)
			r.Post("/templates/{id}/purchase", marketHandler.Purchase)
			r.Post("/plan", marketHandler.ChangePlan)
		})
	})

	return r
}
