package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ddipendrac/mystery-message/internal/config"
	"github.com/ddipendrac/mystery-message/internal/handlers"
	"github.com/ddipendrac/mystery-message/pkg/middleware"
	"github.com/ddipendrac/mystery-message/pkg/ratelimit"
)

// newRouter wires every API route with its middleware chain. A nil limiter
// disables rate limiting on the anonymous routes.
func newRouter(cfg *config.Config, userHandler *handlers.UserHandler, messageHandler *handlers.MessageHandler, suggestionHandler *handlers.SuggestionHandler, limiter *ratelimit.Limiter) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/sign-up", userHandler.SignUpHandler).Methods("POST")
	api.HandleFunc("/verify-code", userHandler.VerifyCodeHandler).Methods("POST")
	api.HandleFunc("/sign-in", userHandler.SignInHandler).Methods("POST")
	api.HandleFunc("/check-username-unique", userHandler.CheckUsernameHandler).Methods("GET")

	// Anonymous routes, rate limited per client IP
	sendRoutes := api.PathPrefix("/send-message").Subrouter()
	sendRoutes.Use(middleware.RateLimitMiddleware(sendCheck(limiter)))
	sendRoutes.HandleFunc("", messageHandler.SendMessageHandler).Methods("POST")

	suggestRoutes := api.PathPrefix("/suggest-message").Subrouter()
	suggestRoutes.Use(middleware.RateLimitMiddleware(suggestCheck(limiter)))
	suggestRoutes.HandleFunc("", suggestionHandler.SuggestMessagesHandler).Methods("POST")

	// Authenticated routes
	acceptRoutes := api.PathPrefix("/accept-messages").Subrouter()
	acceptRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	acceptRoutes.HandleFunc("", messageHandler.GetAcceptMessagesHandler).Methods("GET")
	acceptRoutes.HandleFunc("", messageHandler.PostAcceptMessagesHandler).Methods("POST")

	inboxRoutes := api.PathPrefix("/get-messages").Subrouter()
	inboxRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	inboxRoutes.HandleFunc("", messageHandler.GetMessagesHandler).Methods("POST")

	// Apply middleware for request ids and logging
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware)

	return router
}

func sendCheck(limiter *ratelimit.Limiter) func(r *http.Request, ip string) (*ratelimit.Result, error) {
	if limiter == nil {
		return nil
	}
	return func(r *http.Request, ip string) (*ratelimit.Result, error) {
		return limiter.AllowSend(r.Context(), ip)
	}
}

func suggestCheck(limiter *ratelimit.Limiter) func(r *http.Request, ip string) (*ratelimit.Result, error) {
	if limiter == nil {
		return nil
	}
	return func(r *http.Request, ip string) (*ratelimit.Result, error) {
		return limiter.AllowSuggest(r.Context(), ip)
	}
}
