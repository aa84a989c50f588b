package main

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// applyCORSHandler applies a permissive CORS policy to the router, fit for a
// client served from an arbitrary origin during development.
func applyCORSHandler(h http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Content-Type", "Authorization",
		}),
		handlers.AllowCredentials(),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS", "DELETE", "PUT"}),
		handlers.AllowedOrigins([]string{"*"}),
	)(h)
}
