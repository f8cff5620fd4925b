package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS restricts browser access to the dispatch API to the configured
// origins. Provider webhooks are server-to-server and never preflight,
// so the surface only needs GET and POST.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler
}
