package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS creates CORS middleware for the given allowed origins
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler
}

// CORSFromEnv creates CORS middleware from environment variable
// Parses FRONTEND_URL (comma-separated origins) and defaults to http://localhost:3000
func CORSFromEnv(frontendURL string) func(http.Handler) http.Handler {
	origins := []string{"http://localhost:3000"}
	if frontendURL != "" {
		for _, origin := range strings.Split(frontendURL, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed == "" {
				continue
			}
			exists := false
			for _, existing := range origins {
				if existing == trimmed {
					exists = true
					break
				}
			}
			if !exists {
				origins = append(origins, trimmed)
			}
		}
	}
	return CORS(origins)
}
