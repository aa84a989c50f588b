package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

/* Keeping an interface as a dependency, rather than importing the users
package outright, avoids a cyclic import between `auth` and `users`. */

type contextKey string

const usernameKey contextKey = "username"

type userChecker interface {
	ExistsUsername(username string) bool
}

// Auth ensures that requests carry a bearer token naming an existing user, as
// usernames act as the sole client credential once a session is established.
func Auth(ur userChecker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {

			var username, err = parseBearer(request)

			if err != nil {
				reportUnauthorised(w)
				return
			}

			// verify the user exists
			if ur.ExistsUsername(username) {
				// stem a new context from the original, adding the username for later reference
				next.ServeHTTP(w, request.WithContext(context.WithValue(request.Context(), usernameKey, username)))
			} else {
				reportUnauthorised(w)
			}
		})
	}
}

// parseBearer extracts the username from the authorization header.
func parseBearer(request *http.Request) (string, error) {
	var header = request.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		var username = header[7:]
		if len(username) >= 3 && len(username) <= 20 {
			return username, nil
		}
	}
	return "", errors.New("bad authorization header")
}

// GetUsername returns the authenticated username stored by the middleware; an
// empty string signals a route that skipped Auth by mistake.
func GetUsername(request *http.Request) string {
	if username, ok := request.Context().Value(usernameKey).(string); ok {
		return username
	}
	return ""
}

func reportUnauthorised(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
}
