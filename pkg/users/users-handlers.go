package users

import (
	"fmt"
	"net/http"

	"instaai/pkg/auth"
	JSON "instaai/pkg/json-utilities"
	"instaai/pkg/metrics"
	"instaai/pkg/rest"
	"instaai/pkg/sessions"
)

func RegisterHandlers(engine rest.Engine, ur UserRepository, store *sessions.Store, m *metrics.Metrics) {
	engine.Post("/users", addUser(ur, m))
	engine.Get("/users", getUsers(ur), auth.Auth(ur))
	engine.Get("/users/:username", getUser(ur), auth.Auth(ur))
	engine.Get("/users/:username/availability", getUsernameAvailability(ur))

	engine.Post("/sessions", login(ur, store, m))
	engine.Delete("/sessions", logout(store), auth.Auth(ur))

	engine.Post("/users/:username/followed", followUser(ur, m), auth.Auth(ur))
	engine.Delete("/users/:username/followed/:target", unfollowUser(ur, m), auth.Auth(ur))
}

// addUser handles the POST "/users" signup route.
func addUser(ur UserRepository, m *metrics.Metrics) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		// parse and validate the new user's data
		data, err := JSON.DecodeValidate[AddUserData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		// the insert itself rejects duplicate usernames, so no prior
		// availability check can race against a concurrent signup
		newUser, err := ur.AddUser(data)
		if err == nil {
			m.Signups.Inc()
			JSON.Created(writer, newUser)
		} else if err == ErrUsernameTaken {
			JSON.BadRequestWithMessage(writer, fmt.Sprintf("Username %s is already taken", data.Username))
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// getUsers fetches all existing users; acceptable at this scale, with no pagination.
func getUsers(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var users, err = ur.GetUsers()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.Ok(writer, users)
	}
}

// getUser handles the GET "/users/:username" route.
func getUser(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var username = rest.GetParam(request, "username")
		if err := ValidateUsername(username); err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if user, err := ur.GetUserInfo(username); err == nil {
			JSON.Ok(writer, user)
		} else if err == ErrNotFound {
			JSON.NotFound(writer, fmt.Sprintf("User %s doesn't exist", username))
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// getUsernameAvailability serves signup forms polling for free usernames.
func getUsernameAvailability(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var username = rest.GetParam(request, "username")
		if err := ValidateUsername(username); err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		JSON.Ok(writer, struct {
			Username  string
			Available bool
		}{username, ur.IsUsernameAvailable(username)})
	}
}

// login handles the POST "/sessions" route, persisting the session username on
// matching credentials.
func login(ur UserRepository, store *sessions.Store, m *metrics.Metrics) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[CredentialsData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if !ur.CheckCredentials(data.Username, data.Password) {
			JSON.Unauthorised(writer)
			return
		}

		if err = store.SetCurrentUsername(data.Username); err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		m.Logins.Inc()
		JSON.Created(writer, struct{ Username string }{data.Username})
	}
}

// logout handles the DELETE "/sessions" route; clearing an absent session is a no-op.
func logout(store *sessions.Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if err := store.Clear(); err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.NoContent(writer)
	}
}
