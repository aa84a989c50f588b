package users

import (
	"errors"
	"fmt"
	"net/http"

	"instaai/pkg/auth"
	JSON "instaai/pkg/json-utilities"
	"instaai/pkg/metrics"
	"instaai/pkg/rest"
)

// followUser handles the POST "/users/:username/followed" route.
func followUser(ur UserRepository, m *metrics.Metrics) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		// ensure that the follower matches the authenticated user
		var follower = auth.GetUsername(request)
		if follower != rest.GetParam(request, "username") {
			JSON.Forbidden(writer)
			return
		}

		// validate the target's username
		data, err := JSON.DecodeValidate[FollowUserData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		// short circuit the handler when the target and the source match
		if follower == data.Target {
			JSON.BadRequestWithMessage(writer, "Narcissistic request: can't follow oneself")
			return
		}

		if !ur.ExistsUsername(data.Target) {
			JSON.NotFound(writer, fmt.Sprintf("User %s not found", data.Target))
			return
		}

		if err = ur.Follow(follower, data.Target); err == nil {
			m.FollowRequests.Inc()
			JSON.Created(writer, struct{ Followed string }{data.Target})
		} else if errors.Is(err, ErrDupFollow) {
			JSON.BadRequestWithMessage(writer, fmt.Sprintf("You are already following user %s", data.Target))
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// unfollowUser handles the DELETE "/users/:username/followed/:target" route.
func unfollowUser(ur UserRepository, m *metrics.Metrics) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		// ensure that the follower matches the authenticated user
		var follower = auth.GetUsername(request)
		if follower != rest.GetParam(request, "username") {
			JSON.Forbidden(writer)
			return
		}

		// attempt to sanitise the target username before queries
		var target = rest.GetParam(request, "target")
		if err := ValidateUsername(target); err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		// unfollowing an unfollowed user remains a deliberate no-op
		if err := ur.Unfollow(follower, target); err == nil {
			m.UnfollowRequests.Inc()
			JSON.NoContent(writer)
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}
