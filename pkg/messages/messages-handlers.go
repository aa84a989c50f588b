package messages

import (
	"fmt"
	"net/http"

	"instaai/pkg/auth"
	JSON "instaai/pkg/json-utilities"
	"instaai/pkg/metrics"
	"instaai/pkg/rest"
	"instaai/pkg/users"
)

func RegisterHandlers(engine rest.Engine, mr MessageRepository, ur users.UserRepository, m *metrics.Metrics) {
	engine.Post("/messages", addMessage(mr, ur, m), auth.Auth(ur))
	engine.Get("/conversations", getConversations(mr), auth.Auth(ur))
	engine.Get("/conversations/:username", getTranscript(mr, ur), auth.Auth(ur))
}

// addMessage handles the POST "/messages" route; the sender is always the
// authenticated user and the timestamp is assigned at insert time.
func addMessage(mr MessageRepository, ur users.UserRepository, m *metrics.Metrics) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddMessageData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		var sender = auth.GetUsername(request)
		if sender == data.Recipient {
			JSON.BadRequestWithMessage(writer, "Soliloquy detected: can't message oneself")
			return
		}

		if !ur.ExistsUsername(data.Recipient) {
			JSON.NotFound(writer, fmt.Sprintf("User %s doesn't exist", data.Recipient))
			return
		}

		// failures surface here without corrupting any optimistic client
		// state: the stored message, timestamp included, travels back whole
		message, err := mr.AddMessage(sender, data.Recipient, data.Text)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		m.MessagesSent.Inc()
		JSON.Created(writer, message)
	}
}

// getConversations handles the GET "/conversations" route: every thread of the
// session user, most recently active first.
func getConversations(mr MessageRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if conversations, err := mr.GetConversations(auth.GetUsername(request)); err == nil {
			JSON.Ok(writer, conversations)
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// getTranscript handles the GET "/conversations/:username" route, the
// chronological exchange with one other user.
func getTranscript(mr MessageRepository, ur users.UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var other = rest.GetParam(request, "username")
		if !ur.ExistsUsername(other) {
			JSON.NotFound(writer, fmt.Sprintf("User %s doesn't exist", other))
			return
		}

		if transcript, err := mr.GetMessagesBetween(auth.GetUsername(request), other); err == nil {
			JSON.Ok(writer, transcript)
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}
