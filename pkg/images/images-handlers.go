package images

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"instaai/pkg/auth"
	"instaai/pkg/dbtime"
	JSON "instaai/pkg/json-utilities"
	"instaai/pkg/metrics"
	"instaai/pkg/rest"
	"instaai/pkg/users"
)

func RegisterHandlers(engine rest.Engine, ar ImageRepository, ur users.UserRepository, m *metrics.Metrics) {
	engine.Get("/feed", getFeed(ar), auth.Auth(ur))
	engine.Post("/images", addImage(ar, m), auth.Auth(ur))
	engine.Get("/users/:username/images", getUserImages(ar, ur), auth.Auth(ur))
	engine.Get("/users/:username/stats", getUserStats(ar, ur), auth.Auth(ur))

	engine.Post("/images/:id/likes", addLike(ar, m), auth.Auth(ur))
	engine.Delete("/images/:id/likes", removeLike(ar), auth.Auth(ur))
	engine.Get("/images/:id/likes", getLikes(ar), auth.Auth(ur))
}

// getFeed handles the GET "/feed" route, the session user's home timeline.
func getFeed(ar ImageRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if feed, err := ar.GetFeed(auth.GetUsername(request)); err == nil {
			JSON.Ok(writer, feed)
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// addImage handles the POST "/images" route; the owner is always the
// authenticated user and the creation date is assigned here, zero padded so
// later feeds sort correctly.
func addImage(ar ImageRepository, m *metrics.Metrics) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddImageData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		image, err := ar.AddImage(data.Url, auth.GetUsername(request), data.Description, dbtime.Now())
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		m.ImagesPosted.Inc()
		JSON.Created(writer, image)
	}
}

// getUserImages handles the GET "/users/:username/images" profile grid route.
func getUserImages(ar ImageRepository, ur users.UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var username = rest.GetParam(request, "username")

		// check whether the user exists for gracious feedback
		if !ur.ExistsUsername(username) {
			JSON.NotFound(writer, fmt.Sprintf("User %s doesn't exist", username))
			return
		}

		if userImages, err := ar.GetUserImages(username); err == nil {
			JSON.Ok(writer, userImages)
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// getUserStats handles the GET "/users/:username/stats" route, assembling the
// profile counters from independent COUNT queries.
func getUserStats(ar ImageRepository, ur users.UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var username = rest.GetParam(request, "username")
		if !ur.ExistsUsername(username) {
			JSON.NotFound(writer, fmt.Sprintf("User %s doesn't exist", username))
			return
		}

		// three independent counts; no atomic unit spans them, recomputation
		// keeps them from drifting
		posts, err := ar.CountPosts(username)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		followers, err := ur.CountFollowers(username)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		followed, err := ur.CountFollowed(username)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Ok(writer, UserStats{username, posts, followers, followed})
	}
}

// addLike handles the POST "/images/:id/likes" route.
func addLike(ar ImageRepository, m *metrics.Metrics) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		imageId, err := parseImageId(request)
		if err != nil {
			JSON.BadRequest(writer)
			return
		}

		if err = ar.AddLike(auth.GetUsername(request), imageId); err == nil {
			m.LikesGiven.Inc()
			JSON.Created(writer, struct{ ImageId int64 }{imageId})
		} else if errors.Is(err, ErrDupLike) {
			JSON.BadRequestWithMessage(writer, "You already liked this image")
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// removeLike handles the DELETE "/images/:id/likes" route; removing an absent
// like is a deliberate no-op.
func removeLike(ar ImageRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		imageId, err := parseImageId(request)
		if err != nil {
			JSON.BadRequest(writer)
			return
		}

		if err = ar.RemoveLike(auth.GetUsername(request), imageId); err == nil {
			JSON.NoContent(writer)
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// getLikes handles the GET "/images/:id/likes" route, reporting the count and
// whether the session user liked the image.
func getLikes(ar ImageRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		imageId, err := parseImageId(request)
		if err != nil {
			JSON.BadRequest(writer)
			return
		}

		count, err := ar.CountLikes(imageId)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Ok(writer, struct {
			ImageId int64
			Likes   int
			Liked   bool
		}{imageId, count, ar.HasLiked(auth.GetUsername(request), imageId)})
	}
}

func parseImageId(request *http.Request) (int64, error) {
	return strconv.ParseInt(rest.GetParam(request, "id"), 10, 64)
}
