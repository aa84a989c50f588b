package generation

import (
	"net/http"

	"github.com/go-ozzo/ozzo-validation"

	"instaai/pkg/auth"
	"instaai/pkg/dbtime"
	"instaai/pkg/images"
	JSON "instaai/pkg/json-utilities"
	"instaai/pkg/metrics"
	"instaai/pkg/rest"
	"instaai/pkg/users"
)

type GenerateImageData struct {
	Prompt      string
	Description string
}

func (data GenerateImageData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Prompt, validation.Required, validation.Length(1, 1000)),
		validation.Field(&data.Description, validation.Length(0, 500)),
	)
}

func RegisterHandlers(engine rest.Engine, client *Client, ar images.ImageRepository, ur users.UserRepository, m *metrics.Metrics) {
	engine.Post("/generated-images", generateImage(client, ar, m), auth.Auth(ur))
}

// generateImage handles the POST "/generated-images" route: the prompt crosses
// the network, while the produced data URI lands in local storage as a regular
// image owned by the authenticated user.
func generateImage(client *Client, ar images.ImageRepository, m *metrics.Metrics) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[GenerateImageData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		dataURI, err := client.Generate(request.Context(), data.Prompt)
		if err != nil {
			JSON.BadGateway(writer, err)
			return
		}

		image, err := ar.AddImage(dataURI, auth.GetUsername(request), data.Description, dbtime.Now())
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		m.ImagesGenerated.Inc()
		JSON.Created(writer, image)
	}
}
