package images

import (
	"github.com/go-ozzo/ozzo-validation"

	"instaai/pkg/dbtime"
)

// Image mirrors a row of the images table; URLs are opaque strings, whether
// remote locations or base64 data URIs, and undergo no format validation.
type Image struct {
	Id           int64
	Url          string
	Owner        string
	Description  string
	CreationDate dbtime.Time
}

type AddImageData struct {
	Url         string
	Description string
}

func (data AddImageData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Url, validation.Required),
		validation.Field(&data.Description, validation.Length(0, 500)),
	)
}

// UserStats aggregates the counters shown on a profile screen; the counts are
// recomputed on every request rather than maintained alongside the edges.
type UserStats struct {
	Username  string
	Posts     int
	Followers int
	Followed  int
}
