package users

import (
	"github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var usernameRules = []validation.Rule{validation.Required, validation.Length(3, 20), is.UTFLetterNumeric}
var passwordRules = []validation.Rule{validation.Required, validation.Length(8, 50)}

// User mirrors a row of the users table; the password hash never leaves the
// repository.
type User struct {
	Username    string
	Name        string
	Surname     string
	Email       string
	DateOfBirth string
}

type AddUserData struct {
	Username    string
	Password    string
	Name        string
	Surname     string
	Email       string
	DateOfBirth string
}

func (data AddUserData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Username, usernameRules...),
		validation.Field(&data.Password, passwordRules...),
		validation.Field(&data.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&data.Surname, validation.Length(0, 50)),
		validation.Field(&data.Email, validation.Required, is.Email),
		validation.Field(&data.DateOfBirth, validation.Date("2006-01-02")),
	)
}

type CredentialsData struct {
	Username string
	Password string
}

func (data CredentialsData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Username, usernameRules...),
		validation.Field(&data.Password, passwordRules...),
	)
}

func ValidateUsername(username string) error {
	return validation.Validate(username, usernameRules...)
}

// Follows

type FollowUserData struct {
	Target string
}

func (data FollowUserData) Validate() error {
	return validation.ValidateStruct(&data, validation.Field(&data.Target, usernameRules...))
}
