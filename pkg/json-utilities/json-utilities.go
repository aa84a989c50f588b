package json_utilities

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

var errEncoding = errors.New("error while encoding response")

type httpError struct {
	Error     string
	Timestamp time.Time
}

func newHttpError(err error) *httpError {
	return &httpError{err.Error(), time.Now()}
}

type httpMessage struct {
	Message   string
	Timestamp time.Time
}

func newHttpMessage(message string) *httpMessage {
	return &httpMessage{message, time.Now()}
}

func Created(writer http.ResponseWriter, payload interface{}) {
	encodeJSON(writer, http.StatusCreated, payload)
}

func Ok(writer http.ResponseWriter, payload interface{}) {
	encodeJSON(writer, http.StatusOK, payload)
}

func NoContent(writer http.ResponseWriter) {
	// no content type header needed
	writer.WriteHeader(http.StatusNoContent)
}

func NotFound(writer http.ResponseWriter, message string) {
	encodeJSON(writer, http.StatusNotFound, newHttpMessage(message))
}

func BadRequest(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusBadRequest)
}

func BadRequestWithMessage(writer http.ResponseWriter, message string) {
	encodeJSON(writer, http.StatusBadRequest, newHttpMessage(message))
}

func Unauthorised(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusUnauthorized)
}

func Forbidden(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusForbidden)
}

func InternalServerError(writer http.ResponseWriter, err error) {
	encodeJSON(writer, http.StatusInternalServerError, newHttpError(err))
}

func BadGateway(writer http.ResponseWriter, err error) {
	encodeJSON(writer, http.StatusBadGateway, newHttpError(err))
}

func ValidationError(writer http.ResponseWriter, err error) {
	encodeJSON(writer, http.StatusBadRequest, newHttpError(err))
}

func encodeJSON(writer http.ResponseWriter, status int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		_ = json.NewEncoder(writer).Encode(newHttpError(errEncoding))
	}
}

type Validator interface {
	Validate() error
}

// DecodeValidate parses a request's JSON body into the given type and runs its
// validation rules before handing it back.
func DecodeValidate[T Validator](request *http.Request) (data T, err error) {
	if err = json.NewDecoder(request.Body).Decode(&data); err != nil {
		return data, err
	}
	return data, data.Validate()
}
