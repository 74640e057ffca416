package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tinyurl/internal/shortener"
)

// ErrorBody is the body of every failed response: {"error": "..."}.
type ErrorBody struct {
	status  int
	Message string `doc:"What went wrong" json:"error"`
}

// NewError creates an error response with the given status.
func NewError(status int, msg string) *ErrorBody {
	return &ErrorBody{status: status, Message: msg}
}

func (e *ErrorBody) Error() string {
	return e.Message
}

func (e *ErrorBody) GetStatus() int {
	return e.status
}

// UseErrorBody makes huma render its own errors (request validation, 404 from
// the router, rate limiting) with ErrorBody.
func UseErrorBody() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		details := make([]string, 0, len(errs))

		for _, err := range errs {
			if err != nil {
				details = append(details, err.Error())
			}
		}

		if len(details) > 0 {
			msg += ": " + strings.Join(details, "; ")
		}

		return NewError(status, msg)
	}
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch shortener.KindOf(err) {
	case "":
		return http.StatusOK
	case shortener.KindValidation:
		return http.StatusBadRequest
	case shortener.KindCodeTaken, shortener.KindGenerationExhausted:
		return http.StatusConflict
	case shortener.KindNotFound:
		return http.StatusNotFound
	case shortener.KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// validationMessage returns the caller-facing message of a validation error.
func validationMessage(err error) string {
	var e *shortener.Error
	if errors.As(err, &e) {
		return e.Message
	}

	return err.Error()
}
