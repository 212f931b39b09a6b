// internal/apierr/apierr.go
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeValidation         = "validation_error"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodePredictionFailed   = "prediction_failed"
	CodeInternal           = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
	// Fields carries per-field validation messages, keyed by input field name.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(fields map[string]string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   CodeValidation,
		Err:    errors.New("invalid input"),
		Fields: fields,
	}
}

type apiError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

// Respond writes err as a JSON error envelope. Non-*Error values are
// reported as a generic 500 so internal detail stays server-side.
func Respond(c *gin.Context, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, errorEnvelope{Error: apiError{
			Message: apiErr.Error(),
			Code:    apiErr.Code,
			Fields:  apiErr.Fields,
		}})
		return
	}
	c.JSON(http.StatusInternalServerError, errorEnvelope{Error: apiError{
		Message: "something went wrong",
		Code:    CodeInternal,
	}})
}
