package http

import (
	"fmt"
	"net/http"
)

// AppError is an error that maps onto an application status code and can be
// serialized into a response body.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// WithParams attaches the given params map to the error.
func (e *AppError) WithParams(params map[string]interface{}) *AppError {
	e.Params = params
	return e
}

// WithParam attaches a single param to the error.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = map[string]interface{}{}
	}
	e.Params[key] = value
	return e
}

// WithError records the underlying cause.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func NotFoundError(field string) *AppError {
	err := NewAppError(http.StatusNotFound, "not_found", "resource not found")
	err.Field = field
	return err
}

func BadRequestError(field string) *AppError {
	err := NewAppError(http.StatusBadRequest, "bad_request", "invalid request")
	err.Field = field
	return err
}

func InternalError(field string) *AppError {
	err := NewAppError(http.StatusInternalServerError, "internal_error", "internal error")
	err.Field = field
	return err
}
