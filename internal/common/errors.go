package common

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("resource conflict")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrInternalServer     = errors.New("internal server error")
	ErrPaymentGateway     = errors.New("payment gateway error")
	ErrSecretUnconfigured = errors.New("payment verification secret not configured")
)

// ErrEmailTaken is returned by signup for both the pre-check and the unique index.
var ErrEmailTaken = NewError(ErrValidation, "Email already registered")

// AppError carries a message that is safe to show to clients.
// It unwraps to its Kind so errors.Is keeps working against the sentinels.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Kind }

func NewError(kind error, message string) error {
	return &AppError{Kind: kind, Message: message}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	}
	// ErrPaymentGateway, ErrSecretUnconfigured and anything unknown.
	return http.StatusInternalServerError
}

// PublicMessage returns the text a client may see for err.
// Server side failures never leak their cause.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && HTTPStatusFromError(appErr.Kind) < http.StatusInternalServerError {
		return appErr.Message
	}
	switch {
	case errors.Is(err, ErrSecretUnconfigured):
		return ErrSecretUnconfigured.Error()
	case errors.Is(err, ErrPaymentGateway):
		return "Payment order creation failed"
	}
	status := HTTPStatusFromError(err)
	if status >= http.StatusInternalServerError {
		return ErrInternalServer.Error()
	}
	return http.StatusText(status)
}
