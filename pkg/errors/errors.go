package errors

import (
	"fmt"
	"net/http"
)

// HttpError несёт HTTP-код, с которым ответит транспортный слой.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, nil, nil)
}

func NewForbiddenError(message string) *HttpError {
	return NewHttpError(http.StatusForbidden, message, nil, nil)
}

func NewNotFoundError(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message, nil, nil)
}

func NewConflictError(message string) *HttpError {
	return NewHttpError(http.StatusConflict, message, nil, nil)
}

var (
	// JWT
	ErrInvalidSigningMethod = NewHttpError(http.StatusUnauthorized, "invalid token signing method", nil, nil)
	ErrInvalidToken         = NewHttpError(http.StatusUnauthorized, "invalid token", nil, nil)
	ErrTokenExpired         = NewHttpError(http.StatusUnauthorized, "token expired", nil, nil)
	ErrTokenNotYetValid     = NewHttpError(http.StatusUnauthorized, "token is not valid yet", nil, nil)
	ErrTokenRevoked         = NewHttpError(http.StatusUnauthorized, "token has been revoked", nil, nil)
	ErrTokenIsNotRefresh    = NewHttpError(http.StatusUnauthorized, "refresh token required", nil, nil)
	ErrTokenIsNotAccess     = NewHttpError(http.StatusUnauthorized, "access token required", nil, nil)

	// Аутентификация
	ErrEmptyAuthHeader    = NewHttpError(http.StatusUnauthorized, "authorization header is missing", nil, nil)
	ErrInvalidAuthHeader  = NewHttpError(http.StatusUnauthorized, "invalid authorization header format", nil, nil)
	ErrInvalidCredentials = NewHttpError(http.StatusUnauthorized, "invalid username or password", nil, nil)
	ErrAccountLocked      = NewHttpError(http.StatusTooManyRequests, "account locked after too many failed attempts, try again later", nil, nil)
	ErrUnauthorized       = NewHttpError(http.StatusUnauthorized, "unauthorized", nil, nil)
	ErrForbidden          = NewHttpError(http.StatusForbidden, "access denied", nil, nil)

	// Контекст запроса
	ErrUserIDNotFoundInContext = NewHttpError(http.StatusUnauthorized, "user id not found in request context", nil, nil)
	ErrUserNotFound            = NewHttpError(http.StatusUnauthorized, "user not found", nil, nil)

	// Общие
	ErrNotFound       = NewHttpError(http.StatusNotFound, "record not found", nil, nil)
	ErrBadRequest     = NewHttpError(http.StatusBadRequest, "bad request", nil, nil)
	ErrConflict       = NewHttpError(http.StatusConflict, "record already exists", nil, nil)
	ErrInternalServer = NewHttpError(http.StatusInternalServerError, "internal server error", nil, nil)
)
