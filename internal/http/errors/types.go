// Package errors define el error de transporte (AppError) y el mapeo de los
// errores de dominio a status HTTP.
package errors

import (
	"fmt"
	"net/http"
)

// AppError es la forma estándar de un error hacia el cliente.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa, sólo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New crea un nuevo AppError
func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// WithDetail devuelve una COPIA con detail, las variables base no se mutan.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// ---------------------------------------------------------------------------------
// 400
// ---------------------------------------------------------------------------------

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request is malformed or missing parameters.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "The request body is not valid JSON.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidParameter = &AppError{
		Code:       "INVALID_PARAMETER",
		Message:    "A path or query parameter is invalid.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrUnsupportedProvider = &AppError{
		Code:       "UNSUPPORTED_PROVIDER",
		Message:    "The login provider is not supported.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrRefreshTokenNotFound = &AppError{
		Code:       "REFRESH_TOKEN_NOT_FOUND",
		Message:    "No refresh token was presented.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidState = &AppError{
		Code:       "INVALID_STATE",
		Message:    "The OAuth2 state is missing, expired or already used.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidProfile = &AppError{
		Code:       "INVALID_PROFILE",
		Message:    "The profile contains invalid values.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrUnknownReferenceKind = &AppError{
		Code:       "UNKNOWN_REFERENCE_KIND",
		Message:    "The reference kind does not exist.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidProject = &AppError{
		Code:       "INVALID_PROJECT",
		Message:    "The project data is invalid.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrSelfApply = &AppError{
		Code:       "SELF_APPLY",
		Message:    "The owner cannot apply to their own project.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "The request body exceeds the maximum size.",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
)

// ---------------------------------------------------------------------------------
// 401 / 403
// ---------------------------------------------------------------------------------

var (
	ErrInvalidAccessToken = &AppError{
		Code:       "INVALID_ACCESS_TOKEN",
		Message:    "The access token is missing or invalid.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidRefreshToken = &AppError{
		Code:       "INVALID_REFRESH_TOKEN",
		Message:    "The refresh token is invalid or no longer active.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidTemporaryToken = &AppError{
		Code:       "INVALID_TEMPORARY_TOKEN",
		Message:    "The temporary token is invalid or already used.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidToken = &AppError{
		Code:       "INVALID_TOKEN",
		Message:    "The token is invalid.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "You are not allowed to do this.",
		HTTPStatus: http.StatusForbidden,
	}
)

// ---------------------------------------------------------------------------------
// 404 / 405 / 409 / 429
// ---------------------------------------------------------------------------------

var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "The requested resource was not found.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method not allowed for this resource.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrConflict = &AppError{
		Code:       "CONFLICT",
		Message:    "The resource already exists.",
		HTTPStatus: http.StatusConflict,
	}

	ErrAlreadyApplied = &AppError{
		Code:       "ALREADY_APPLIED",
		Message:    "You already applied to this project.",
		HTTPStatus: http.StatusConflict,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests. Try again later.",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// ---------------------------------------------------------------------------------
// 5xx
// ---------------------------------------------------------------------------------

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "An internal error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrProviderFailure = &AppError{
		Code:       "PROVIDER_FAILURE",
		Message:    "The login provider returned an unusable response.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrSessionStoreUnavailable = &AppError{
		Code:       "SESSION_STORE_UNAVAILABLE",
		Message:    "The session store is temporarily unavailable.",
		HTTPStatus: http.StatusServiceUnavailable,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "The service is temporarily unavailable.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)
