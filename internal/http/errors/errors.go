package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/waggle/internal/auth"
	"github.com/dropDatabas3/waggle/internal/cache"
	"github.com/dropDatabas3/waggle/internal/domain/repository"
	"github.com/dropDatabas3/waggle/internal/jwt"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
	"github.com/dropDatabas3/waggle/internal/project"
	"github.com/dropDatabas3/waggle/internal/reference"
	"github.com/dropDatabas3/waggle/internal/social"
	"github.com/dropDatabas3/waggle/internal/social/oauth"
	"github.com/dropDatabas3/waggle/internal/user"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// mapping se recorre en orden: los sentinels específicos antes que los
// genéricos (ErrInvalidRefreshToken envuelve jwt.ErrInvalidToken, etc).
var mapping = []struct {
	target error
	app    *AppError
}{
	{auth.ErrSessionStoreUnavailable, ErrSessionStoreUnavailable},
	{auth.ErrInvalidRefreshToken, ErrInvalidRefreshToken},
	{auth.ErrInvalidTemporaryToken, ErrInvalidTemporaryToken},
	{auth.ErrRefreshTokenNotFound, ErrRefreshTokenNotFound},
	{user.ErrInvalidAccessToken, ErrInvalidAccessToken},
	{jwt.ErrInvalidToken, ErrInvalidToken},
	{social.ErrUnsupportedProvider, ErrUnsupportedProvider},
	{social.ErrPayloadMalformed, ErrProviderFailure},
	{social.ErrIdentityIncomplete, ErrProviderFailure},
	{oauth.ErrCodeExchange, ErrProviderFailure},
	{oauth.ErrUserInfo, ErrProviderFailure},
	{user.ErrInvalidProfile, ErrInvalidProfile},
	{reference.ErrUnknownKind, ErrUnknownReferenceKind},
	{reference.ErrNotFound, ErrNotFound},
	{project.ErrInvalidInput, ErrInvalidProject},
	{project.ErrSelfApply, ErrSelfApply},
	{project.ErrAlreadyApplied, ErrAlreadyApplied},
	{project.ErrForbidden, ErrForbidden},
	{project.ErrNotApplied, ErrNotFound},
	{project.ErrNotFound, ErrNotFound},
	{repository.ErrNotFound, ErrNotFound},
	{repository.ErrConflict, ErrConflict},
	{cache.ErrUnavailable, ErrSessionStoreUnavailable},
}

// FromDomain traduce un error de cualquier capa a AppError. Un *AppError
// pasa tal cual; lo desconocido es 500 conservando la causa.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	for _, m := range mapping {
		if stderrors.Is(err, m.target) {
			return m.app.WithCause(err)
		}
	}
	return ErrInternalServerError.WithCause(err)
}

// WriteError escribe err como JSON {code, message, detail}. Los 5xx se loguean
// con la causa; al cliente nunca le llega.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromDomain(err)
	if appErr == nil {
		appErr = ErrInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

// Write es WriteError con log en el logger del request.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromDomain(err)
	if appErr != nil && appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed",
			logger.Layer("transport"),
			logger.String("code", appErr.Code),
			logger.Err(appErr.Err),
		)
	}
	WriteError(w, appErr)
}
