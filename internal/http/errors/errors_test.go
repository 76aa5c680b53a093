package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/waggle/internal/auth"
	"github.com/dropDatabas3/waggle/internal/cache"
	"github.com/dropDatabas3/waggle/internal/domain/repository"
	"github.com/dropDatabas3/waggle/internal/jwt"
	"github.com/dropDatabas3/waggle/internal/project"
	"github.com/dropDatabas3/waggle/internal/reference"
	"github.com/dropDatabas3/waggle/internal/social"
	"github.com/dropDatabas3/waggle/internal/user"
)

func TestFromDomain(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"access", user.ErrInvalidAccessToken, 401, "INVALID_ACCESS_TOKEN"},
		{"refresh wraps codec", fmt.Errorf("%w: %w", auth.ErrInvalidRefreshToken, jwt.ErrInvalidToken), 401, "INVALID_REFRESH_TOKEN"},
		{"temporary", auth.ErrInvalidTemporaryToken, 401, "INVALID_TEMPORARY_TOKEN"},
		{"bare codec", jwt.ErrInvalidToken, 401, "INVALID_TOKEN"},
		{"no refresh", auth.ErrRefreshTokenNotFound, 400, "REFRESH_TOKEN_NOT_FOUND"},
		{"provider", fmt.Errorf("%w: facebook", social.ErrUnsupportedProvider), 400, "UNSUPPORTED_PROVIDER"},
		{"store", fmt.Errorf("%w: dial tcp", cache.ErrUnavailable), 503, "SESSION_STORE_UNAVAILABLE"},
		{"project missing", project.ErrNotFound, 404, "NOT_FOUND"},
		{"reference missing", reference.ErrNotFound, 404, "NOT_FOUND"},
		{"not applied", project.ErrNotApplied, 404, "NOT_FOUND"},
		{"repo missing", repository.ErrNotFound, 404, "NOT_FOUND"},
		{"conflict", repository.ErrConflict, 409, "CONFLICT"},
		{"already applied", project.ErrAlreadyApplied, 409, "ALREADY_APPLIED"},
		{"forbidden", project.ErrForbidden, 403, "FORBIDDEN"},
		{"profile", user.ErrInvalidProfile, 400, "INVALID_PROFILE"},
		{"kind", reference.ErrUnknownKind, 400, "UNKNOWN_REFERENCE_KIND"},
		{"payload", social.ErrPayloadMalformed, 502, "PROVIDER_FAILURE"},
		{"other", stderrors.New("boom"), 500, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromDomain(tc.err)
			require.Equal(t, tc.status, got.HTTPStatus)
			require.Equal(t, tc.code, got.Code)
			require.ErrorIs(t, got, tc.err)
		})
	}
}

func TestFromDomain_KeepsAppErrorAndBaseUntouched(t *testing.T) {
	custom := ErrBadRequest.WithDetail("state required")
	require.Same(t, custom, FromDomain(fmt.Errorf("wrapped: %w", custom)))
	require.Empty(t, ErrBadRequest.Detail)
	require.Nil(t, FromDomain(nil))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrInvalidState.WithDetail("replayed").WithCause(stderrors.New("secret cause")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INVALID_STATE", body["code"])
	require.Equal(t, "replayed", body["detail"])
	require.NotContains(t, rec.Body.String(), "secret cause")
}
