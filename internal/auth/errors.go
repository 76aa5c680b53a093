package auth

import (
	"errors"
	"fmt"

	"github.com/dropDatabas3/waggle/internal/cache"
)

var (
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
	ErrInvalidTemporaryToken = errors.New("invalid temporary token")
	ErrRefreshTokenNotFound  = errors.New("refresh token not found")

	// ErrSessionStoreUnavailable es el mismo sentinel que devuelve el session store.
	ErrSessionStoreUnavailable = cache.ErrUnavailable
)

// storeErr garantiza que una falla del session store se clasifique como
// ErrSessionStoreUnavailable aunque el driver no la haya envuelto.
func storeErr(err error) error {
	if errors.Is(err, ErrSessionStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSessionStoreUnavailable, err)
}
