package logger

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	f := Fingerprint("refresh_fp", "eyJhbGciOi.secret.token")
	require.Equal(t, "refresh_fp", f.Key)
	require.Len(t, f.String, 12)

	sum := sha256.Sum256([]byte("eyJhbGciOi.secret.token"))
	require.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:])[:12], f.String)

	require.Equal(t, "", Fingerprint("k", "").String)
}
