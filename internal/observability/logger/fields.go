package logger

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Route(v string) zap.Field     { return zap.String("route", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }

// Duration registra la latencia del request.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// =================================================================================
// DOMINIO
// =================================================================================

func UserID(v string) zap.Field    { return zap.String("user_id", v) }
func Provider(v string) zap.Field  { return zap.String("provider", v) }
func ProjectID(v string) zap.Field { return zap.String("project_id", v) }

// IsNewUser marca si el login creó el usuario.
func IsNewUser(v bool) zap.Field { return zap.Bool("is_new_user", v) }

// Fingerprint identifica un token/handle sin exponerlo: sha256 base64url, 12 chars.
func Fingerprint(key, secret string) zap.Field {
	if secret == "" {
		return zap.String(key, "")
	}
	sum := sha256.Sum256([]byte(secret))
	return zap.String(key, base64.RawURLEncoding.EncodeToString(sum[:])[:12])
}

// =================================================================================
// SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }

// Layer: controller, service, repository, store.
func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

// =================================================================================
// GENÉRICOS
// =================================================================================

func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }
