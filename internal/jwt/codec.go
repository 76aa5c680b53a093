package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// MinKeyBytes es el largo mínimo aceptado para la clave HMAC (HS256).
const MinKeyBytes = 32

var (
	ErrKeyMissing   = errors.New("jwt: signing key is missing")
	ErrKeyMalformed = errors.New("jwt: signing key is malformed")

	// ErrInvalidToken cubre firma inválida, token malformado, algoritmo
	// inesperado, subject ausente y (en VerifySubject) expiración.
	ErrInvalidToken = errors.New("invalid token")
)

// Config es la configuración inmutable del codec.
type Config struct {
	// Secret es la clave simétrica en base64.
	Secret string
	// Now permite fijar el reloj en tests. nil => time.Now.
	Now func() time.Time
}

// Claims que viajan en access y refresh tokens.
// userId se mantiene por compatibilidad con los clientes existentes; sub lo duplica.
type Claims struct {
	UserID string `json:"userId"`
	jwtv5.RegisteredClaims
}

// Codec firma y verifica tokens HMAC con una única clave de proceso.
// Es seguro para uso concurrente: no tiene estado mutable.
type Codec struct {
	key    []byte
	method *jwtv5.SigningMethodHMAC
	now    func() time.Time
}

// NewCodec decodifica la clave y elige el algoritmo según su largo.
// Un error acá debe abortar el arranque del proceso.
func NewCodec(cfg Config) (*Codec, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, ErrKeyMissing
	}
	key, err := decodeKey(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMalformed, err)
	}
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrKeyMalformed, MinKeyBytes, len(key))
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Codec{key: key, method: methodForKey(key), now: now}, nil
}

func decodeKey(s string) ([]byte, error) {
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func methodForKey(key []byte) *jwtv5.SigningMethodHMAC {
	switch {
	case len(key) >= 64:
		return jwtv5.SigningMethodHS512
	case len(key) >= 48:
		return jwtv5.SigningMethodHS384
	default:
		return jwtv5.SigningMethodHS256
	}
}

// Alg devuelve el algoritmo efectivo (HS256/HS384/HS512).
func (c *Codec) Alg() string { return c.method.Alg() }

// Issue firma un token para subject con exp = now + ttl.
// ttl <= 0 produce un token ya expirado.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("jwt: empty subject")
	}
	now := c.now()
	claims := Claims{
		UserID: subject,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(expiry(now, ttl)),
		},
	}
	signed, err := jwtv5.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// expiry redondea now+ttl hacia arriba al segundo: exp es NumericDate (segundos
// enteros) y truncar dejaría un ttl positivo menor a 1s ya vencido al emitirse.
func expiry(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if ttl <= 0 {
		return exp
	}
	if t := exp.Truncate(time.Second); t.Before(exp) {
		return t.Add(time.Second)
	}
	return exp
}

// VerifySubject valida firma y expiración y devuelve el subject.
func (c *Codec) VerifySubject(token string) (string, error) {
	claims, err := c.parse(token, jwtv5.WithTimeFunc(c.now), jwtv5.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	sub := claims.UserID
	if sub == "" {
		sub = claims.Subject
	}
	if sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return sub, nil
}

// IsExpired valida la firma pero no los claims, y compara exp contra el reloj.
// Un token sin exp se considera expirado.
func (c *Codec) IsExpired(token string) (bool, error) {
	claims, err := c.parse(token, jwtv5.WithoutClaimsValidation())
	if err != nil {
		return false, err
	}
	if claims.ExpiresAt == nil {
		return true, nil
	}
	return !c.now().Before(claims.ExpiresAt.Time), nil
}

// Inspect devuelve los claims verificando sólo la firma. Lo usa el CLI de ops.
func (c *Codec) Inspect(token string) (*Claims, error) {
	return c.parse(token, jwtv5.WithoutClaimsValidation())
}

func (c *Codec) parse(token string, opts ...jwtv5.ParserOption) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	opts = append(opts, jwtv5.WithValidMethods([]string{c.method.Alg()}))

	var claims Claims
	_, err := jwtv5.ParseWithClaims(token, &claims, func(*jwtv5.Token) (any, error) {
		return c.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return &claims, nil
}

// NewSecret genera una clave aleatoria de n bytes en base64 estándar.
func NewSecret(n int) (string, error) {
	if n < MinKeyBytes {
		n = MinKeyBytes
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
