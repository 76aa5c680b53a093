// Package social normaliza los payloads de user-info de cada proveedor OAuth2
// (Google, Kakao, Naver) a una Identity común.
//
// Cada proveedor es una variante tipada que decodifica su propio shape;
// la selección es explícita por tag (ExtractorFor), nunca por inspección del payload.
package social

import (
	"errors"
	"fmt"
	"strings"
)

// Provider es el tag del proveedor tal como llega en la ruta del callback.
type Provider string

const (
	Google Provider = "google"
	Kakao  Provider = "kakao"
	Naver  Provider = "naver"
)

// Providers lista los proveedores soportados, en orden estable.
var Providers = []Provider{Google, Kakao, Naver}

var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrPayloadMalformed    = errors.New("social: user-info payload is malformed")
	ErrIdentityIncomplete  = errors.New("social: provider id missing from user-info payload")
)

// Identity es el perfil normalizado. Los campos cosméticos ausentes quedan en "".
type Identity struct {
	Provider    Provider
	ProviderID  string
	DisplayName string
	Email       string
	AvatarURL   string
}

// Extractor convierte el payload crudo de un proveedor en Identity.
type Extractor interface {
	ExtractIdentity(raw []byte) (Identity, error)
}

// ParseProvider valida el tag. Comparación case-insensitive.
func ParseProvider(tag string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(tag)))
	switch p {
	case Google, Kakao, Naver:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, tag)
}

// ExtractorFor devuelve la variante correspondiente al proveedor.
func ExtractorFor(p Provider) (Extractor, error) {
	switch p {
	case Google:
		return googleExtractor{}, nil
	case Kakao:
		return kakaoExtractor{}, nil
	case Naver:
		return naverExtractor{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, string(p))
}

// Extract es el atajo ParseProvider + ExtractorFor + ExtractIdentity.
func Extract(tag string, raw []byte) (Identity, error) {
	p, err := ParseProvider(tag)
	if err != nil {
		return Identity{}, err
	}
	ex, err := ExtractorFor(p)
	if err != nil {
		return Identity{}, err
	}
	return ex.ExtractIdentity(raw)
}

func (p Provider) String() string { return string(p) }

func finish(id Identity) (Identity, error) {
	id.ProviderID = strings.TrimSpace(id.ProviderID)
	if id.ProviderID == "" {
		return Identity{}, fmt.Errorf("%w (%s)", ErrIdentityIncomplete, id.Provider)
	}
	id.DisplayName = strings.TrimSpace(id.DisplayName)
	id.Email = strings.TrimSpace(id.Email)
	id.AvatarURL = strings.TrimSpace(id.AvatarURL)
	return id, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
