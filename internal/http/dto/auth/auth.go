// Package auth contiene los DTOs de los endpoints de token.
package auth

// TokenRequest es el body de POST /auth/token.
type TokenRequest struct {
	TemporaryToken string `json:"temporary_token"`
}

// TokenResponse devuelve un access token (canje y reissue).
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
