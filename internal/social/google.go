package social

import (
	"encoding/json"
	"fmt"
)

// googleUserInfo es la respuesta de https://openidconnect.googleapis.com/v1/userinfo.
type googleUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type googleExtractor struct{}

func (googleExtractor) ExtractIdentity(raw []byte) (Identity, error) {
	var info googleUserInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return Identity{}, fmt.Errorf("%w: google: %v", ErrPayloadMalformed, err)
	}
	return finish(Identity{
		Provider:    Google,
		ProviderID:  info.Sub,
		DisplayName: info.Name,
		Email:       info.Email,
		AvatarURL:   info.Picture,
	})
}
