package social

import (
	"encoding/json"
	"fmt"
)

// naverUserInfo es la respuesta de https://openapi.naver.com/v1/nid/me.
// Naver anida todos los campos bajo "response".
type naverUserInfo struct {
	ResultCode string `json:"resultcode"`
	Response   *struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Nickname     string `json:"nickname"`
		Email        string `json:"email"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

type naverExtractor struct{}

func (naverExtractor) ExtractIdentity(raw []byte) (Identity, error) {
	var info naverUserInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return Identity{}, fmt.Errorf("%w: naver: %v", ErrPayloadMalformed, err)
	}
	if info.Response == nil {
		return Identity{}, fmt.Errorf("%w (naver: no response object)", ErrIdentityIncomplete)
	}
	r := info.Response
	return finish(Identity{
		Provider:    Naver,
		ProviderID:  r.ID,
		DisplayName: firstNonEmpty(r.Name, r.Nickname),
		Email:       r.Email,
		AvatarURL:   r.ProfileImage,
	})
}
