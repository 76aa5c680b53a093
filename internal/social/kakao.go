package social

import (
	"encoding/json"
	"fmt"
)

// kakaoUserInfo es la respuesta de https://kapi.kakao.com/v2/user/me.
// El id es numérico; nickname e imagen pueden venir en properties o en
// kakao_account.profile según los scopes consentidos.
type kakaoUserInfo struct {
	ID         json.Number `json:"id"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

type kakaoExtractor struct{}

func (kakaoExtractor) ExtractIdentity(raw []byte) (Identity, error) {
	var info kakaoUserInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return Identity{}, fmt.Errorf("%w: kakao: %v", ErrPayloadMalformed, err)
	}
	return finish(Identity{
		Provider:    Kakao,
		ProviderID:  info.ID.String(),
		DisplayName: firstNonEmpty(info.Properties.Nickname, info.KakaoAccount.Profile.Nickname),
		Email:       info.KakaoAccount.Email,
		AvatarURL:   firstNonEmpty(info.Properties.ProfileImage, info.KakaoAccount.Profile.ProfileImageURL),
	})
}
