package dto

// UpdateProfileRequest carries a partial profile edit; nil fields are
// left untouched.
type UpdateProfileRequest struct {
	Bio             *string  `json:"bio"`
	AvatarURL       *string  `json:"logotipo"`
	BackgroundImg   *string  `json:"imagem_fundo"`
	BackgroundColor *string  `json:"cor_fundo"`
	BackgroundType  *string  `json:"background_type"`
	Opacity         *float64 `json:"opacity"`
	Grayscale       *bool    `json:"grayscale"`
	Theme           *string  `json:"theme"`
}

type ChangeUsernameRequest struct {
	Username string `json:"username"`
}

type ChangePlanRequest struct {
	Plan string `json:"plano"`
}
