package dto

// PublicLink is one rendered button on a public page.
type PublicLink struct {
	Title string `json:"titulo"`
	URL   string `json:"url"`
	Style string `json:"style"`
	Order int    `json:"ordem"`
}

// PublicProfileResponse is the read-only view model served at
// /api/u/:username. Missing profile fields arrive pre-filled with their
// documented defaults so the page renders without further fallbacks.
type PublicProfileResponse struct {
	Username        string       `json:"username"`
	Name            string       `json:"name"`
	Bio             string       `json:"bio"`
	AvatarURL       string       `json:"logotipo"`
	BackgroundType  string       `json:"background_type"`
	BackgroundImg   string       `json:"imagem_fundo"`
	BackgroundColor string       `json:"cor_fundo"`
	Opacity         float64      `json:"opacity"`
	Grayscale       bool         `json:"grayscale"`
	Theme           string       `json:"theme"`
	Links           []PublicLink `json:"links"`
}
