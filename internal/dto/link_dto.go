package dto

type CreateLinkRequest struct {
	Title string `json:"titulo"`
	URL   string `json:"url"`
	Style string `json:"style"`
}

// UpdateLinkRequest carries a partial link edit; nil fields are left
// untouched.
type UpdateLinkRequest struct {
	Title *string `json:"titulo"`
	URL   *string `json:"url"`
	Style *string `json:"style"`
}
