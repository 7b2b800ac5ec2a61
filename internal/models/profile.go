package models

import (
	"time"

	"github.com/google/uuid"
)

// Background modes. Exactly one of BackgroundColor/BackgroundImage is
// active per mode.
const (
	BackgroundColor = "color"
	BackgroundImage = "image"
)

// Defaults applied when a profile field was never set.
const (
	DefaultBackgroundColor = "#ffffff"
	DefaultOpacity         = 1.0
	DefaultTheme           = "default"
)

var ProfileThemes = []string{"default", "minimal", "neobrutal", "glass"}

// Profile is the one-to-one page configuration for a user.
type Profile struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Bio             string    `gorm:"type:text" json:"bio"`
	AvatarURL       string    `gorm:"column:logotipo;type:text" json:"logotipo"`
	BackgroundImg   string    `gorm:"column:imagem_fundo;type:text" json:"imagem_fundo"`
	BackgroundColor string    `gorm:"column:cor_fundo;size:20" json:"cor_fundo"`
	BackgroundType  string    `gorm:"size:10" json:"background_type"`
	Opacity         *float64  `json:"opacity"`
	Grayscale       bool      `gorm:"default:false" json:"grayscale"`
	Theme           string    `gorm:"size:20;default:'default'" json:"theme"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	User            User      `gorm:"foreignKey:UserID" json:"-"`
}

// Complete reports whether the profile satisfies onboarding: a bio plus
// some background choice.
func (p *Profile) Complete() bool {
	if p == nil || p.Bio == "" {
		return false
	}
	return p.BackgroundType != "" || p.BackgroundColor != ""
}
