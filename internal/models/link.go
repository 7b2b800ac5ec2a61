package models

import (
	"time"

	"github.com/google/uuid"
)

var LinkStyles = []string{"default", "outline", "ghost", "neobrutal", "glass"}

// Link is one themed button on a public page. Ordem values only need to
// be relatively ordered; gaps are fine and survivors are never renumbered.
type Link struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"column:titulo;size:120;not null" json:"titulo"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	Style     string    `gorm:"size:20;default:'default'" json:"style"`
	Order     int       `gorm:"column:ordem;not null" json:"ordem"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func ValidLinkStyle(style string) bool {
	for _, s := range LinkStyles {
		if s == style {
			return true
		}
	}
	return false
}
