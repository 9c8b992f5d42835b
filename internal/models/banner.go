package models

import "time"

// Banner is a promo card shown on the public booking page. Images are
// hosted elsewhere; only the URL is stored.
type Banner struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title    string `gorm:"size:100;not null" json:"title"`
	ImageURL string `gorm:"size:500" json:"image_url"`
	Active   bool   `gorm:"default:true" json:"active"`
	Position int    `gorm:"default:0" json:"position"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
