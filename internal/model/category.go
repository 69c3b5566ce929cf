package model

import "time"

// Category groups a user's words inside one learned language
type Category struct {
	CategoryID     string    `db:"id" json:"category_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	UserLanguageID string    `db:"user_language_id" json:"user_language_id"`
	LanguageCode   string    `db:"language_code" json:"language_code"`
	Name           string    `db:"name" json:"name"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
