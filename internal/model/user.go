package model

import (
	"time"

	"github.com/fadonmez/backend/internal/quota"
)

// User represents a learner account
type User struct {
	UserID    string     `db:"id" json:"user_id"`
	Email     string     `db:"email" json:"email"`
	Name      string     `db:"name" json:"name"`
	Tier      quota.Tier `db:"tier" json:"tier"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// UserLanguage is a language a user is learning. Exactly one per user is the default.
type UserLanguage struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	LanguageCode string    `db:"language_code" json:"language_code"`
	IsDefault    bool      `db:"is_default" json:"is_default"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
