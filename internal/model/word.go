package model

import "time"

// Level is a CEFR difficulty level.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Valid reports whether l is one of A1..C2.
func (l Level) Valid() bool {
	switch l {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	}
	return false
}

// Word is the canonical catalog entry for a spelling in a language. Shared by all users.
type Word struct {
	WordID       string        `db:"id" json:"word_id"`
	WordName     string        `db:"word_name" json:"word_name"`
	LanguageCode string        `db:"language_code" json:"language_code"`
	Example      string        `db:"example" json:"example"`
	Level        Level         `db:"level" json:"level"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	Translations []Translation `db:"-" json:"translations"`
}

// Translation returns the word's translation into languageCode, if loaded.
func (w *Word) Translation(languageCode string) *Translation {
	for i := range w.Translations {
		if w.Translations[i].LanguageCode == languageCode {
			return &w.Translations[i]
		}
	}
	return nil
}

// Translation renders a Word into one native language
type Translation struct {
	TranslationID    string    `db:"id" json:"translation_id"`
	WordID           string    `db:"word_id" json:"word_id"`
	LanguageCode     string    `db:"language_code" json:"language_code"`
	TranslationValue string    `db:"translation_value" json:"translation_value"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// UserWord records that a user tracks a Word inside a Category
type UserWord struct {
	UserWordID string    `db:"id" json:"user_word_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	WordID     string    `db:"word_id" json:"word_id"`
	CategoryID string    `db:"category_id" json:"category_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TrackedWord is a UserWord joined with its Word and translations.
type TrackedWord struct {
	UserWord
	Word Word `json:"word"`
}
