package dto

import "time"

type ResolveWordRequestDTO struct {
	CategoryID     string `json:"category_id" validate:"required" minLength:"1" doc:"Category the word is added to"`
	Word           string `json:"word" validate:"required,max=100" minLength:"1" maxLength:"100" doc:"Word as typed by the learner"`
	TargetLanguage string `json:"target_language" validate:"required" minLength:"2" doc:"Language code of the word"`
	NativeLanguage string `json:"native_language" validate:"required" minLength:"2" doc:"Language code the word is translated into"`
}

type ResolveWordResponseDTO struct {
	Status     string `json:"status" enum:"created,linked_existing,translated_existing" doc:"Which path the resolution took"`
	WordID     string `json:"word_id"`
	UserWordID string `json:"user_word_id"`
}

type TranslateWordRequestDTO struct {
	Word           string `json:"word" validate:"required,max=100" minLength:"1" maxLength:"100"`
	TargetLanguage string `json:"target_language" validate:"required" minLength:"2"`
	NativeLanguage string `json:"native_language" validate:"required" minLength:"2"`
}

type TranslateWordResponseDTO struct {
	WordID           string `json:"word_id"`
	WordName         string `json:"word_name"`
	LanguageCode     string `json:"language_code"`
	TranslationValue string `json:"translation_value"`
	Enriched         bool   `json:"enriched" doc:"Whether the enrichment service was called"`
}

type TranslationDTO struct {
	LanguageCode     string `json:"language_code"`
	TranslationValue string `json:"translation_value"`
}

type WordResponseDTO struct {
	WordID       string           `json:"word_id"`
	WordName     string           `json:"word_name"`
	LanguageCode string           `json:"language_code"`
	Example      string           `json:"example"`
	Level        string           `json:"level"`
	Translations []TranslationDTO `json:"translations"`
	CreatedAt    time.Time        `json:"created_at"`
}

type TrackedWordResponseDTO struct {
	UserWordID string          `json:"user_word_id"`
	CategoryID string          `json:"category_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Word       WordResponseDTO `json:"word"`
}
