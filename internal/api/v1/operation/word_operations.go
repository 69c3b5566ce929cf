package operation

import "github.com/fadonmez/backend/internal/api/v1/dto"

// Word resolution Operations

type ResolveWordInput struct {
	Body dto.ResolveWordRequestDTO `json:"body"`
}

type ResolveWordOutput struct {
	Body dto.ResolveWordResponseDTO `json:"body"`
}

type DeleteUserWordInput struct {
	UserWordID string `path:"userWordId" doc:"Tracked word ID"`
}

type DeleteUserWordOutput struct {
	// 204 No Content
}

type TranslateWordInput struct {
	Body dto.TranslateWordRequestDTO `json:"body"`
}

type TranslateWordOutput struct {
	Body dto.TranslateWordResponseDTO `json:"body"`
}

// Catalog Operations

type SampleWordsInput struct {
	Language string `query:"language" required:"true" doc:"Language code"`
	Count    int    `query:"count" default:"10" minimum:"1" maximum:"50" doc:"Number of words to return"`
}

type SampleWordsOutput struct {
	Body []dto.WordResponseDTO `json:"body"`
}

type LookupWordInput struct {
	Word     string `query:"word" required:"true" doc:"Word to look up"`
	Language string `query:"language" required:"true" doc:"Language code of the word"`
}

type LookupWordOutput struct {
	Body dto.WordResponseDTO `json:"body"`
}

// Word list Operations

type ListMyWordsInput struct {
	// No input needed - user ID comes from auth context
}

type ListMyWordsOutput struct {
	Body []dto.TrackedWordResponseDTO `json:"body"`
}

type ListCategoryWordsInput struct {
	CategoryID string `path:"categoryId" doc:"Category ID"`
}

type ListCategoryWordsOutput struct {
	Body []dto.TrackedWordResponseDTO `json:"body"`
}
