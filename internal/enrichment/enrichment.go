// Package enrichment asks a generative model for the data the catalog cannot
// derive on its own: a translation, an example sentence, the detected language
// of a word and its CEFR level.
package enrichment

import (
	"context"

	"github.com/fadonmez/backend/internal/model"
)

// Mode selects how much the model is asked for.
type Mode int

const (
	// FullEnrichment asks for translation, example, detected language and level.
	FullEnrichment Mode = iota
	// TranslationOnly asks for the translation alone.
	TranslationOnly
)

func (m Mode) String() string {
	switch m {
	case FullEnrichment:
		return "full"
	case TranslationOnly:
		return "translation_only"
	default:
		return "unknown"
	}
}

// Request describes one enrichment call. Language fields are codes from lang.Table.
type Request struct {
	WordName       string
	TargetLanguage string
	NativeLanguage string
	Mode           Mode
}

// Result is a successful enrichment. Example, DetectedLanguage and Level are
// only set for FullEnrichment.
type Result struct {
	Translation      string      `json:"translation" validate:"required"`
	Example          string      `json:"example,omitempty"`
	DetectedLanguage string      `json:"wordLanguage,omitempty"`
	Level            model.Level `json:"wordLevel,omitempty"`
}

// Enricher is the collaborator the word service calls. Every failure, including
// timeouts and unparseable output, is returned as an ENRICHMENT_FAILED error.
type Enricher interface {
	Enrich(ctx context.Context, req Request) (*Result, error)
}
