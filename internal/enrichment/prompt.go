package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fadonmez/backend/internal/lang"
)

const fullSystemPrompt = `You are a translation tool. The user sends a JSON object with "wordName" (the word), "targetLang" (the language the word should belong to) and "nativeLang" (the language to translate into). Translate %q from %s to %s. Before translating, determine which language "wordName" is a word of and return its code as "wordLanguage", using one of: %s. Give an example sentence of up to 12 words in %s containing the word. Return {"error": "Something went wrong"} if "wordName" contains extra characters. If everything is OK, return {"translation": (translatedWord), "example": (example), "wordLanguage": (languageCode), "wordLevel": (one of A1, A2, B1, B2, C1, C2)}. If any other problem occurs, return {"error": "Something went wrong"}.`

const translationSystemPrompt = `You are a translation tool. The user sends a JSON object with "wordName" (the word), "targetLang" (the language of the word) and "nativeLang" (the language to translate into). Translate %q from %s to %s. If "wordName" is not a word in %s, return {"error": "Please add a word from your target language!"}. If everything is OK, return {"translation": (translatedWord)}. If any other problem occurs, return {"error": "Something went wrong"}.`

// Prompt is the message pair sent to the model.
type Prompt struct {
	System string
	User   string
}

type userPrompt struct {
	WordName   string `json:"wordName"`
	TargetLang string `json:"targetLang"`
	NativeLang string `json:"nativeLang"`
}

// PromptBuilder renders prompts. Language names come from the table it was built with.
type PromptBuilder struct {
	languages lang.Table
}

func NewPromptBuilder(languages lang.Table) PromptBuilder {
	return PromptBuilder{languages: languages}
}

// Build renders the prompt for req. Both languages must be in the table.
func (b PromptBuilder) Build(req Request) (Prompt, error) {
	target, ok := b.languages.Name(req.TargetLanguage)
	if !ok {
		return Prompt{}, fmt.Errorf("unsupported target language %q", req.TargetLanguage)
	}
	native, ok := b.languages.Name(req.NativeLanguage)
	if !ok {
		return Prompt{}, fmt.Errorf("unsupported native language %q", req.NativeLanguage)
	}

	user, err := json.Marshal(userPrompt{
		WordName:   req.WordName,
		TargetLang: lang.NormalizeCode(req.TargetLanguage),
		NativeLang: lang.NormalizeCode(req.NativeLanguage),
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("encoding user prompt: %w", err)
	}

	var system string
	switch req.Mode {
	case FullEnrichment:
		codes := strings.Join(b.languages.Codes(), ", ")
		system = fmt.Sprintf(fullSystemPrompt, req.WordName, target, native, codes, target)
	case TranslationOnly:
		system = fmt.Sprintf(translationSystemPrompt, req.WordName, target, native, target)
	default:
		return Prompt{}, fmt.Errorf("unknown enrichment mode %d", req.Mode)
	}
	return Prompt{System: system, User: string(user)}, nil
}
