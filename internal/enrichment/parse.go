package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/lang"
	"github.com/fadonmez/backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// reply is everything the model may send back: a result or an error message.
type reply struct {
	Result
	Error string `json:"error"`
}

// cleanJSON strips the markdown fences models like to wrap JSON in.
func cleanJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

// parseReply turns model output into a normalized Result. Anything that is not a
// complete success shape for req.Mode is an ENRICHMENT_FAILED error.
func parseReply(validate *validator.Validate, req Request, content string) (*Result, error) {
	var r reply
	if err := json.Unmarshal([]byte(cleanJSON(content)), &r); err != nil {
		return nil, apperr.EnrichmentFailed("enrichment returned malformed output", err)
	}
	if r.Error != "" {
		return nil, apperr.EnrichmentFailed(r.Error, nil)
	}

	res := r.Result
	res.Translation = lang.NormalizeWord(res.Translation, req.NativeLanguage)
	if err := validate.Struct(&res); err != nil {
		return nil, apperr.EnrichmentFailed("enrichment returned no translation", err)
	}

	if req.Mode == TranslationOnly {
		return &Result{Translation: res.Translation}, nil
	}

	res.Example = strings.TrimSpace(res.Example)
	res.DetectedLanguage = lang.NormalizeCode(res.DetectedLanguage)
	res.Level = model.Level(strings.ToUpper(strings.TrimSpace(string(res.Level))))

	if err := validate.Var(res.Example, "required"); err != nil {
		return nil, apperr.EnrichmentFailed("enrichment returned no example", err)
	}
	if err := validate.Var(res.DetectedLanguage, "required"); err != nil {
		return nil, apperr.EnrichmentFailed("enrichment returned no word language", err)
	}
	if !res.Level.Valid() {
		return nil, apperr.EnrichmentFailed(fmt.Sprintf("enrichment returned invalid level %q", res.Level), nil)
	}
	return &res, nil
}
