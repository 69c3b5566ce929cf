package enrichment

import (
	"testing"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, cleanJSON("  {\"a\":1}  "))
}

func TestParseReply_Full(t *testing.T) {
	req := Request{WordName: "maison", TargetLanguage: "fr", NativeLanguage: "en", Mode: FullEnrichment}
	content := "```json\n{\"translation\": \" House \", \"example\": \"La maison est grande.\", \"wordLanguage\": \"FR\", \"wordLevel\": \"a1\"}\n```"

	res, err := parseReply(validator.New(), req, content)
	require.NoError(t, err)
	assert.Equal(t, "house", res.Translation)
	assert.Equal(t, "La maison est grande.", res.Example)
	assert.Equal(t, "fr", res.DetectedLanguage)
	assert.Equal(t, model.LevelA1, res.Level)
}

func TestParseReply_TranslationOnlyDropsExtras(t *testing.T) {
	req := Request{WordName: "maison", TargetLanguage: "fr", NativeLanguage: "tr", Mode: TranslationOnly}

	res, err := parseReply(validator.New(), req, `{"translation":"Ev","wordLevel":"B2"}`)
	require.NoError(t, err)
	assert.Equal(t, &Result{Translation: "ev"}, res)
}

func TestParseReply_Failures(t *testing.T) {
	full := Request{WordName: "maison", TargetLanguage: "fr", NativeLanguage: "en", Mode: FullEnrichment}

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"not json", "sorry, I cannot help", "enrichment returned malformed output"},
		{"truncated", `{"translation":"house","exam`, "enrichment returned malformed output"},
		{"collaborator error", `{"error":"Please add a word from your target language!"}`, "Please add a word from your target language!"},
		{"missing translation", `{"example":"x","wordLanguage":"fr","wordLevel":"A1"}`, "enrichment returned no translation"},
		{"missing example", `{"translation":"house","wordLanguage":"fr","wordLevel":"A1"}`, "enrichment returned no example"},
		{"missing language", `{"translation":"house","example":"x","wordLevel":"A1"}`, "enrichment returned no word language"},
		{"bad level", `{"translation":"house","example":"x","wordLanguage":"fr","wordLevel":"D4"}`, `enrichment returned invalid level "D4"`},
		{"wrong type", `{"translation":42}`, "enrichment returned malformed output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseReply(validator.New(), full, tt.content)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrEnrichmentFailed)

			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}
