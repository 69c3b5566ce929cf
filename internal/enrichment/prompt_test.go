package enrichment

import (
	"testing"

	"github.com/fadonmez/backend/internal/lang"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderPrompt(p Prompt) []byte {
	return []byte(p.System + "\n---\n" + p.User + "\n")
}

func TestPromptBuilder_Golden(t *testing.T) {
	b := NewPromptBuilder(lang.DefaultTable())
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tests := []struct {
		name string
		req  Request
	}{
		{"full_maison_fr_en", Request{WordName: "maison", TargetLanguage: "fr", NativeLanguage: "en", Mode: FullEnrichment}},
		{"translation_haus_de_tr", Request{WordName: "haus", TargetLanguage: "DE", NativeLanguage: "tr", Mode: TranslationOnly}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := b.Build(tt.req)
			require.NoError(t, err)
			g.Assert(t, tt.name, renderPrompt(p))
		})
	}
}

func TestPromptBuilder_UsesInjectedTable(t *testing.T) {
	b := NewPromptBuilder(lang.NewTable(map[string]string{"xx": "examplish", "yy": "othish"}))

	p, err := b.Build(Request{WordName: "zork", TargetLanguage: "xx", NativeLanguage: "yy", Mode: TranslationOnly})
	require.NoError(t, err)
	assert.Contains(t, p.System, "from examplish to othish")

	_, err = b.Build(Request{WordName: "maison", TargetLanguage: "fr", NativeLanguage: "yy", Mode: TranslationOnly})
	assert.Error(t, err)
}

func TestPromptBuilder_RejectsUnknownLanguages(t *testing.T) {
	b := NewPromptBuilder(lang.DefaultTable())

	_, err := b.Build(Request{WordName: "maison", TargetLanguage: "xx", NativeLanguage: "en"})
	assert.Error(t, err)
	_, err = b.Build(Request{WordName: "maison", TargetLanguage: "fr", NativeLanguage: "xx"})
	assert.Error(t, err)
	_, err = b.Build(Request{WordName: "maison", TargetLanguage: "fr", NativeLanguage: "en", Mode: Mode(9)})
	assert.Error(t, err)
}
