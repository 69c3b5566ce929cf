// Package lang holds the language code table and the text normalization rules
// shared by the catalog and the enrichment prompts.
package lang

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Table maps language codes to English language names. A Table is never
// mutated after construction, so it is safe to share between goroutines.
type Table struct {
	names map[string]string
}

// NewTable builds a table from code→name pairs. Codes are normalized.
func NewTable(names map[string]string) Table {
	m := make(map[string]string, len(names))
	for code, name := range names {
		m[NormalizeCode(code)] = name
	}
	return Table{names: m}
}

// DefaultTable returns the languages offered to learners.
func DefaultTable() Table {
	return NewTable(map[string]string{
		"en":    "english",
		"de":    "german",
		"fr":    "french",
		"it":    "italian",
		"es":    "spanish",
		"tr":    "turkish",
		"hi":    "hindi",
		"ar":    "arabic",
		"zh-cn": "chinese",
		"ja":    "japanese",
		"ko":    "korean",
		"nl":    "dutch",
		"pl":    "polish",
		"pt":    "portuguese",
		"ru":    "russian",
	})
}

// Name returns the language name for code.
func (t Table) Name(code string) (string, bool) {
	name, ok := t.names[NormalizeCode(code)]
	return name, ok
}

// Supports reports whether code is in the table.
func (t Table) Supports(code string) bool {
	_, ok := t.Name(code)
	return ok
}

// Codes returns the table's codes in sorted order.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t.names))
	for code := range t.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// NormalizeCode lowercases and trims a language code and uses '-' as separator.
func NormalizeCode(code string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(code)), "_", "-")
}

// NormalizeWord returns the catalog form of a word: NFC, trimmed, and lowercased
// with the casing rules of languageCode (so Turkish "İ" becomes "i").
func NormalizeWord(text, languageCode string) string {
	s := norm.NFC.String(strings.TrimSpace(text))
	return cases.Lower(tag(languageCode)).String(s)
}

// Same reports whether two language codes name the same base language,
// so "fr" matches "fr-FR" and "FR". Codes that cannot be parsed are compared
// textually after normalization.
func Same(a, b string) bool {
	na, nb := NormalizeCode(a), NormalizeCode(b)
	if na == nb {
		return true
	}
	ta, errA := language.Parse(na)
	tb, errB := language.Parse(nb)
	if errA != nil || errB != nil {
		return false
	}
	ba, _ := ta.Base()
	bb, _ := tb.Base()
	return ba == bb
}

func tag(code string) language.Tag {
	t, err := language.Parse(NormalizeCode(code))
	if err != nil {
		return language.Und
	}
	return t
}
