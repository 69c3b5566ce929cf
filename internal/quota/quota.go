// Package quota holds every tier-dependent limit of the vocabulary backend.
// All functions are pure: callers load the counts, the policy decides.
package quota

import (
	"fmt"

	apperr "github.com/fadonmez/backend/internal/errors"
)

// Tier is a user's subscription level.
type Tier string

const (
	TierNormal  Tier = "NORMAL"
	TierPremium Tier = "PREMIUM"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t == TierNormal || t == TierPremium
}

// Unlimited marks a limit that does not apply.
const Unlimited = -1

// Policy holds the numeric limits. The zero value is not useful; use Default.
type Policy struct {
	NormalWordLimit          int
	CategoryWordLimit        int
	CategoriesPerLanguage    int
	DowngradeRetainedWords   int
	PremiumOnlyLanguageAdded bool
}

// Default returns the production limits.
func Default() Policy {
	return Policy{
		NormalWordLimit:          25,
		CategoryWordLimit:        200,
		CategoriesPerLanguage:    5,
		DowngradeRetainedWords:   25,
		PremiumOnlyLanguageAdded: true,
	}
}

// CheckWordAddition approves or rejects tracking one more word.
// globalWords is the user's tracked-word count across all languages,
// categoryWords the count of the target category.
func (p Policy) CheckWordAddition(tier Tier, globalWords, categoryWords int) error {
	if tier != TierPremium && globalWords >= p.NormalWordLimit {
		return apperr.QuotaExceeded(fmt.Sprintf("you have reached the limit of %d words", p.NormalWordLimit))
	}
	if categoryWords >= p.CategoryWordLimit {
		return apperr.CategoryFull(fmt.Sprintf("you have reached the limit of %d words per category", p.CategoryWordLimit))
	}
	return nil
}

// CheckCategoryCreation applies the per-language category cap, which holds for every tier.
func (p Policy) CheckCategoryCreation(_ Tier, categoriesForLanguage int) error {
	if categoriesForLanguage >= p.CategoriesPerLanguage {
		return apperr.QuotaExceeded(fmt.Sprintf("you have reached the limit of %d categories per language", p.CategoriesPerLanguage))
	}
	return nil
}

// CheckLanguageAddition decides whether a user holding existingLanguages may add another.
// The first language is always allowed; further ones require PREMIUM.
func (p Policy) CheckLanguageAddition(tier Tier, existingLanguages int) error {
	if existingLanguages == 0 || !p.PremiumOnlyLanguageAdded {
		return nil
	}
	if tier != TierPremium {
		return apperr.NotAuthorized("additional languages are available to premium users only")
	}
	return nil
}

// RetainedWords returns how many tracked words a user of the given tier keeps
// after a subscription change, or Unlimited.
func (p Policy) RetainedWords(tier Tier) int {
	if tier == TierPremium {
		return Unlimited
	}
	return p.DowngradeRetainedWords
}
