package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadonmez/backend/internal/enrichment"
	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/lang"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/quota"
	"github.com/fadonmez/backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ResolveStatus tells the caller which path a resolution took.
type ResolveStatus string

const (
	// StatusCreated: the word was new to the catalog and was enriched and created.
	StatusCreated ResolveStatus = "created"
	// StatusLinkedExisting: word and translation were already catalogued, no enrichment call.
	StatusLinkedExisting ResolveStatus = "linked_existing"
	// StatusTranslatedExisting: the word was catalogued but needed an enrichment call for the translation.
	StatusTranslatedExisting ResolveStatus = "translated_existing"
)

// ResolveRequest asks to add Word to a user's category.
type ResolveRequest struct {
	UserID         string `validate:"required"`
	CategoryID     string `validate:"required"`
	TargetLanguage string `validate:"required"`
	NativeLanguage string `validate:"required"`
	Word           string `validate:"required,max=100"`
}

type ResolveResult struct {
	Status     ResolveStatus `json:"status"`
	WordID     string        `json:"word_id"`
	UserWordID string        `json:"user_word_id"`
}

// TranslateRequest looks up or produces a translation without tracking the word.
type TranslateRequest struct {
	Word           string `validate:"required,max=100"`
	TargetLanguage string `validate:"required"`
	NativeLanguage string `validate:"required"`
}

type TranslateResult struct {
	WordID           string `json:"word_id"`
	WordName         string `json:"word_name"`
	LanguageCode     string `json:"language_code"`
	TranslationValue string `json:"translation_value"`
	Enriched         bool   `json:"enriched"`
}

// WordService adds words to users' lists while keeping the shared catalog free of duplicates.
type WordService interface {
	// Resolve adds a word to a user's category, reusing catalog entries where
	// possible and calling the enricher only for missing data.
	Resolve(ctx context.Context, req ResolveRequest) (*ResolveResult, error)
	// TranslateWord returns the catalog translation of a word, creating the word
	// or translation if needed. No UserWord is created.
	TranslateWord(ctx context.Context, req TranslateRequest) (*TranslateResult, error)
	// DeleteUserWord removes a word from the user's list. The catalog entry stays.
	DeleteUserWord(ctx context.Context, userID, userWordID string) error
}

type wordService struct {
	words      repository.WordRepository
	userWords  repository.UserWordRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	enricher   enrichment.Enricher
	events     WordEventPublisher
	policy     quota.Policy
	languages  lang.Table
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewWordService creates a new WordService.
func NewWordService(
	words repository.WordRepository,
	userWords repository.UserWordRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	enricher enrichment.Enricher,
	events WordEventPublisher,
	policy quota.Policy,
	languages lang.Table,
	validate *validator.Validate,
	logger zerolog.Logger,
) WordService {
	return &wordService{
		words:      words,
		userWords:  userWords,
		categories: categories,
		users:      users,
		enricher:   enricher,
		events:     events,
		policy:     policy,
		languages:  languages,
		validate:   validate,
		logger:     logger.With().Str("service", "WordService").Logger(),
	}
}

// resolution carries the validated, normalized facts of one Resolve call.
// enriched is set once the enricher has been called, so a conflict retry reuses it.
type resolution struct {
	userID     string
	categoryID string
	target     string
	native     string
	wordName   string
	enriched   *enrichment.Result
	retried    bool
}

func (r *resolution) newUserWord() *model.UserWord {
	return &model.UserWord{UserID: r.userID, CategoryID: r.categoryID}
}

func (s *wordService) Resolve(ctx context.Context, req ResolveRequest) (*ResolveResult, error) {
	if err := s.validate.Struct(&req); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	target, native, err := s.normalizeLanguages(req.TargetLanguage, req.NativeLanguage)
	if err != nil {
		return nil, err
	}
	r := &resolution{
		userID:     req.UserID,
		categoryID: req.CategoryID,
		target:     target,
		native:     native,
		wordName:   lang.NormalizeWord(req.Word, target),
	}
	if r.wordName == "" {
		return nil, apperr.Validation("word must not be blank")
	}

	if err := s.authorizeCategory(ctx, r); err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, r.userID)
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", r.userID, err)
	}
	if user == nil {
		return nil, apperr.NotFoundf("user %s not found", r.userID)
	}

	globalCount, err := s.userWords.CountByUser(ctx, r.userID)
	if err != nil {
		return nil, err
	}
	categoryCount, err := s.userWords.CountByCategory(ctx, r.categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CheckWordAddition(user.Tier, globalCount, categoryCount); err != nil {
		return nil, err
	}

	tracking, err := s.userWords.IsTrackingWordName(ctx, r.userID, r.wordName)
	if err != nil {
		return nil, err
	}
	if tracking {
		return nil, apperr.AlreadyTracked(fmt.Sprintf("%q is already in your list", r.wordName))
	}

	word, err := s.words.GetWordByName(ctx, r.wordName, r.target)
	if err != nil {
		return nil, err
	}
	if word != nil {
		return s.resolveExisting(ctx, r, word)
	}
	return s.resolveNew(ctx, r)
}

// authorizeCategory checks that the category exists, belongs to the user and
// is bound to the target language.
func (s *wordService) authorizeCategory(ctx context.Context, r *resolution) error {
	category, err := s.categories.GetCategoryByID(ctx, r.categoryID)
	if err != nil {
		return fmt.Errorf("loading category %s: %w", r.categoryID, err)
	}
	if category == nil {
		return apperr.NotFoundf("category %s not found", r.categoryID)
	}
	if category.UserID != r.userID {
		return apperr.NotAuthorized("category belongs to another user")
	}
	if lang.NormalizeCode(category.LanguageCode) != r.target {
		return apperr.NotAuthorized(fmt.Sprintf("category is for %s, not %s", category.LanguageCode, r.target))
	}
	return nil
}

// resolveExisting links the user to a catalogued word, adding the missing
// translation first when needed.
func (s *wordService) resolveExisting(ctx context.Context, r *resolution, word *model.Word) (*ResolveResult, error) {
	if lang.NormalizeCode(word.LanguageCode) != r.target {
		return nil, apperr.LanguageMismatchf("%q is catalogued as %s, not %s", word.WordName, word.LanguageCode, r.target)
	}

	if word.Translation(r.native) != nil {
		uw := r.newUserWord()
		uw.WordID = word.WordID
		if err := s.userWords.LinkUserWord(ctx, uw); err != nil {
			return nil, s.linkError(r, err)
		}
		status := StatusLinkedExisting
		if r.enriched != nil {
			status = StatusTranslatedExisting
		}
		return &ResolveResult{Status: status, WordID: word.WordID, UserWordID: uw.UserWordID}, nil
	}

	if r.enriched == nil {
		res, err := s.enrich(ctx, r.wordName, r.target, r.native, enrichment.TranslationOnly)
		if err != nil {
			return nil, err
		}
		r.enriched = res
	}

	t := &model.Translation{WordID: word.WordID, LanguageCode: r.native, TranslationValue: r.enriched.Translation}
	uw := r.newUserWord()
	err := s.words.AddTranslation(ctx, t, uw)
	switch {
	case errors.Is(err, repository.ErrTranslationExists):
		// Another request added this translation first.
		return s.retryExisting(ctx, r)
	case err != nil:
		return nil, s.linkError(r, err)
	}
	return &ResolveResult{Status: StatusTranslatedExisting, WordID: word.WordID, UserWordID: uw.UserWordID}, nil
}

// resolveNew enriches a word the catalog has never seen and creates it together
// with its translation and the user's link.
func (s *wordService) resolveNew(ctx context.Context, r *resolution) (*ResolveResult, error) {
	res, err := s.enrich(ctx, r.wordName, r.target, r.native, enrichment.FullEnrichment)
	if err != nil {
		return nil, err
	}
	if !lang.Same(res.DetectedLanguage, r.target) {
		return nil, apperr.LanguageMismatchf("%q is not a %s word", r.wordName, r.target)
	}
	r.enriched = res

	word := &model.Word{
		WordName:     r.wordName,
		LanguageCode: r.target,
		Example:      res.Example,
		Level:        res.Level,
	}
	t := &model.Translation{LanguageCode: r.native, TranslationValue: res.Translation}
	uw := r.newUserWord()
	err = s.words.CreateWordWithTranslation(ctx, word, t, uw)
	switch {
	case errors.Is(err, repository.ErrWordExists):
		// Another request created the word while we were enriching.
		return s.retryExisting(ctx, r)
	case err != nil:
		return nil, s.linkError(r, err)
	}

	s.events.WordCreated(ctx, word, r.userID)
	s.logger.Info().
		Str("word_id", word.WordID).
		Str("word", word.WordName).
		Str("language", word.LanguageCode).
		Str("user_id", r.userID).
		Msg("Created catalog word")
	return &ResolveResult{Status: StatusCreated, WordID: word.WordID, UserWordID: uw.UserWordID}, nil
}

// retryExisting re-reads the catalog after a uniqueness conflict and takes the
// existing-word path once more. A second conflict is an internal error.
func (s *wordService) retryExisting(ctx context.Context, r *resolution) (*ResolveResult, error) {
	if r.retried {
		return nil, fmt.Errorf("catalog conflict for %q (%s) persisted after retry", r.wordName, r.target)
	}
	r.retried = true

	word, err := s.words.GetWordByName(ctx, r.wordName, r.target)
	if err != nil {
		return nil, err
	}
	if word == nil {
		return nil, fmt.Errorf("word %q (%s) missing after conflict", r.wordName, r.target)
	}
	s.logger.Debug().Str("word", r.wordName).Str("user_id", r.userID).Msg("Catalog conflict, retrying as existing word")
	return s.resolveExisting(ctx, r, word)
}

// linkError maps a write failure to the caller-facing error.
func (s *wordService) linkError(r *resolution, err error) error {
	if errors.Is(err, repository.ErrUserWordExists) {
		return apperr.AlreadyTracked(fmt.Sprintf("%q is already in your list", r.wordName))
	}
	s.logger.Error().Err(err).Str("word", r.wordName).Str("user_id", r.userID).Msg("Failed to write word")
	return err
}

// enrich calls the enricher and guarantees the error is a domain error.
func (s *wordService) enrich(ctx context.Context, wordName, target, native string, mode enrichment.Mode) (*enrichment.Result, error) {
	res, err := s.enricher.Enrich(ctx, enrichment.Request{
		WordName:       wordName,
		TargetLanguage: target,
		NativeLanguage: native,
		Mode:           mode,
	})
	if err != nil {
		if apperr.CodeOf(err) != "" {
			return nil, err
		}
		return nil, apperr.EnrichmentFailed("enrichment failed", err)
	}
	if res == nil {
		return nil, apperr.EnrichmentFailed("enrichment returned nothing", nil)
	}
	return res, nil
}

func (s *wordService) normalizeLanguages(targetCode, nativeCode string) (string, string, error) {
	target, native := lang.NormalizeCode(targetCode), lang.NormalizeCode(nativeCode)
	if !s.languages.Supports(target) {
		return "", "", apperr.Validationf("unsupported target language %q", targetCode)
	}
	if !s.languages.Supports(native) {
		return "", "", apperr.Validationf("unsupported native language %q", nativeCode)
	}
	return target, native, nil
}

func (s *wordService) TranslateWord(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	if err := s.validate.Struct(&req); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	target, native, err := s.normalizeLanguages(req.TargetLanguage, req.NativeLanguage)
	if err != nil {
		return nil, err
	}
	wordName := lang.NormalizeWord(req.Word, target)
	if wordName == "" {
		return nil, apperr.Validation("word must not be blank")
	}

	var enriched *enrichment.Result
	for attempt := 0; attempt < 2; attempt++ {
		word, err := s.words.GetWordByName(ctx, wordName, target)
		if err != nil {
			return nil, err
		}

		if word == nil {
			if enriched == nil {
				enriched, err = s.enrich(ctx, wordName, target, native, enrichment.FullEnrichment)
				if err != nil {
					return nil, err
				}
				if !lang.Same(enriched.DetectedLanguage, target) {
					return nil, apperr.LanguageMismatchf("%q is not a %s word", wordName, target)
				}
			}
			word = &model.Word{WordName: wordName, LanguageCode: target, Example: enriched.Example, Level: enriched.Level}
			t := &model.Translation{LanguageCode: native, TranslationValue: enriched.Translation}
			err = s.words.CreateWordWithTranslation(ctx, word, t, nil)
			if errors.Is(err, repository.ErrWordExists) {
				continue
			}
			if err != nil {
				return nil, err
			}
			s.events.WordCreated(ctx, word, "")
			return translateResult(word, t, true), nil
		}

		if t := word.Translation(native); t != nil {
			return translateResult(word, t, enriched != nil), nil
		}
		if enriched == nil {
			enriched, err = s.enrich(ctx, wordName, target, native, enrichment.TranslationOnly)
			if err != nil {
				return nil, err
			}
		}
		t := &model.Translation{WordID: word.WordID, LanguageCode: native, TranslationValue: enriched.Translation}
		err = s.words.AddTranslation(ctx, t, nil)
		if errors.Is(err, repository.ErrTranslationExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return translateResult(word, t, true), nil
	}
	return nil, fmt.Errorf("catalog conflict for %q (%s) persisted after retry", wordName, target)
}

func translateResult(w *model.Word, t *model.Translation, enriched bool) *TranslateResult {
	return &TranslateResult{
		WordID:           w.WordID,
		WordName:         w.WordName,
		LanguageCode:     w.LanguageCode,
		TranslationValue: t.TranslationValue,
		Enriched:         enriched,
	}
}

func (s *wordService) DeleteUserWord(ctx context.Context, userID, userWordID string) error {
	uw, err := s.userWords.GetUserWordByID(ctx, userWordID)
	if err != nil {
		return err
	}
	if uw == nil {
		return apperr.NotFoundf("word %s not found in your list", userWordID)
	}
	if uw.UserID != userID {
		return apperr.NotAuthorized("word belongs to another user")
	}
	if err := s.userWords.DeleteUserWord(ctx, userWordID); err != nil {
		s.logger.Error().Err(err).Str("user_word_id", userWordID).Msg("Failed to delete user word")
		return err
	}
	return nil
}
