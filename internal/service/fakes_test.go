package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/fadonmez/backend/internal/enrichment"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/quota"
	"github.com/fadonmez/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memStore is an in-memory stand-in for every repository the services use.
// It enforces the same unique constraints as the schema and writes each
// multi-row operation atomically.
type memStore struct {
	mu           sync.Mutex
	now          time.Time
	users        map[string]*model.User
	languages    []model.UserLanguage
	categories   map[string]*model.Category
	words        map[string]*model.Word
	translations []model.Translation
	userWords    []model.UserWord
}

func newMemStore() *memStore {
	return &memStore{
		now:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      map[string]*model.User{},
		categories: map[string]*model.Category{},
		words:      map[string]*model.Word{},
	}
}

// tick returns a strictly increasing timestamp. Callers hold mu.
func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

// seeding helpers

func (m *memStore) addUser(t *testing.T, tier quota.Tier) string {
	t.Helper()
	u := &model.User{Email: uuid.NewString() + "@example.com", Tier: tier}
	if err := m.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return u.UserID
}

func (m *memStore) addLanguage(t *testing.T, userID, code string, isDefault bool) model.UserLanguage {
	t.Helper()
	ul := &model.UserLanguage{UserID: userID, LanguageCode: code, IsDefault: isDefault}
	if err := m.CreateUserLanguage(context.Background(), ul); err != nil {
		t.Fatalf("seeding language: %v", err)
	}
	return *ul
}

func (m *memStore) addCategory(t *testing.T, ul model.UserLanguage, name string) string {
	t.Helper()
	c := &model.Category{UserID: ul.UserID, UserLanguageID: ul.ID, LanguageCode: ul.LanguageCode, Name: name}
	if err := m.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("seeding category: %v", err)
	}
	return c.CategoryID
}

// addWord seeds a catalog word with one translation per native code.
func (m *memStore) addWord(t *testing.T, name, code string, translations map[string]string) *model.Word {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	w := &model.Word{WordID: uuid.NewString(), WordName: name, LanguageCode: code, Example: "example", Level: model.LevelA1, CreatedAt: m.tick()}
	m.words[w.WordID] = w
	for native, value := range translations {
		m.translations = append(m.translations, model.Translation{
			TranslationID:    uuid.NewString(),
			WordID:           w.WordID,
			LanguageCode:     native,
			TranslationValue: value,
			CreatedAt:        m.tick(),
		})
	}
	return w
}

// trackWords links n fresh catalog words to the user's category.
func (m *memStore) trackWords(t *testing.T, userID, categoryID, code string, n int) []string {
	t.Helper()
	var ids []string
	for i := 0; i < n; i++ {
		w := m.addWord(t, fmt.Sprintf("seed-%s-%d", uuid.NewString()[:8], i), code, nil)
		uw := &model.UserWord{UserID: userID, WordID: w.WordID, CategoryID: categoryID}
		if err := m.LinkUserWord(context.Background(), uw); err != nil {
			t.Fatalf("seeding user word: %v", err)
		}
		ids = append(ids, uw.UserWordID)
	}
	return ids
}

func (m *memStore) wordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.words)
}

func (m *memStore) translationsOf(wordID string) []model.Translation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.translationsLocked(wordID)
}

func (m *memStore) userWordsOf(userID string) []model.UserWord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.UserWord
	for _, uw := range m.userWords {
		if uw.UserID == userID {
			out = append(out, uw)
		}
	}
	return out
}

func (m *memStore) translationsLocked(wordID string) []model.Translation {
	out := []model.Translation{}
	for _, t := range m.translations {
		if t.WordID == wordID {
			out = append(out, t)
		}
	}
	return out
}

func (m *memStore) wordLocked(id string) model.Word {
	w := *m.words[id]
	w.Translations = m.translationsLocked(id)
	return w
}

func (m *memStore) findWordLocked(name, code string) *model.Word {
	for _, w := range m.words {
		if w.WordName == name && w.LanguageCode == code {
			return w
		}
	}
	return nil
}

func (m *memStore) hasTranslationLocked(wordID, code string) bool {
	for _, t := range m.translations {
		if t.WordID == wordID && t.LanguageCode == code {
			return true
		}
	}
	return false
}

func (m *memStore) hasUserWordLocked(userID, wordID string) bool {
	for _, uw := range m.userWords {
		if uw.UserID == userID && uw.WordID == wordID {
			return true
		}
	}
	return false
}

func (m *memStore) insertTranslationLocked(t *model.Translation) {
	t.TranslationID = uuid.NewString()
	t.CreatedAt = m.tick()
	m.translations = append(m.translations, *t)
}

func (m *memStore) insertUserWordLocked(uw *model.UserWord) {
	uw.UserWordID = uuid.NewString()
	uw.CreatedAt = m.tick()
	m.userWords = append(m.userWords, *uw)
}

// repository.WordRepository

func (m *memStore) GetWordByName(_ context.Context, wordName, languageCode string) (*model.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.findWordLocked(wordName, languageCode)
	if w == nil {
		return nil, nil
	}
	out := m.wordLocked(w.WordID)
	return &out, nil
}

func (m *memStore) GetTranslation(_ context.Context, wordID, languageCode string) (*model.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.translations {
		if t.WordID == wordID && t.LanguageCode == languageCode {
			out := t
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateWordWithTranslation(_ context.Context, w *model.Word, t *model.Translation, uw *model.UserWord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findWordLocked(w.WordName, w.LanguageCode) != nil {
		return repository.ErrWordExists
	}
	w.WordID = uuid.NewString()
	w.CreatedAt = m.tick()
	stored := *w
	stored.Translations = nil
	m.words[w.WordID] = &stored

	t.WordID = w.WordID
	m.insertTranslationLocked(t)
	if uw != nil {
		uw.WordID = w.WordID
		m.insertUserWordLocked(uw)
	}
	return nil
}

func (m *memStore) AddTranslation(_ context.Context, t *model.Translation, uw *model.UserWord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasTranslationLocked(t.WordID, t.LanguageCode) {
		return repository.ErrTranslationExists
	}
	if uw != nil && m.hasUserWordLocked(uw.UserID, t.WordID) {
		return repository.ErrUserWordExists
	}
	m.insertTranslationLocked(t)
	if uw != nil {
		uw.WordID = t.WordID
		m.insertUserWordLocked(uw)
	}
	return nil
}

func (m *memStore) CountWords(_ context.Context, languageCode string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, w := range m.words {
		if w.LanguageCode == languageCode {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListWords(_ context.Context, languageCode string, offset, limit int) ([]model.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, w := range m.words {
		if w.LanguageCode == languageCode {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := []model.Word{}
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, m.wordLocked(ids[i]))
	}
	return out, nil
}

// repository.UserWordRepository

func (m *memStore) LinkUserWord(_ context.Context, uw *model.UserWord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasUserWordLocked(uw.UserID, uw.WordID) {
		return repository.ErrUserWordExists
	}
	m.insertUserWordLocked(uw)
	return nil
}

func (m *memStore) IsTrackingWordName(_ context.Context, userID, wordName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, uw := range m.userWords {
		if uw.UserID == userID && m.words[uw.WordID].WordName == wordName {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CountByUser(_ context.Context, userID string) (int, error) {
	return len(m.userWordsOf(userID)), nil
}

func (m *memStore) CountByCategory(_ context.Context, categoryID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, uw := range m.userWords {
		if uw.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListByUser(_ context.Context, userID string) ([]model.TrackedWord, error) {
	return m.listTracked(func(uw model.UserWord) bool { return uw.UserID == userID }), nil
}

func (m *memStore) ListByCategory(_ context.Context, categoryID string) ([]model.TrackedWord, error) {
	return m.listTracked(func(uw model.UserWord) bool { return uw.CategoryID == categoryID }), nil
}

func (m *memStore) listTracked(keep func(model.UserWord) bool) []model.TrackedWord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.TrackedWord{}
	for _, uw := range m.userWords {
		if keep(uw) {
			out = append(out, model.TrackedWord{UserWord: uw, Word: m.wordLocked(uw.WordID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserWord.CreatedAt.After(out[j].UserWord.CreatedAt) })
	return out
}

func (m *memStore) GetUserWordByID(_ context.Context, userWordID string) (*model.UserWord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, uw := range m.userWords {
		if uw.UserWordID == userWordID {
			out := uw
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) DeleteUserWord(_ context.Context, userWordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userWords = filter(m.userWords, func(uw model.UserWord) bool { return uw.UserWordID != userWordID })
	return nil
}

// repository.CategoryRepository

func (m *memStore) GetCategoryByID(_ context.Context, categoryID string) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[categoryID]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *memStore) CountByUserLanguage(_ context.Context, userID, languageCode string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.categories {
		if c.UserID == userID && c.LanguageCode == languageCode {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateCategory(_ context.Context, c *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.UserID == c.UserID && existing.LanguageCode == c.LanguageCode && existing.Name == c.Name {
			return repository.ErrCategoryExists
		}
	}
	c.CategoryID = uuid.NewString()
	c.CreatedAt = m.tick()
	stored := *c
	m.categories[c.CategoryID] = &stored
	return nil
}

func (m *memStore) ListCategories(_ context.Context, userID, languageCode string) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Category{}
	for _, c := range m.categories {
		if c.UserID == userID && c.LanguageCode == languageCode {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) DeleteCategory(_ context.Context, categoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, categoryID)
	m.userWords = filter(m.userWords, func(uw model.UserWord) bool { return uw.CategoryID != categoryID })
	return nil
}

// repository.UserRepository

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.Tier == "" {
		u.Tier = quota.TierNormal
	}
	if existing, ok := m.users[u.UserID]; ok {
		existing.Email, existing.Name = u.Email, u.Name
		existing.UpdatedAt = m.tick()
		*u = *existing
		return nil
	}
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	u.CreatedAt = m.tick()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	m.users[u.UserID] = &stored
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *memStore) UpdateTier(_ context.Context, id string, tier quota.Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("updating tier of user %s: %w", id, pgx.ErrNoRows)
	}
	u.Tier = tier
	return nil
}

// repository.LanguageRepository

func (m *memStore) ListUserLanguages(_ context.Context, userID string) ([]model.UserLanguage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.UserLanguage{}
	for _, ul := range m.languages {
		if ul.UserID == userID {
			out = append(out, ul)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsDefault && !out[j].IsDefault })
	return out, nil
}

func (m *memStore) GetUserLanguage(_ context.Context, userID, languageCode string) (*model.UserLanguage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ul := range m.languages {
		if ul.UserID == userID && ul.LanguageCode == languageCode {
			out := ul
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateUserLanguage(_ context.Context, ul *model.UserLanguage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.languages {
		if existing.UserID != ul.UserID {
			continue
		}
		if existing.LanguageCode == ul.LanguageCode || (existing.IsDefault && ul.IsDefault) {
			return repository.ErrLanguageExists
		}
	}
	ul.ID = uuid.NewString()
	ul.CreatedAt = m.tick()
	m.languages = append(m.languages, *ul)
	return nil
}

// repository.SubscriptionRepository

func (m *memStore) ApplyDowngrade(_ context.Context, userID string, retain int) (*repository.DowngradeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("downgrading user %s: %w", userID, pgx.ErrNoRows)
	}
	u.Tier = quota.TierNormal

	var res repository.DowngradeResult
	removedLanguages := map[string]bool{}
	m.languages = filter(m.languages, func(ul model.UserLanguage) bool {
		if ul.UserID == userID && !ul.IsDefault {
			removedLanguages[ul.ID] = true
			res.RemovedLanguages++
			return false
		}
		return true
	})
	removedCategories := map[string]bool{}
	for id, c := range m.categories {
		if removedLanguages[c.UserLanguageID] {
			removedCategories[id] = true
			delete(m.categories, id)
		}
	}
	m.userWords = filter(m.userWords, func(uw model.UserWord) bool { return !removedCategories[uw.CategoryID] })

	if retain == quota.Unlimited {
		return &res, nil
	}
	var mine []model.UserWord
	for _, uw := range m.userWords {
		if uw.UserID == userID {
			mine = append(mine, uw)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	keep := map[string]bool{}
	for i := 0; i < len(mine) && i < retain; i++ {
		keep[mine[i].UserWordID] = true
	}
	m.userWords = filter(m.userWords, func(uw model.UserWord) bool {
		if uw.UserID == userID && !keep[uw.UserWordID] {
			res.RemovedWords++
			return false
		}
		return true
	})
	return &res, nil
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// fakeEnricher answers from a fixed table and records every call. onCall runs
// inside Enrich before it returns, outside the lock.
type fakeEnricher struct {
	mu      sync.Mutex
	calls   []enrichment.Request
	results map[string]enrichment.Result
	err     error
	onCall  func(req enrichment.Request)
}

func newFakeEnricher() *fakeEnricher {
	return &fakeEnricher{results: map[string]enrichment.Result{}}
}

func (f *fakeEnricher) Enrich(_ context.Context, req enrichment.Request) (*enrichment.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	res, ok := f.results[req.WordName]
	err := f.err
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no canned result for %q", req.WordName)
	}
	if req.Mode == enrichment.TranslationOnly {
		return &enrichment.Result{Translation: res.Translation}, nil
	}
	return &res, nil
}

func (f *fakeEnricher) Calls() []enrichment.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]enrichment.Request(nil), f.calls...)
}

// barrier releases every waiter once n of them have arrived.
type barrier struct {
	mu      sync.Mutex
	n       int
	arrived int
	ch      chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{n: n, ch: make(chan struct{})}
}

func (b *barrier) wait() {
	b.mu.Lock()
	b.arrived++
	if b.arrived == b.n {
		close(b.ch)
	}
	b.mu.Unlock()
	select {
	case <-b.ch:
	case <-time.After(5 * time.Second):
	}
}

// fakeEvents records published word events.
type fakeEvents struct {
	mu    sync.Mutex
	words []model.Word
}

func (f *fakeEvents) WordCreated(_ context.Context, w *model.Word, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.words = append(f.words, *w)
}

func (f *fakeEvents) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.words)
}
