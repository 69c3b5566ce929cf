package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/quota"
	"github.com/fadonmez/backend/migrations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool returns a pool on a fresh schema migrated to the current schema.
// Tests using it are skipped unless TEST_DATABASE_URL is set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	admin, err := NewPool(ctx, dsn, false)
	require.NoError(t, err)
	schema := "it_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema + ",public"
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migs, err := migrations.All()
	require.NoError(t, err)
	for _, m := range migs {
		// Queues need the pgmq extension, which plain test databases lack.
		if strings.Contains(m.SQL, "pgmq.") {
			continue
		}
		_, err := pool.Exec(ctx, m.SQL)
		require.NoError(t, err, m.Name)
	}
	return pool
}


func seedLearner(t *testing.T, pool *pgxpool.Pool, tier quota.Tier, languages ...string) (*model.User, map[string]*model.Category) {
	t.Helper()
	ctx := context.Background()
	u := &model.User{Email: uuid.NewString() + "@example.com", Tier: tier}
	require.NoError(t, NewUserRepo(pool).CreateUser(ctx, u))

	categories := make(map[string]*model.Category, len(languages))
	for i, code := range languages {
		ul := &model.UserLanguage{UserID: u.UserID, LanguageCode: code, IsDefault: i == 0}
		require.NoError(t, NewLanguageRepo(pool).CreateUserLanguage(ctx, ul))
		c := &model.Category{UserID: u.UserID, UserLanguageID: ul.ID, LanguageCode: code, Name: "general"}
		require.NoError(t, NewCategoryRepo(pool).CreateCategory(ctx, c))
		categories[code] = c
	}
	return u, categories
}

func TestIntegration_WordUniqueness(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	words := NewWordRepo(pool)
	u, cats := seedLearner(t, pool, quota.TierNormal, "en")

	w := &model.Word{WordName: "cat", LanguageCode: "en", Example: "The cat sleeps.", Level: model.LevelA1}
	uw := &model.UserWord{UserID: u.UserID, CategoryID: cats["en"].CategoryID}
	require.NoError(t, words.CreateWordWithTranslation(ctx, w, &model.Translation{LanguageCode: "tr", TranslationValue: "kedi"}, uw))
	assert.NotEmpty(t, uw.UserWordID)

	dup := &model.Word{WordName: "cat", LanguageCode: "en"}
	err := words.CreateWordWithTranslation(ctx, dup, &model.Translation{LanguageCode: "de", TranslationValue: "Katze"}, nil)
	require.ErrorIs(t, err, ErrWordExists)

	err = words.AddTranslation(ctx, &model.Translation{WordID: w.WordID, LanguageCode: "tr", TranslationValue: "pisi"}, nil)
	require.ErrorIs(t, err, ErrTranslationExists)

	require.NoError(t, words.AddTranslation(ctx, &model.Translation{WordID: w.WordID, LanguageCode: "de", TranslationValue: "Katze"}, nil))

	got, err := words.GetWordByName(ctx, "cat", "en")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, w.WordID, got.WordID)
	assert.Len(t, got.Translations, 2)

	missing, err := words.GetWordByName(ctx, "dog", "en")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = NewUserWordRepo(pool).LinkUserWord(ctx, &model.UserWord{UserID: u.UserID, WordID: w.WordID, CategoryID: cats["en"].CategoryID})
	require.ErrorIs(t, err, ErrUserWordExists)
}

func TestIntegration_ApplyDowngrade(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	words := NewWordRepo(pool)
	userWords := NewUserWordRepo(pool)
	u, cats := seedLearner(t, pool, quota.TierPremium, "en", "fr")

	track := func(code string, n int) {
		for i := 0; i < n; i++ {
			w := &model.Word{WordName: fmt.Sprintf("%s-word-%d", code, i), LanguageCode: code}
			uw := &model.UserWord{UserID: u.UserID, CategoryID: cats[code].CategoryID}
			require.NoError(t, words.CreateWordWithTranslation(ctx, w, &model.Translation{LanguageCode: "tr", TranslationValue: "x"}, uw))
		}
	}
	track("en", 5)
	track("fr", 3)

	res, err := NewSubscriptionRepo(pool).ApplyDowngrade(ctx, u.UserID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RemovedLanguages)
	assert.Equal(t, int64(3), res.RemovedWords)

	left, err := userWords.ListByUser(ctx, u.UserID)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "en-word-4", left[0].Word.WordName)
	assert.Equal(t, "en-word-3", left[1].Word.WordName)

	got, err := NewUserRepo(pool).GetUserByID(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, quota.TierNormal, got.Tier)

	// Catalog entries survive the trim.
	count, err := words.CountWords(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestIntegration_MalformedIDsAreNotFound(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	c, err := NewCategoryRepo(pool).GetCategoryByID(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, c)

	uw, err := NewUserWordRepo(pool).GetUserWordByID(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, uw)
}

func TestIntegration_DeleteCategoryCascadesUserWords(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	categories := NewCategoryRepo(pool)
	userWords := NewUserWordRepo(pool)
	u, cats := seedLearner(t, pool, quota.TierNormal, "en")
	categoryID := cats["en"].CategoryID

	w := &model.Word{WordName: "tree", LanguageCode: "en", Example: "A tall tree.", Level: model.LevelA1}
	uw := &model.UserWord{UserID: u.UserID, CategoryID: categoryID}
	require.NoError(t, NewWordRepo(pool).CreateWordWithTranslation(ctx, w, &model.Translation{LanguageCode: "tr", TranslationValue: "ağaç"}, uw))

	require.NoError(t, categories.DeleteCategory(ctx, categoryID))

	c, err := categories.GetCategoryByID(ctx, categoryID)
	require.NoError(t, err)
	assert.Nil(t, c)
	gone, err := userWords.GetUserWordByID(ctx, uw.UserWordID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := NewWordRepo(pool).GetWordByName(ctx, "tree", "en")
	require.NoError(t, err)
	assert.NotNil(t, kept, "catalog words outlive the categories that tracked them")
}
